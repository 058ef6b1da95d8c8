package server

import (
	"github.com/shopspring/decimal"
)

const (
	maxLimit           = 100
	defaultLimit       = 20
	defaultHistorySize = 20
	maxHistorySize     = 1000
)

// Error ...
// swagger:model
type Error struct {
	Error string `json:"error"`
}

// WalletState ...
// swagger:model
type WalletState struct {
	// enum: disconnected,connecting,connected
	Status             string `json:"status"`
	Username           string `json:"username,omitempty"`
	Error              string `json:"error,omitempty"`
	ExtensionAvailable bool   `json:"extensionAvailable"`
	DownloadLink       string `json:"downloadLink"`
}

// LoginRequest ...
type LoginRequest struct {
	Username string `json:"username"`
}

// MessageResponse ...
type MessageResponse struct {
	Message string `json:"message"`
}

// Account ...
// swagger:model
type Account struct {
	Name          string `json:"name"`
	Balance       string `json:"balance"`
	HBDBalance    string `json:"hbdBalance"`
	VestingShares string `json:"vestingShares"`
	Reputation    int64  `json:"reputation"`
	ProfileImage  string `json:"profileImage,omitempty"`
}

// ExistsResponse ...
type ExistsResponse struct {
	Exists bool `json:"exists"`
}

// SocialLinks ...
type SocialLinks struct {
	Website string `json:"website,omitempty"`
	Twitter string `json:"twitter,omitempty"`
	Discord string `json:"discord,omitempty"`
	Github  string `json:"github,omitempty"`
}

// Project ...
// swagger:model
type Project struct {
	ID          string `json:"id"`
	Author      string `json:"author"`
	Permlink    string `json:"permlink"`
	Title       string `json:"title"`
	Creator     string `json:"creator"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	// Funding target, e.g. "100 HIVE".
	Target string `json:"target"`
	// Raised amount, e.g. "12.500 HIVE".
	Raised string `json:"raised"`
	// Percentage in range [0, 100].
	Progress     uint8         `json:"progress"`
	CreatedAt    int64         `json:"createdAt"`
	LastUpdate   int64         `json:"lastUpdate"`
	NetVotes     int64         `json:"netVotes"`
	Children     int64         `json:"children"`
	Status       string        `json:"status"`
	Contributors []Contributor `json:"contributors"`
}

// CreateProjectRequest ...
type CreateProjectRequest struct {
	Title       string          `json:"title"`
	Body        string          `json:"body"`
	Category    string          `json:"category"`
	FundingGoal decimal.Decimal `json:"fundingGoal"`
	CoverImage  string          `json:"coverImage"`
	SocialLinks SocialLinks     `json:"socialLinks"`
}

// CreateProjectResponse ...
type CreateProjectResponse struct {
	ID       string `json:"id"`
	Permlink string `json:"permlink"`
}

// Contributor ...
type Contributor struct {
	Username string `json:"username"`
	Amount   string `json:"amount"`
	Date     int64  `json:"date"`
	TxID     string `json:"txId"`
}

// Transfer ...
// swagger:model
type Transfer struct {
	From          string `json:"from"`
	To            string `json:"to"`
	Amount        string `json:"amount"`
	Memo          string `json:"memo"`
	Timestamp     int64  `json:"timestamp"`
	TransactionID string `json:"transactionId"`
}

// TransferRequest ...
type TransferRequest struct {
	To     string `json:"to"`
	Amount string `json:"amount"`
	Memo   string `json:"memo"`
}

// TransferResponse ...
type TransferResponse struct {
	TransactionID string `json:"transactionId,omitempty"`
	ExplorerURL   string `json:"explorerUrl,omitempty"`
}

// PriceResponse ...
type PriceResponse struct {
	Amount string `json:"amount"`
	// e.g. "$3.50", or "~$2.00" when estimated.
	USD string `json:"usd"`
}

// ExplorerResponse ...
type ExplorerResponse struct {
	URL string `json:"url"`
}

// BookmarkResponse ...
type BookmarkResponse struct {
	Bookmarked bool `json:"bookmarked"`
}

// Draft ...
// swagger:model
type Draft struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Category      string      `json:"category"`
	FundingGoal   string      `json:"fundingGoal"`
	Description   string      `json:"description"`
	CoverImage    string      `json:"coverImage"`
	SocialLinks   SocialLinks `json:"socialLinks"`
	TermsAccepted bool        `json:"termsAccepted"`
	Creator       string      `json:"creator"`
	LastUpdated   int64       `json:"lastUpdated"`
}
