// Package entities contains main entities of service.
package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Account is a snapshot of hive account balances and profile.
type Account struct {
	Name          string
	Balance       string
	HBDBalance    string
	VestingShares string
	Reputation    int64
	ProfileImage  string
}

// SocialLinks ...
type SocialLinks struct {
	Website string
	Twitter string
	Discord string
	Github  string
}

// ProjectMetadata is the project payload embedded into post's json_metadata.
type ProjectMetadata struct {
	Category    string
	FundingGoal decimal.Decimal
	CoverImage  string
	SocialLinks SocialLinks
	Version     string
}

// Project is a crowdfunding project reconstructed from a hive post.
type Project struct {
	Author        string
	Permlink      string
	Title         string
	Description   string
	Image         string
	Category      string
	FundingTarget decimal.Decimal
	Raised        decimal.Decimal
	Progress      uint8
	CreatedAt     time.Time
	LastUpdate    time.Time
	NetVotes      int64
	Children      int64
	Contributors  []Contributor
}

// ID returns composite project id.
func (p Project) ID() string {
	return ProjectID(p.Author, p.Permlink)
}

// Target returns funding target with currency, e.g. "100 HIVE".
func (p Project) Target() string {
	return fmt.Sprintf("%s HIVE", p.FundingTarget.String())
}

// RaisedAmount returns raised amount with currency, e.g. "1.234 HIVE".
func (p Project) RaisedAmount() string {
	return fmt.Sprintf("%s HIVE", p.Raised.StringFixed(3))
}

// ProjectID ...
func ProjectID(author, permlink string) string {
	return fmt.Sprintf("%s-%s", author, permlink)
}

// Transfer is a token transfer found in account history.
type Transfer struct {
	From          string
	To            string
	Amount        string
	Memo          string
	Timestamp     time.Time
	TransactionID string
}

// Contributor ...
type Contributor struct {
	Username string
	Amount   string
	Date     time.Time
	TxID     string
}

// Draft is a locally stored unfinished project.
type Draft struct {
	ID            string
	Title         string
	Category      string
	FundingGoal   string
	Description   string
	CoverImage    string
	SocialLinks   SocialLinks
	TermsAccepted bool
	Creator       string
	LastUpdated   time.Time
}
