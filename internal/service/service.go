// Package service contains interfaces for service business-logic.
package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/wallet"
)

var (
	// ErrAccountNotFound ...
	ErrAccountNotFound = errors.New("account not found")
	// ErrDraftNotFound ...
	ErrDraftNotFound = errors.New("draft not found")
	// ErrInvalidRequest is returned when arguments don't pass validation.
	ErrInvalidRequest = errors.New("invalid request")
)

// Wallet is implemented by wallet.Bridge.
type Wallet interface {
	IsExtensionAvailable(ctx context.Context) bool
	RequestLogin(ctx context.Context, username string) (string, error)
	RequestTransfer(ctx context.Context, from, to, amount, memo, currency string) (string, error)
	RequestPost(ctx context.Context, p wallet.PostRequest) (string, error)
	Disconnect(ctx context.Context) error
	Refresh(ctx context.Context) error
	State(ctx context.Context, userAgent string) (wallet.State, error)
}

// Accounts ...
type Accounts interface {
	// FetchAccount fetches account and overwrites the cached snapshot.
	FetchAccount(ctx context.Context, username string) (*entities.Account, error)
	// CachedAccount returns the cached snapshot or nil. It never calls the network.
	CachedAccount(ctx context.Context) (*entities.Account, error)
	// UsernameExists returns false on any error.
	UsernameExists(ctx context.Context, username string) bool
}

// ListProjectsParams ...
type ListProjectsParams struct {
	Tag      string
	Sort     string
	Limit    uint16
	Observer string
	// After is a cursor, the last project of the previous page.
	After *PostID
}

// PostID ...
type PostID struct {
	Author   string
	Permlink string
}

// CreateProjectParams ...
type CreateProjectParams struct {
	Username    string `validate:"required"`
	Title       string `validate:"required|maxLen:255"`
	Body        string `validate:"required"`
	Category    string `validate:"required|maxLen:64"`
	FundingGoal decimal.Decimal
	CoverImage  string `validate:"fullUrl"`
	SocialLinks entities.SocialLinks
}

// Projects ...
type Projects interface {
	ListProjects(ctx context.Context, p ListProjectsParams) ([]*entities.Project, error)
	// GetProject returns nil project if the post doesn't exist.
	GetProject(ctx context.Context, author, permlink string) (*entities.Project, error)
	// CreateProject broadcasts a project post and returns its permlink.
	CreateProject(ctx context.Context, p CreateProjectParams) (string, error)
}

// Transactions ...
type Transactions interface {
	SendTokens(ctx context.Context, from, to, amount, memo string) (string, error)
	ListRecentTransfers(ctx context.Context, account string, limit uint32) ([]*entities.Transfer, error)
	ListContributions(ctx context.Context, account string, limit uint32) ([]*entities.Contributor, error)
	// ConvertToApproxUSD never fails, it falls back to an estimated rate.
	ConvertToApproxUSD(ctx context.Context, amount string) string
	ExplorerURL(txID string) string
}

// Bookmarks ...
type Bookmarks interface {
	List(ctx context.Context) ([]string, error)
	IsBookmarked(ctx context.Context, projectID string) (bool, error)
	// Toggle adds or removes the project and returns whether it is bookmarked now.
	Toggle(ctx context.Context, projectID string) (bool, error)
}

// Drafts ...
type Drafts interface {
	Create(ctx context.Context, creator string) (*entities.Draft, error)
	Get(ctx context.Context, id string) (*entities.Draft, error)
	List(ctx context.Context, creator string) ([]*entities.Draft, error)
	Save(ctx context.Context, d *entities.Draft) (*entities.Draft, error)
	Delete(ctx context.Context, id string) error
	// Submit creates a project from the draft and deletes the draft.
	Submit(ctx context.Context, id string) (string, error)
}
