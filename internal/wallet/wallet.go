// Package wallet bridges signing requests to an external wallet extension.
package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crowdhive/crowdhive/internal/entities"
)

//go:generate mockgen -destination=./mock/wallet.go -package=mock -source=wallet.go

var (
	// ErrExtensionMissing is returned when the signer is not installed.
	ErrExtensionMissing = errors.New("signing extension is missing")
	// ErrSignerUnavailable is returned when the signer is installed but the request to it failed.
	ErrSignerUnavailable = errors.New("signer is unavailable")
	// ErrSignRejected ...
	ErrSignRejected = errors.New("sign rejected")
	// ErrTransferRejected ...
	ErrTransferRejected = errors.New("transfer rejected")
	// ErrPostRejected ...
	ErrPostRejected = errors.New("post rejected")
	// ErrNotConnected is returned when an operation requires a connected wallet.
	ErrNotConnected = errors.New("wallet is not connected")
)

// RejectedError carries the message reported by the signer.
type RejectedError struct {
	Op      error
	Message string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// Unwrap ...
func (e *RejectedError) Unwrap() error {
	return e.Op
}

// Authority is a key role used for signing.
type Authority string

const (
	// PostingAuthority ...
	PostingAuthority Authority = "Posting"
	// ActiveAuthority ...
	ActiveAuthority Authority = "Active"
)

// PostRequest ...
type PostRequest struct {
	Username       string
	Title          string
	Body           string
	ParentAuthor   string
	ParentPermlink string
	Permlink       string
	JSONMetadata   string
	CommentOptions string
	Authority      Authority
}

// Response is a signer's answer to a single request.
type Response struct {
	Success bool
	Error   string
	Message string
	Result  json.RawMessage
}

// Signer is a capability holding user's keys, e.g. Hive Keychain.
// Every request is single-shot: it is answered exactly once and is never retried.
type Signer interface {
	Available(ctx context.Context) bool
	SignBuffer(ctx context.Context, username, message string, authority Authority) (*Response, error)
	Transfer(ctx context.Context, from, to, amount, memo, currency string) (*Response, error)
	Post(ctx context.Context, p PostRequest) (*Response, error)
}

// AccountRefresher fetches account and caches its snapshot.
type AccountRefresher interface {
	FetchAccount(ctx context.Context, username string) (*entities.Account, error)
}
