package wallet

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/metrics"
	"github.com/crowdhive/crowdhive/internal/session"
)

var log = logrus.WithField("layer", "wallet").WithField("package", "wallet")

const loginTimeLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	defaultSignError     = "Failed to authenticate with Hive Keychain"
	defaultTransferError = "Failed to send HIVE"
	defaultPostError     = "Failed to post project to Hive Blockchain"
)

// Status is a wallet connection status.
type Status string

const (
	// Disconnected ...
	Disconnected Status = "disconnected"
	// Connecting ...
	Connecting Status = "connecting"
	// Connected ...
	Connected Status = "connected"
)

// State describes wallet connection.
type State struct {
	Status             Status
	Username           string
	Error              string
	ExtensionAvailable bool
	DownloadLink       string
}

// Bridge sends signing requests to the signer and keeps the session in sync.
type Bridge struct {
	s       Signer
	session *session.Store
	r       AccountRefresher
	m       metrics.Metrics
	now     func() time.Time

	mu         sync.Mutex
	connecting int
	lastErr    string
}

// New creates new bridge. Nil signer is treated as a missing extension.
func New(s Signer, sess *session.Store, r AccountRefresher, m metrics.Metrics) *Bridge {
	return &Bridge{
		s:       s,
		session: sess,
		r:       r,
		m:       m,
		now:     time.Now,
	}
}

// IsExtensionAvailable checks the signer. The answer is never cached, the signer may appear later.
func (b *Bridge) IsExtensionAvailable(ctx context.Context) bool {
	return b.s != nil && b.s.Available(ctx)
}

// RequestLogin asks the signer to sign a login challenge with posting authority.
// On success username is stored in the session and the account is refreshed; refresh failure doesn't fail login.
func (b *Bridge) RequestLogin(ctx context.Context, username string) (string, error) {
	if !b.IsExtensionAvailable(ctx) {
		b.finishLogin(false, ErrExtensionMissing)
		return "", ErrExtensionMissing
	}

	b.mu.Lock()
	b.connecting++
	b.mu.Unlock()

	msg, err := b.login(ctx, username)
	b.finishLogin(true, err)

	return msg, err
}

func (b *Bridge) login(ctx context.Context, username string) (string, error) {
	challenge := fmt.Sprintf("Login to CrowdHive at %s", b.now().UTC().Format(loginTimeLayout))

	resp, err := b.s.SignBuffer(ctx, username, challenge, PostingAuthority)
	if err := b.check("sign_buffer", resp, err, ErrSignRejected, defaultSignError); err != nil {
		return "", err
	}

	if err := b.session.SetUsername(ctx, username); err != nil {
		return "", fmt.Errorf("failed to save username: %w", err)
	}

	if _, err := b.r.FetchAccount(ctx, username); err != nil {
		log.WithField("username", username).WithError(err).Warn("failed to refresh account after login")
		return fmt.Sprintf("Connected as @%s, but couldn't fetch account details.", username), nil
	}

	return fmt.Sprintf("Successfully connected as @%s", username), nil
}

func (b *Bridge) finishLogin(started bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if started {
		b.connecting--
	}

	b.lastErr = ""
	if err != nil {
		b.lastErr = err.Error()

		var r *RejectedError
		if errors.As(err, &r) {
			b.lastErr = r.Message
		}
	}
}

// RequestTransfer asks the signer to sign and broadcast a transfer. It returns transaction id if the signer reports it.
func (b *Bridge) RequestTransfer(ctx context.Context, from, to, amount, memo, currency string) (string, error) {
	if !b.IsExtensionAvailable(ctx) {
		return "", ErrExtensionMissing
	}

	resp, err := b.s.Transfer(ctx, from, to, amount, memo, currency)
	if err := b.check("transfer", resp, err, ErrTransferRejected, defaultTransferError); err != nil {
		return "", err
	}

	var result struct {
		ID string `json:"id"`
	}
	if len(resp.Result) > 0 {
		if err := json.Unmarshal(resp.Result, &result); err != nil {
			log.WithError(err).Debug("transfer result has no id")
		}
	}

	return result.ID, nil
}

// RequestPost asks the signer to sign and broadcast a post.
func (b *Bridge) RequestPost(ctx context.Context, p PostRequest) (string, error) {
	if !b.IsExtensionAvailable(ctx) {
		return "", ErrExtensionMissing
	}

	if p.Authority == "" {
		p.Authority = PostingAuthority
	}

	resp, err := b.s.Post(ctx, p)
	if err := b.check("post", resp, err, ErrPostRejected, defaultPostError); err != nil {
		return "", err
	}

	return p.Permlink, nil
}

func (b *Bridge) check(op string, resp *Response, err error, rejected error, defaultMessage string) error {
	if err != nil {
		b.m.IncSignRequests(op, false)
		return fmt.Errorf("%w: %s", ErrSignerUnavailable, err)
	}

	if resp == nil || !resp.Success {
		b.m.IncSignRequests(op, false)

		msg := defaultMessage
		if resp != nil && resp.Error != "" {
			msg = resp.Error
		}

		return &RejectedError{Op: rejected, Message: msg}
	}

	b.m.IncSignRequests(op, true)

	return nil
}

// Disconnect clears the session.
func (b *Bridge) Disconnect(ctx context.Context) error {
	if err := b.session.Clear(ctx); err != nil {
		return err
	}

	b.mu.Lock()
	b.lastErr = ""
	b.mu.Unlock()

	return nil
}

// Refresh refetches connected account. Failure keeps the wallet connected.
func (b *Bridge) Refresh(ctx context.Context) error {
	username, err := b.session.Username(ctx)
	if err != nil {
		return err
	}

	if username == "" {
		return ErrNotConnected
	}

	if _, err := b.r.FetchAccount(ctx, username); err != nil {
		return fmt.Errorf("failed to refresh account: %w", err)
	}

	return nil
}

// State returns current connection state. userAgent is used to pick extension download link.
func (b *Bridge) State(ctx context.Context, userAgent string) (State, error) {
	username, err := b.session.Username(ctx)
	if err != nil {
		return State{}, err
	}

	s := State{
		Status:             Disconnected,
		Username:           username,
		ExtensionAvailable: b.IsExtensionAvailable(ctx),
		DownloadLink:       DownloadLink(userAgent),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.connecting > 0:
		s.Status = Connecting
	case username != "":
		s.Status = Connected
	default:
		s.Error = b.lastErr
	}

	return s, nil
}

// DownloadLink returns Hive Keychain install link for the browser.
func DownloadLink(userAgent string) string {
	switch {
	case strings.Contains(userAgent, "Chrome"):
		return "https://chrome.google.com/webstore/detail/hive-keychain/jcacnejopjdphbnjgfaaobbfafkihpep"
	case strings.Contains(userAgent, "Firefox"):
		return "https://addons.mozilla.org/en-US/firefox/addon/hive-keychain/"
	case strings.Contains(userAgent, "Edge"):
		return "https://microsoftedge.microsoft.com/addons/detail/hive-keychain/bfdapmceonidnlpjkcikejgkliccnjkp"
	default:
		return "https://hive-keychain.com"
	}
}
