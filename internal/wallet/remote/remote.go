// Package remote is implementation of signer interface over an HTTP signing bridge.
// The bridge holds the keys (e.g. Hive Keychain companion) and answers every request once.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/wallet"
)

var log = logrus.WithField("layer", "wallet").WithField("package", "remote")

type signer struct {
	url string
	c   *http.Client
}

type responseDTO struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
}

type signBufferDTO struct {
	Username string `json:"username"`
	Message  string `json:"message"`
	Method   string `json:"method"`
}

type transferDTO struct {
	Username string `json:"username"`
	To       string `json:"to"`
	Amount   string `json:"amount"`
	Memo     string `json:"memo"`
	Currency string `json:"currency"`
}

type postDTO struct {
	Username       string `json:"username"`
	Title          string `json:"title"`
	Body           string `json:"body"`
	ParentUsername string `json:"parent_username"`
	ParentPermlink string `json:"parent_perm"`
	Permlink       string `json:"permlink"`
	JSONMetadata   string `json:"json_metadata"`
	CommentOptions string `json:"comment_options"`
	Method         string `json:"method"`
}

// New creates new instance of remote signer.
func New(url string, c *http.Client) wallet.Signer {
	return signer{
		url: strings.TrimSuffix(url, "/"),
		c:   c,
	}
}

func (s signer) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url+"/status", nil)
	if err != nil {
		return false
	}

	resp, err := s.c.Do(req)
	if err != nil {
		log.WithError(err).Debug("signer is not reachable")
		return false
	}
	defer resp.Body.Close() // nolint:errcheck

	return resp.StatusCode == http.StatusOK
}

func (s signer) SignBuffer(ctx context.Context, username, message string, authority wallet.Authority) (*wallet.Response, error) {
	return s.do(ctx, "/sign_buffer", signBufferDTO{
		Username: username,
		Message:  message,
		Method:   string(authority),
	})
}

func (s signer) Transfer(ctx context.Context, from, to, amount, memo, currency string) (*wallet.Response, error) {
	return s.do(ctx, "/transfer", transferDTO{
		Username: from,
		To:       to,
		Amount:   amount,
		Memo:     memo,
		Currency: currency,
	})
}

func (s signer) Post(ctx context.Context, p wallet.PostRequest) (*wallet.Response, error) {
	return s.do(ctx, "/post", postDTO{
		Username:       p.Username,
		Title:          p.Title,
		Body:           p.Body,
		ParentUsername: p.ParentAuthor,
		ParentPermlink: p.ParentPermlink,
		Permlink:       p.Permlink,
		JSONMetadata:   p.JSONMetadata,
		CommentOptions: p.CommentOptions,
		Method:         string(p.Authority),
	})
}

func (s signer) do(ctx context.Context, path string, body interface{}) (*wallet.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url+path, bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.c.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	var r responseDTO
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return nil, fmt.Errorf("failed to decode response with status %d: %w", resp.StatusCode, err)
	}

	// a rejection may come with any status, success only with 2xx
	if r.Success && (resp.StatusCode < 200 || resp.StatusCode > 299) {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return &wallet.Response{
		Success: r.Success,
		Error:   r.Error,
		Message: r.Message,
		Result:  r.Result,
	}, nil
}
