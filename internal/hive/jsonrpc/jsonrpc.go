// Package jsonrpc is implementation of hive client over JSON-RPC 2.0 HTTP API.
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/metrics"
)

var log = logrus.WithField("layer", "hive").WithField("package", "jsonrpc")

const (
	getAccountsMethod       = "condenser_api.get_accounts"
	getRankedPostsMethod    = "bridge.get_ranked_posts"
	getContentMethod        = "condenser_api.get_content"
	getAccountHistoryMethod = "account_history_api.get_account_history"
)

// Doer sends http requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type client struct {
	endpoint string
	d        Doer
	m        metrics.Metrics
	id       uint64
}

type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      uint64      `json:"id"`
}

type response struct {
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// New creates new instance of hive client.
func New(endpoint string, d Doer, m metrics.Metrics) hive.Client {
	return &client{
		endpoint: endpoint,
		d:        d,
		m:        m,
	}
}

func (c *client) GetAccounts(ctx context.Context, names ...string) ([]hive.Account, error) {
	var out []hive.Account

	// a null list is a cast error on the node
	if names == nil {
		names = []string{}
	}

	if err := c.call(ctx, getAccountsMethod, []interface{}{names}, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *client) GetRankedPosts(ctx context.Context, q hive.RankedPostsQuery) ([]hive.Post, error) {
	var out []hive.Post

	if err := c.call(ctx, getRankedPostsMethod, q, &out); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *client) GetContent(ctx context.Context, author, permlink string) (*hive.Post, error) {
	var out hive.Post

	if err := c.call(ctx, getContentMethod, []interface{}{author, permlink}, &out); err != nil {
		return nil, err
	}

	// condenser returns an empty post for unknown coordinates
	if out.Author == "" {
		return nil, fmt.Errorf("%w: post %s/%s", hive.ErrNotFound, author, permlink)
	}

	return &out, nil
}

func (c *client) GetAccountHistory(ctx context.Context, account string, start int64, limit uint32) ([]hive.HistoryItem, error) {
	var out struct {
		History []hive.HistoryItem `json:"history"`
	}

	if err := c.call(ctx, getAccountHistoryMethod, struct {
		Account string `json:"account"`
		Start   int64  `json:"start"`
		Limit   uint32 `json:"limit"`
	}{
		Account: account,
		Start:   start,
		Limit:   limit,
	}, &out); err != nil {
		return nil, err
	}

	return out.History, nil
}

func (c *client) call(ctx context.Context, method string, params interface{}, result interface{}) (err error) {
	started := time.Now()
	defer func() {
		c.m.ObserveRequest("hive", method, err, time.Since(started))
	}()

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      atomic.AddUint64(&c.id, 1),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	log.WithField("method", method).Debug("calling hive node")

	resp, err := c.d.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to send request: %s", hive.ErrNetwork, err)
	}
	defer resp.Body.Close() // nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: unexpected status %d", hive.ErrNetwork, resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return fmt.Errorf("%w: failed to decode response: %s", hive.ErrNetwork, err)
	}

	if len(r.Result) == 0 || string(r.Result) == "null" {
		if r.Error != nil {
			return fmt.Errorf("%w: %s (code %d)", hive.ErrNotFound, r.Error.Message, r.Error.Code)
		}
		return fmt.Errorf("%w: empty result of %s", hive.ErrNotFound, method)
	}

	if err := json.Unmarshal(r.Result, result); err != nil {
		return fmt.Errorf("%w: failed to decode %s result: %s", hive.ErrNetwork, method, err)
	}

	return nil
}
