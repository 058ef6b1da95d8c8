// Package hive contains interface of hive JSON-RPC API and its wire types.
package hive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

//go:generate mockgen -destination=./mock/hive.go -package=mock -source=hive.go

var (
	// ErrNetwork is returned on transport failure, non-2xx status or malformed response.
	ErrNetwork = errors.New("network error")
	// ErrNotFound is returned when response has no result.
	ErrNotFound = errors.New("not found")
)

// TimeLayout is a layout of timestamps returned by hive nodes.
const TimeLayout = "2006-01-02T15:04:05"

// Client is a hive API client.
type Client interface {
	// GetAccounts calls condenser_api.get_accounts.
	GetAccounts(ctx context.Context, names ...string) ([]Account, error)
	// GetRankedPosts calls bridge.get_ranked_posts.
	GetRankedPosts(ctx context.Context, q RankedPostsQuery) ([]Post, error)
	// GetContent calls condenser_api.get_content.
	GetContent(ctx context.Context, author, permlink string) (*Post, error)
	// GetAccountHistory calls account_history_api.get_account_history.
	GetAccountHistory(ctx context.Context, account string, start int64, limit uint32) ([]HistoryItem, error)
}

// RankedPostsQuery ...
type RankedPostsQuery struct {
	Tag           string `json:"tag"`
	Sort          string `json:"sort"`
	Limit         uint16 `json:"limit"`
	Observer      string `json:"observer"`
	StartAuthor   string `json:"start_author,omitempty"`
	StartPermlink string `json:"start_permlink,omitempty"`
}

// Account ...
type Account struct {
	Name                string     `json:"name"`
	Balance             string     `json:"balance"`
	HBDBalance          string     `json:"hbd_balance"`
	VestingShares       string     `json:"vesting_shares"`
	Reputation          Reputation `json:"reputation"`
	PostingJSONMetadata string     `json:"posting_json_metadata"`
}

// Post ...
type Post struct {
	Author             string   `json:"author"`
	Permlink           string   `json:"permlink"`
	Title              string   `json:"title"`
	Body               string   `json:"body"`
	Created            string   `json:"created"`
	LastUpdate         string   `json:"last_update"`
	JSONMetadata       Metadata `json:"json_metadata"`
	NetVotes           int64    `json:"net_votes"`
	Children           int64    `json:"children"`
	PendingPayoutValue string   `json:"pending_payout_value"`
}

// HistoryItem is an entry of account history.
type HistoryItem struct {
	Index     int64
	TrxID     string
	Block     uint64
	Timestamp string
	Op        Operation
}

// UnmarshalJSON decodes `[index, {trx_id, block, timestamp, op}]`.
func (h *HistoryItem) UnmarshalJSON(b []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}

	if len(pair) != 2 {
		return fmt.Errorf("invalid history item length %d", len(pair))
	}

	var body struct {
		TrxID     string    `json:"trx_id"`
		Block     uint64    `json:"block"`
		Timestamp string    `json:"timestamp"`
		Op        Operation `json:"op"`
	}

	if err := json.Unmarshal(pair[0], &h.Index); err != nil {
		return fmt.Errorf("invalid history index: %w", err)
	}

	if err := json.Unmarshal(pair[1], &body); err != nil {
		return err
	}

	h.TrxID, h.Block, h.Timestamp, h.Op = body.TrxID, body.Block, body.Timestamp, body.Op

	return nil
}

// Operation is a blockchain operation. Type has no "_operation" suffix.
type Operation struct {
	Type  string
	Value json.RawMessage
}

// UnmarshalJSON accepts both legacy `["transfer", {...}]` and `{"type": "transfer_operation", "value": {...}}` forms.
func (o *Operation) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '[' {
		var pair []json.RawMessage
		if err := json.Unmarshal(b, &pair); err != nil {
			return err
		}

		if len(pair) != 2 {
			return fmt.Errorf("invalid operation length %d", len(pair))
		}

		if err := json.Unmarshal(pair[0], &o.Type); err != nil {
			return err
		}
		o.Value = pair[1]

		return nil
	}

	var v struct {
		Type  string          `json:"type"`
		Value json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	o.Type, o.Value = strings.TrimSuffix(v.Type, "_operation"), v.Value

	return nil
}

// TransferOperation ...
type TransferOperation struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount Asset  `json:"amount"`
	Memo   string `json:"memo"`
}

var nais = map[string]string{
	"@@000000021": "HIVE",
	"@@000000013": "HBD",
	"@@000000037": "VESTS",
}

// Asset is an amount with symbol, e.g. "1.000 HIVE".
type Asset string

// UnmarshalJSON accepts both "1.000 HIVE" and {"amount": "1000", "precision": 3, "nai": "@@000000021"} forms.
func (a *Asset) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*a = Asset(s)
		return nil
	}

	var v struct {
		Amount    string `json:"amount"`
		Precision int32  `json:"precision"`
		NAI       string `json:"nai"`
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	amount, err := decimal.NewFromString(v.Amount)
	if err != nil {
		return fmt.Errorf("invalid asset amount: %w", err)
	}

	symbol, ok := nais[v.NAI]
	if !ok {
		symbol = v.NAI
	}

	*a = Asset(fmt.Sprintf("%s %s", amount.Shift(-v.Precision).StringFixed(v.Precision), symbol))

	return nil
}

// Reputation is a raw account reputation. Nodes return it either as number or as string.
type Reputation int64

// UnmarshalJSON ...
func (r *Reputation) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		*r = 0
		return nil
	}

	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		*r = Reputation(v)
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid reputation: %w", err)
	}
	*r = Reputation(v)

	return nil
}

// Metadata is a raw json_metadata document. Condenser API returns it as a JSON-encoded string,
// bridge API returns an object; both are stored as the document itself.
type Metadata []byte

// UnmarshalJSON ...
func (m *Metadata) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*m = Metadata(s)
		return nil
	}

	if string(b) == "null" {
		*m = nil
		return nil
	}

	*m = append((*m)[:0], b...)

	return nil
}

// MarshalJSON encodes metadata the way condenser API does, as a string.
func (m Metadata) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

// ParseTime parses hive timestamp. Malformed value results in zero time.
func ParseTime(s string) time.Time {
	t, err := time.ParseInLocation(TimeLayout, strings.TrimSuffix(s, "Z"), time.UTC)
	if err != nil {
		return time.Time{}
	}

	return t
}
