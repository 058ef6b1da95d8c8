package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/metrics"
)

var ctx = context.Background()

type rpcCall struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      uint64          `json:"id"`
}

func newServer(t *testing.T, status int, body string, check func(c rpcCall)) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var c rpcCall
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&c))
		assert.Equal(t, "2.0", c.JSONRPC)
		assert.NotZero(t, c.ID)

		if check != nil {
			check(c)
		}

		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	return srv
}

func TestClient_GetAccounts(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":[{
		"name": "alice",
		"balance": "10.000 HIVE",
		"hbd_balance": "1.000 HBD",
		"vesting_shares": "100.000000 VESTS",
		"reputation": "95832978796820",
		"posting_json_metadata": "{\"profile\":{\"profile_image\":\"https://x/y.png\"}}"
	}]}`, func(c rpcCall) {
		assert.Equal(t, "condenser_api.get_accounts", c.Method)
		assert.JSONEq(t, `[["alice"]]`, string(c.Params))
	})

	accounts, err := New(srv.URL, srv.Client(), metrics.Noop()).GetAccounts(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, []hive.Account{
		{
			Name:                "alice",
			Balance:             "10.000 HIVE",
			HBDBalance:          "1.000 HBD",
			VestingShares:       "100.000000 VESTS",
			Reputation:          95832978796820,
			PostingJSONMetadata: `{"profile":{"profile_image":"https://x/y.png"}}`,
		},
	}, accounts)
}

func TestClient_GetAccounts_Empty(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":[]}`, nil)

	accounts, err := New(srv.URL, srv.Client(), metrics.Noop()).GetAccounts(ctx, "nobody")
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestClient_GetAccounts_NoNames(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":[]}`, func(c rpcCall) {
		assert.Equal(t, "condenser_api.get_accounts", c.Method)
		assert.JSONEq(t, `[[]]`, string(c.Params))
	})

	accounts, err := New(srv.URL, srv.Client(), metrics.Noop()).GetAccounts(ctx)
	require.NoError(t, err)
	require.Empty(t, accounts)
}

func TestClient_GetRankedPosts(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":[{
		"author": "alice",
		"permlink": "my-project-1",
		"title": "My project",
		"body": "body",
		"created": "2024-01-02T03:04:05",
		"json_metadata": {"app": "crowdhive/1.0.0", "tags": ["crowdhive-project"]},
		"children": 2,
		"pending_payout_value": "1.234 HBD"
	}]}`, func(c rpcCall) {
		assert.Equal(t, "bridge.get_ranked_posts", c.Method)
		assert.JSONEq(t, `{"tag":"crowdhive","sort":"created","limit":2,"observer":"bob"}`, string(c.Params))
	})

	posts, err := New(srv.URL, srv.Client(), metrics.Noop()).GetRankedPosts(ctx, hive.RankedPostsQuery{
		Tag:      "crowdhive",
		Sort:     "created",
		Limit:    2,
		Observer: "bob",
	})
	require.NoError(t, err)
	require.Len(t, posts, 1)
	require.Equal(t, "alice", posts[0].Author)
	require.Equal(t, "1.234 HBD", posts[0].PendingPayoutValue)
	require.EqualValues(t, 2, posts[0].Children)
	require.JSONEq(t, `{"app": "crowdhive/1.0.0", "tags": ["crowdhive-project"]}`, string(posts[0].JSONMetadata))
}

func TestClient_GetContent(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{
		"author": "alice",
		"permlink": "p",
		"json_metadata": "{\"app\":\"crowdhive/1.0.0\"}",
		"net_votes": 5,
		"pending_payout_value": "0.000 HBD"
	}}`, func(c rpcCall) {
		assert.Equal(t, "condenser_api.get_content", c.Method)
		assert.JSONEq(t, `["alice","p"]`, string(c.Params))
	})

	p, err := New(srv.URL, srv.Client(), metrics.Noop()).GetContent(ctx, "alice", "p")
	require.NoError(t, err)
	require.Equal(t, "alice", p.Author)
	require.EqualValues(t, 5, p.NetVotes)
	require.JSONEq(t, `{"app":"crowdhive/1.0.0"}`, string(p.JSONMetadata))
}

func TestClient_GetContent_NotFound(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"author":"","permlink":""}}`, nil)

	p, err := New(srv.URL, srv.Client(), metrics.Noop()).GetContent(ctx, "alice", "unknown")
	require.True(t, errors.Is(err, hive.ErrNotFound))
	require.Nil(t, p)
}

func TestClient_GetAccountHistory(t *testing.T) {
	srv := newServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":{"history":[
		[1, {"trx_id": "t1", "timestamp": "2024-01-02T03:04:05", "op": {"type": "vote_operation", "value": {}}}],
		[2, {"trx_id": "t2", "timestamp": "2024-01-02T03:04:06", "op": ["transfer", {"from": "a", "to": "b", "amount": "1.000 HIVE", "memo": ""}]}]
	]}}`, func(c rpcCall) {
		assert.Equal(t, "account_history_api.get_account_history", c.Method)
		assert.JSONEq(t, `{"account":"alice","start":-1,"limit":10}`, string(c.Params))
	})

	h, err := New(srv.URL, srv.Client(), metrics.Noop()).GetAccountHistory(ctx, "alice", -1, 10)
	require.NoError(t, err)
	require.Len(t, h, 2)
	require.Equal(t, "vote", h[0].Op.Type)
	require.Equal(t, "transfer", h[1].Op.Type)
	require.Equal(t, "t2", h[1].TrxID)
}

func TestClient_Errors(t *testing.T) {
	tt := []struct {
		name   string
		status int
		body   string
		err    error
	}{
		{
			name:   "non_2xx",
			status: http.StatusBadGateway,
			body:   `{}`,
			err:    hive.ErrNetwork,
		},
		{
			name:   "malformed",
			status: http.StatusOK,
			body:   `{"result":`,
			err:    hive.ErrNetwork,
		},
		{
			name:   "malformed_result",
			status: http.StatusOK,
			body:   `{"result": {"name": 1}}`,
			err:    hive.ErrNetwork,
		},
		{
			name:   "no_result",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","id":1}`,
			err:    hive.ErrNotFound,
		},
		{
			name:   "rpc_error",
			status: http.StatusOK,
			body:   `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"Invalid parameters"}}`,
			err:    hive.ErrNotFound,
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			srv := newServer(t, tc.status, tc.body, nil)

			_, err := New(srv.URL, srv.Client(), metrics.Noop()).GetAccounts(ctx, "alice")
			require.True(t, errors.Is(err, tc.err), err)
		})
	}
}

func TestClient_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url, http.DefaultClient, metrics.Noop()).GetAccounts(ctx, "alice")
	require.True(t, errors.Is(err, hive.ErrNetwork))
}
