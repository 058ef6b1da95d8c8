package hive

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHistoryItem_UnmarshalJSON(t *testing.T) {
	tt := []struct {
		name string
		in   string
		op   string
		tr   TransferOperation
	}{
		{
			name: "legacy",
			in: `[7, {"trx_id": "abc", "block": 10, "timestamp": "2024-01-02T03:04:05",
				"op": ["transfer", {"from": "alice", "to": "bob", "amount": "1.000 HIVE", "memo": "hi"}]}]`,
			op: "transfer",
			tr: TransferOperation{From: "alice", To: "bob", Amount: "1.000 HIVE", Memo: "hi"},
		},
		{
			name: "typed",
			in: `[7, {"trx_id": "abc", "block": 10, "timestamp": "2024-01-02T03:04:05",
				"op": {"type": "transfer_operation", "value": {"from": "alice", "to": "bob",
				"amount": {"amount": "1500", "precision": 3, "nai": "@@000000013"}, "memo": "hi"}}}]`,
			op: "transfer",
			tr: TransferOperation{From: "alice", To: "bob", Amount: "1.500 HBD", Memo: "hi"},
		},
	}

	for i := range tt {
		tc := tt[i]

		t.Run(tc.name, func(t *testing.T) {
			var h HistoryItem
			require.NoError(t, json.Unmarshal([]byte(tc.in), &h))

			assert.EqualValues(t, 7, h.Index)
			assert.Equal(t, "abc", h.TrxID)
			assert.EqualValues(t, 10, h.Block)
			assert.Equal(t, "2024-01-02T03:04:05", h.Timestamp)
			assert.Equal(t, tc.op, h.Op.Type)

			var tr TransferOperation
			require.NoError(t, json.Unmarshal(h.Op.Value, &tr))
			assert.Equal(t, tc.tr, tr)
		})
	}
}

func TestHistoryItem_UnmarshalJSON_Invalid(t *testing.T) {
	var h HistoryItem
	require.Error(t, json.Unmarshal([]byte(`[1]`), &h))
	require.Error(t, json.Unmarshal([]byte(`{}`), &h))
	require.Error(t, json.Unmarshal([]byte(`["x", {}]`), &h))
}

func TestReputation_UnmarshalJSON(t *testing.T) {
	tt := map[string]int64{
		`123`:               123,
		`"95832978796820"`:  95832978796820,
		`-5`:                -5,
		`null`:              0,
		`1.5e3`:             1500,
	}

	for in, expected := range tt {
		var r Reputation
		require.NoError(t, json.Unmarshal([]byte(in), &r), in)
		assert.EqualValues(t, expected, r, in)
	}

	var r Reputation
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &r))
}

func TestMetadata_UnmarshalJSON(t *testing.T) {
	var p struct {
		M Metadata `json:"json_metadata"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"json_metadata": "{\"app\":\"crowdhive/1.0.0\"}"}`), &p))
	assert.JSONEq(t, `{"app":"crowdhive/1.0.0"}`, string(p.M))

	require.NoError(t, json.Unmarshal([]byte(`{"json_metadata": {"app":"peakd"}}`), &p))
	assert.JSONEq(t, `{"app":"peakd"}`, string(p.M))

	require.NoError(t, json.Unmarshal([]byte(`{"json_metadata": null}`), &p))
	assert.Nil(t, p.M)

	b, err := json.Marshal(Metadata(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `"{\"a\":1}"`, string(b))
}

func TestParseTime(t *testing.T) {
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), ParseTime("2024-01-02T03:04:05"))
	assert.Equal(t, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), ParseTime("2024-01-02T03:04:05Z"))
	assert.True(t, ParseTime("yesterday").IsZero())
}
