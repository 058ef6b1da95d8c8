package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gookit/validate"
	"github.com/shopspring/decimal"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/price"
	"github.com/crowdhive/crowdhive/internal/service"
)

const (
	currency        = "HIVE"
	explorerURL     = "https://hiveblocks.com/tx/"
	transferOp      = "transfer"
	defaultHistory  = 20
	maxHistoryLimit = 1000
)

var fallbackRate = decimal.RequireFromString("0.20")

type transferParams struct {
	From   string `validate:"required"`
	To     string `validate:"required"`
	Amount string `validate:"required"`
}

type transactions struct {
	c hive.Client
	w service.Wallet
	q price.Quoter
}

// NewTransactions creates new instance of transactions service. Nil quoter means the fallback rate is always used.
func NewTransactions(c hive.Client, w service.Wallet, q price.Quoter) service.Transactions {
	return transactions{
		c: c,
		w: w,
		q: q,
	}
}

func (t transactions) SendTokens(ctx context.Context, from, to, amount, memo string) (string, error) {
	if v := validate.Struct(transferParams{From: from, To: to, Amount: amount}); !v.Validate() {
		return "", fmt.Errorf("%w: %s", service.ErrInvalidRequest, v.Errors.One())
	}

	a, err := decimal.NewFromString(amount)
	if err != nil || !a.IsPositive() {
		return "", fmt.Errorf("%w: invalid amount %s", service.ErrInvalidRequest, amount)
	}

	log.WithField("from", from).WithField("to", to).WithField("amount", a.StringFixed(3)).Debug("sending tokens")

	return t.w.RequestTransfer(ctx, from, to, a.StringFixed(3), memo, currency)
}

func (t transactions) ListRecentTransfers(ctx context.Context, account string, limit uint32) ([]*entities.Transfer, error) {
	if limit == 0 {
		limit = defaultHistory
	}
	if limit > maxHistoryLimit {
		return nil, fmt.Errorf("%w: limit should be less or equal to %d", service.ErrInvalidRequest, maxHistoryLimit)
	}

	history, err := t.c.GetAccountHistory(ctx, account, -1, limit)
	if err != nil {
		if errors.Is(err, hive.ErrNotFound) {
			return []*entities.Transfer{}, nil
		}
		return nil, fmt.Errorf("failed to get account history: %w", err)
	}

	out := make([]*entities.Transfer, 0, len(history))
	for _, v := range history {
		if v.Op.Type != transferOp {
			continue
		}

		var op hive.TransferOperation
		if err := json.Unmarshal(v.Op.Value, &op); err != nil {
			log.WithField("trx_id", v.TrxID).WithError(err).Warn("failed to unmarshal transfer")
			continue
		}

		out = append(out, &entities.Transfer{
			From:          op.From,
			To:            op.To,
			Amount:        string(op.Amount),
			Memo:          op.Memo,
			Timestamp:     hive.ParseTime(v.Timestamp),
			TransactionID: v.TrxID,
		})
	}

	return out, nil
}

func (t transactions) ListContributions(ctx context.Context, account string, limit uint32) ([]*entities.Contributor, error) {
	transfers, err := t.ListRecentTransfers(ctx, account, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*entities.Contributor, 0, len(transfers))
	for _, v := range transfers {
		if v.To != account {
			continue
		}

		out = append(out, &entities.Contributor{
			Username: v.From,
			Amount:   v.Amount,
			Date:     v.Timestamp,
			TxID:     v.TransactionID,
		})
	}

	return out, nil
}

func (t transactions) ConvertToApproxUSD(ctx context.Context, amount string) string {
	a := parseAmount(amount)

	if t.q != nil {
		rate, err := t.q.HiveUSD(ctx)
		if err == nil {
			return "$" + a.Mul(rate).StringFixed(2)
		}
		log.WithError(err).Warn("failed to get hive price, fallback rate is used")
	}

	return "~$" + a.Mul(fallbackRate).StringFixed(2)
}

func (t transactions) ExplorerURL(txID string) string {
	return explorerURL + txID
}
