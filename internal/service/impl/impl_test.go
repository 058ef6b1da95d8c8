package impl

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/crowdhive/crowdhive/internal/metrics"
	"github.com/crowdhive/crowdhive/internal/session"
	"github.com/crowdhive/crowdhive/internal/storage/memory"
	"github.com/crowdhive/crowdhive/internal/wallet"
	walletmock "github.com/crowdhive/crowdhive/internal/wallet/mock"
)

var (
	ctx     = context.Background()
	errTest = errors.New("test")
)

func newTestBridge(t *testing.T) (*wallet.Bridge, *walletmock.MockSigner, *session.Store) {
	ctrl := gomock.NewController(t)

	s := walletmock.NewMockSigner(ctrl)
	r := walletmock.NewMockAccountRefresher(ctrl)
	sess := session.New(memory.New())

	return wallet.New(s, sess, r, metrics.Noop()), s, sess
}
