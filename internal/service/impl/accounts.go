// Package impl is implementation of service interfaces.
package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/hive"
	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/session"
)

var log = logrus.WithField("layer", "service").WithField("package", "impl")

type accounts struct {
	c hive.Client
	s *session.Store
}

// NewAccounts creates new instance of accounts service.
func NewAccounts(c hive.Client, s *session.Store) service.Accounts {
	return accounts{
		c: c,
		s: s,
	}
}

func (a accounts) FetchAccount(ctx context.Context, username string) (*entities.Account, error) {
	list, err := a.c.GetAccounts(ctx, username)
	if err != nil && !errors.Is(err, hive.ErrNotFound) {
		return nil, fmt.Errorf("failed to get accounts: %w", err)
	}

	if len(list) == 0 {
		return nil, fmt.Errorf("%w: %s", service.ErrAccountNotFound, username)
	}

	acc := toAccount(list[0])

	if err := a.s.SetCachedAccount(ctx, acc); err != nil {
		return nil, fmt.Errorf("failed to cache account: %w", err)
	}

	return acc, nil
}

func (a accounts) CachedAccount(ctx context.Context) (*entities.Account, error) {
	acc, err := a.s.CachedAccount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get cached account: %w", err)
	}

	return acc, nil
}

func (a accounts) UsernameExists(ctx context.Context, username string) bool {
	list, err := a.c.GetAccounts(ctx, username)
	if err != nil {
		log.WithField("username", username).WithError(err).Error("failed to check username")
		return false
	}

	return len(list) > 0
}

func toAccount(a hive.Account) *entities.Account {
	return &entities.Account{
		Name:          a.Name,
		Balance:       a.Balance,
		HBDBalance:    a.HBDBalance,
		VestingShares: a.VestingShares,
		Reputation:    int64(a.Reputation),
		ProfileImage:  profileImage(a.PostingJSONMetadata),
	}
}

// profileImage extracts profile.profile_image, malformed metadata results in empty string.
func profileImage(metadata string) string {
	var m struct {
		Profile struct {
			ProfileImage string `json:"profile_image"`
		} `json:"profile"`
	}

	if err := json.Unmarshal([]byte(metadata), &m); err != nil {
		return ""
	}

	return m.Profile.ProfileImage
}
