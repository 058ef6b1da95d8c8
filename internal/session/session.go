// Package session keeps connected wallet username and the last fetched account snapshot.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crowdhive/crowdhive/internal/entities"
	"github.com/crowdhive/crowdhive/internal/storage"
)

const (
	usernameKey = "hiveUsername"
	accountKey  = "hiveAccount"
)

// Store is a session over a key-value storage.
// There is no locking: concurrent writers of the same key follow last-writer-wins.
type Store struct {
	s storage.Storage
}

type accountDTO struct {
	Name          string `json:"name"`
	Balance       string `json:"balance"`
	HBDBalance    string `json:"hbd_balance"`
	VestingShares string `json:"vesting_shares"`
	Reputation    int64  `json:"reputation"`
	ProfileImage  string `json:"profile_image,omitempty"`
}

// New creates new session store.
func New(s storage.Storage) *Store {
	return &Store{s: s}
}

// Username returns connected username or empty string if there is none.
func (s *Store) Username(ctx context.Context) (string, error) {
	var username string
	if err := s.get(ctx, usernameKey, &username); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", nil
		}
		return "", err
	}

	return username, nil
}

// SetUsername ...
func (s *Store) SetUsername(ctx context.Context, username string) error {
	return s.set(ctx, usernameKey, username)
}

// Clear removes username and cached account.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.s.Delete(ctx, usernameKey, accountKey); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// CachedAccount returns last cached account snapshot or nil.
func (s *Store) CachedAccount(ctx context.Context) (*entities.Account, error) {
	var a accountDTO
	if err := s.get(ctx, accountKey, &a); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &entities.Account{
		Name:          a.Name,
		Balance:       a.Balance,
		HBDBalance:    a.HBDBalance,
		VestingShares: a.VestingShares,
		Reputation:    a.Reputation,
		ProfileImage:  a.ProfileImage,
	}, nil
}

// SetCachedAccount overwrites cached account snapshot.
func (s *Store) SetCachedAccount(ctx context.Context, a *entities.Account) error {
	return s.set(ctx, accountKey, accountDTO{
		Name:          a.Name,
		Balance:       a.Balance,
		HBDBalance:    a.HBDBalance,
		VestingShares: a.VestingShares,
		Reputation:    a.Reputation,
		ProfileImage:  a.ProfileImage,
	})
}

// ClearAccount ...
func (s *Store) ClearAccount(ctx context.Context) error {
	if err := s.s.Delete(ctx, accountKey); err != nil {
		return fmt.Errorf("failed to delete account: %w", err)
	}

	return nil
}

func (s *Store) get(ctx context.Context, key string, v interface{}) error {
	b, err := s.s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

func (s *Store) set(ctx context.Context, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := s.s.Set(ctx, key, b); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
