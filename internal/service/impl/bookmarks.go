package impl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/crowdhive/crowdhive/internal/service"
	"github.com/crowdhive/crowdhive/internal/storage"
)

const bookmarksKey = "bookmarkedProjects"

type bookmarks struct {
	s storage.Storage
}

// NewBookmarks creates new instance of bookmarks service.
func NewBookmarks(s storage.Storage) service.Bookmarks {
	return bookmarks{s: s}
}

func (b bookmarks) List(ctx context.Context) ([]string, error) {
	return getBookmarks(ctx, b.s)
}

func (b bookmarks) IsBookmarked(ctx context.Context, projectID string) (bool, error) {
	list, err := getBookmarks(ctx, b.s)
	if err != nil {
		return false, err
	}

	return indexOf(list, projectID) >= 0, nil
}

func (b bookmarks) Toggle(ctx context.Context, projectID string) (bool, error) {
	if projectID == "" {
		return false, fmt.Errorf("%w: empty project id", service.ErrInvalidRequest)
	}

	var bookmarked bool

	err := b.s.InTx(ctx, func(s storage.Storage) error {
		list, err := getBookmarks(ctx, s)
		if err != nil {
			return err
		}

		if i := indexOf(list, projectID); i >= 0 {
			list = append(list[:i], list[i+1:]...)
		} else {
			list = append(list, projectID)
			bookmarked = true
		}

		return setJSON(ctx, s, bookmarksKey, list)
	})
	if err != nil {
		return false, fmt.Errorf("failed to toggle bookmark: %w", err)
	}

	return bookmarked, nil
}

func getBookmarks(ctx context.Context, s storage.Storage) ([]string, error) {
	list := []string{}
	if err := getJSON(ctx, s, bookmarksKey, &list); err != nil {
		return nil, err
	}

	return list, nil
}

func indexOf(list []string, v string) int {
	for i := range list {
		if list[i] == v {
			return i
		}
	}

	return -1
}

// getJSON leaves v untouched if key doesn't exist.
func getJSON(ctx context.Context, s storage.Storage, key string, v interface{}) error {
	b, err := s.Get(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get %s: %w", key, err)
	}

	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	return nil
}

func setJSON(ctx context.Context, s storage.Storage, key string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := s.Set(ctx, key, b); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	return nil
}
