package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/bookmarks/internal/apperror"
	"github.com/MrSnakeDoc/bookmarks/internal/domain"
	"github.com/MrSnakeDoc/bookmarks/internal/storage"
)

// MirrorSnapshot replaces the mirrored collection with c in one transaction.
// Bookmarks no longer in c are removed.
func (s *Store) MirrorSnapshot(ctx context.Context, c domain.Collection) error {
	existing, err := s.mirroredIDs(ctx)
	if err != nil {
		return err
	}

	snapshot, err := storage.Encode(c)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	current := make(map[string]bool, len(c))
	records := make(map[string][]byte, len(c))
	for _, b := range c {
		data, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("failed to marshal bookmark %s: %w", b.ID, err)
		}
		current[b.ID] = true
		records[b.ID] = data
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, id := range existing {
			if !current[id] {
				pipe.Del(ctx, BookmarkKey(id))
				pipe.SRem(ctx, AllBookmarksKey(), id)
			}
		}
		for id, data := range records {
			pipe.Set(ctx, BookmarkKey(id), data, 0)
			pipe.SAdd(ctx, AllBookmarksKey(), id)
		}
		pipe.Set(ctx, SnapshotKey(), snapshot, 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mirror bookmarks: %w", err)
	}
	return nil
}

// mirroredIDs lists the ids in the index set plus any bookmark key left
// behind outside of it.
func (s *Store) mirroredIDs(ctx context.Context) ([]string, error) {
	ids, err := s.client.SMembers(ctx, AllBookmarksKey()).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark IDs: %w", err)
	}

	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		seen[id] = true
	}

	iter := s.client.Scan(ctx, 0, KeyPrefixBookmark+"*", 100).Iterator()
	for iter.Next(ctx) {
		id, err := ExtractBookmarkID(iter.Val())
		if err != nil || seen[id] {
			continue
		}
		seen[id] = true
		ids = append(ids, id)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan bookmark keys: %w", err)
	}
	return ids, nil
}

// Snapshot returns the last mirrored collection, in storage order.
func (s *Store) Snapshot(ctx context.Context) (domain.Collection, error) {
	data, err := s.client.Get(ctx, SnapshotKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Collection{}, nil
		}
		return nil, fmt.Errorf("failed to get snapshot: %w", err)
	}

	var c domain.Collection
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	if c == nil {
		c = domain.Collection{}
	}
	return c, nil
}

// GetBookmark retrieves a mirrored bookmark by ID
func (s *Store) GetBookmark(ctx context.Context, id string) (domain.Bookmark, error) {
	data, err := s.client.Get(ctx, BookmarkKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Bookmark{}, apperror.NotFound("bookmark", id)
		}
		return domain.Bookmark{}, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var b domain.Bookmark
	if err := json.Unmarshal(data, &b); err != nil {
		return domain.Bookmark{}, fmt.Errorf("failed to unmarshal bookmark: %w", err)
	}
	return b, nil
}
