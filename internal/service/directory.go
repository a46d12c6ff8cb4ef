package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"officehub/internal/models"
	"officehub/internal/store"
)

// DirectoryService projects a user id onto display data. A deleted or
// never-existing user resolves to a placeholder entry with nil
// DisplayName/Role, never an error, so callers holding dangling ids keep
// working. Resolved entries are cached in Redis when a client is
// configured.
type DirectoryService struct {
	store *store.Store
	redis *redis.Client
	ttl   time.Duration
}

func NewDirectoryService(st *store.Store, rdb *redis.Client) *DirectoryService {
	return &DirectoryService{store: st, redis: rdb, ttl: time.Hour}
}

func cacheKey(id int) string {
	return fmt.Sprintf("user:%d", id)
}

// Resolve looks up the display data for a user id.
func (s *DirectoryService) Resolve(ctx context.Context, id int) (models.DirectoryEntry, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, cacheKey(id)).Result(); err == nil {
			var entry models.DirectoryEntry
			if err := json.Unmarshal([]byte(cached), &entry); err == nil {
				return entry, nil
			}
		}
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		if store.IsNoRows(err) {
			// Tolerated dangling reference: the user is gone.
			return models.DirectoryEntry{ID: id}, nil
		}
		return models.DirectoryEntry{ID: id}, err
	}

	name := u.FullName
	role := u.Role
	entry := models.DirectoryEntry{ID: id, DisplayName: &name, Role: &role}

	if s.redis != nil {
		if data, err := json.Marshal(entry); err == nil {
			s.redis.SetEX(ctx, cacheKey(id), data, s.ttl)
		}
	}
	return entry, nil
}

// Invalidate drops the cached entry after a user mutation or delete.
func (s *DirectoryService) Invalidate(ctx context.Context, id int) {
	if s.redis != nil {
		s.redis.Del(ctx, cacheKey(id))
	}
}
