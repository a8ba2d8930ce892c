// Package session guarda los identificadores (jti) de tokens revocados por logout.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const revokedPrefix = "sess:revoked:"

// RedisStore lista de revocación en Redis: una clave por jti con TTL igual a la vida restante del token.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore crea el store sobre un cliente Redis ya configurado.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Revoke marca el jti como revocado durante ttl.
func (s *RedisStore) Revoke(ctx context.Context, jti string, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, revokedPrefix+jti, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// IsRevoked indica si el jti fue revocado.
func (s *RedisStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := s.rdb.Exists(ctx, revokedPrefix+jti).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}

// MemoryStore lista de revocación en memoria para un solo proceso (desarrollo y pruebas).
type MemoryStore struct {
	mu      sync.Mutex
	revoked map[string]time.Time // jti -> expiración
	now     func() time.Time
}

// NewMemoryStore crea el store en memoria.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: make(map[string]time.Time), now: time.Now}
}

// Revoke marca el jti como revocado durante ttl y purga los vencidos.
func (s *MemoryStore) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for k, exp := range s.revoked {
		if !exp.After(now) {
			delete(s.revoked, k)
		}
	}
	s.revoked[jti] = now.Add(ttl)
	return nil
}

// IsRevoked indica si el jti sigue revocado.
func (s *MemoryStore) IsRevoked(_ context.Context, jti string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.revoked[jti]
	return ok && exp.After(s.now()), nil
}
