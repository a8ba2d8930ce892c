package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_RevokeAndExpire(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Now()
	s.now = func() time.Time { return now }

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err := s.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, _ = s.IsRevoked(ctx, "otro")
	assert.False(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = s.IsRevoked(ctx, "jti-1")
	assert.False(t, revoked, "la revocación vence con el token")

	require.NoError(t, s.Revoke(ctx, "jti-2", time.Minute))
	assert.Len(t, s.revoked, 1, "los vencidos se purgan al revocar")
}
