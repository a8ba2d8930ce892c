package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssuer_GenerateAndParse(t *testing.T) {
	iss := NewIssuer("secreto", "inventario-sedes", 60)

	token, claims, err := iss.Generate("u1", "vendedor", "sede-norte")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.NotEmpty(t, claims.ID)

	parsed, err := iss.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "u1", parsed.UserID)
	assert.Equal(t, "vendedor", parsed.Role)
	assert.Equal(t, "sede-norte", parsed.SedeID)
	assert.Equal(t, claims.ID, parsed.ID)
}

func TestIssuer_Parse_WrongSecret(t *testing.T) {
	token, _, err := NewIssuer("a", "x", 60).Generate("u1", "admin", "")
	require.NoError(t, err)

	_, err = NewIssuer("b", "x", 60).Parse(token)
	assert.Error(t, err)
}

func TestIssuer_Parse_Expired(t *testing.T) {
	iss := NewIssuer("secreto", "x", 1)
	iss.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := iss.Generate("u1", "admin", "")
	require.NoError(t, err)

	_, err = NewIssuer("secreto", "x", 1).Parse(token)
	assert.Error(t, err)
}

func TestIssuer_EmptySecret(t *testing.T) {
	_, _, err := NewIssuer("", "x", 60).Generate("u1", "admin", "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestClaims_Remaining(t *testing.T) {
	_, claims, err := NewIssuer("s", "x", 10).Generate("u1", "admin", "")
	require.NoError(t, err)

	assert.InDelta(t, float64(10*time.Minute), float64(claims.Remaining(time.Now())), float64(5*time.Second))
	assert.Zero(t, claims.Remaining(time.Now().Add(time.Hour)))
}
