package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/auth"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/memory"
	"github.com/jhoicas/inventario-sedes/internal/infrastructure/session"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
)

const password = "clave-segura-123"

func newAuth(t *testing.T) *auth.AuthUseCase {
	t.Helper()
	ctx := context.Background()
	repos := memory.NewStore().Repos()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	for _, s := range []entity.Sede{
		{ID: "s1", Name: "Centro", Prefix: "CEN", Active: true},
		{ID: "s2", Name: "Norte", Prefix: "NOR", Active: true},
		{ID: "s3", Name: "Cerrada", Prefix: "CER", Active: false},
	} {
		s := s
		require.NoError(t, repos.Sedes.Create(ctx, &s))
	}
	for _, u := range []entity.User{
		{ID: "admin", Email: "admin@x.co", PasswordHash: string(hash), Role: entity.RoleAdmin, Status: entity.UserStatusActive},
		{ID: "vend", Email: "vend@x.co", PasswordHash: string(hash), Role: entity.RoleVendedor, Status: entity.UserStatusActive, SedeIDs: []string{"s3", "s1"}},
		{ID: "baja", Email: "baja@x.co", PasswordHash: string(hash), Role: entity.RoleBodeguero, Status: entity.UserStatusInactive, SedeIDs: []string{"s1"}},
		{ID: "sinsede", Email: "sinsede@x.co", PasswordHash: string(hash), Role: entity.RoleBodeguero, Status: entity.UserStatusActive},
	} {
		u := u
		require.NoError(t, repos.Users.Create(ctx, &u))
	}
	return auth.NewAuthUseCase(repos.Users, repos.Sedes, jwt.NewIssuer("secreto-de-prueba", "inventario-sedes-test", 60), session.NewMemoryStore())
}

func TestLogin_SedeActivaPorDefecto(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " VEND@x.co", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "s1", out.ActiveSedeID, "la sede inactiva no se ofrece")
	require.Len(t, out.Sedes, 1)

	claims, err := uc.ValidateToken(ctx, out.Token)
	require.NoError(t, err)
	assert.Equal(t, "vend", claims.UserID)
	assert.Equal(t, entity.RoleVendedor, claims.Role)
	assert.Equal(t, "s1", claims.SedeID)

	// El admin sin asignaciones ve todas las sedes activas y no tiene sede activa.
	adm, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@x.co", Password: password})
	require.NoError(t, err)
	assert.Len(t, adm.Sedes, 2)
	assert.Empty(t, adm.ActiveSedeID)

	none, err := uc.Login(ctx, dto.LoginRequest{Email: "sinsede@x.co", Password: password})
	require.NoError(t, err)
	assert.Empty(t, none.ActiveSedeID)
}

func TestLogin_Rechazos(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()

	_, err := uc.Login(ctx, dto.LoginRequest{Email: "vend@x.co", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@x.co", Password: password})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "baja@x.co", Password: password})
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestSelectSede_ReemiteYRevocaAnterior(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "vend@x.co", Password: password})
	require.NoError(t, err)
	current, err := uc.ValidateToken(ctx, login.Token)
	require.NoError(t, err)
	actor := access.Actor{UserID: current.UserID, Role: current.Role, SedeID: current.SedeID}

	_, err = uc.SelectSede(ctx, actor, current, dto.SelectSedeRequest{SedeID: "s2"})
	assert.ErrorIs(t, err, domain.ErrSedeNotAssigned)

	_, err = uc.SelectSede(ctx, actor, current, dto.SelectSedeRequest{SedeID: "s3"})
	assert.ErrorIs(t, err, domain.ErrInactive)

	_, err = uc.SelectSede(ctx, actor, current, dto.SelectSedeRequest{})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El admin puede elegir cualquier sede activa.
	adm, err := uc.Login(ctx, dto.LoginRequest{Email: "admin@x.co", Password: password})
	require.NoError(t, err)
	admClaims, err := uc.ValidateToken(ctx, adm.Token)
	require.NoError(t, err)
	sess, err := uc.SelectSede(ctx, access.Actor{UserID: "admin", Role: entity.RoleAdmin}, admClaims, dto.SelectSedeRequest{SedeID: "s2"})
	require.NoError(t, err)
	assert.Equal(t, "s2", sess.ActiveSedeID)

	_, err = uc.ValidateToken(ctx, adm.Token)
	assert.ErrorIs(t, err, auth.ErrTokenRevoked)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	fresh, err := uc.ValidateToken(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, "s2", fresh.SedeID)
}

func TestLogout_RevocaToken(t *testing.T) {
	uc := newAuth(t)
	ctx := context.Background()
	login, err := uc.Login(ctx, dto.LoginRequest{Email: "vend@x.co", Password: password})
	require.NoError(t, err)
	claims, err := uc.ValidateToken(ctx, login.Token)
	require.NoError(t, err)

	require.NoError(t, uc.Logout(ctx, claims))
	_, err = uc.ValidateToken(ctx, login.Token)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.ErrorIs(t, uc.Logout(ctx, nil), domain.ErrUnauthorized)

	_, err = uc.ValidateToken(ctx, "no.es.jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestMe_DevuelveSedeDeLaSesion(t *testing.T) {
	uc := newAuth(t)
	me, err := uc.Me(context.Background(), access.Actor{UserID: "vend", Role: entity.RoleVendedor, SedeID: "s1"})
	require.NoError(t, err)
	assert.Equal(t, "vend@x.co", me.User.Email)
	assert.Equal(t, "s1", me.ActiveSedeID)

	_, err = uc.Me(context.Background(), access.Actor{UserID: "baja"})
	assert.ErrorIs(t, err, domain.ErrInactive)
}
