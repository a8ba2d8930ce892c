package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/jwt"
)

// SessionStore lista de tokens revocados (logout) hasta su expiración.
type SessionStore interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ErrTokenRevoked el token fue invalidado por logout.
var ErrTokenRevoked = errors.New("token revocado")

// AuthUseCase casos de uso de autenticación: login, selección de sede, logout y perfil.
type AuthUseCase struct {
	userRepo repository.UserRepository
	sedeRepo repository.SedeRepository
	issuer   *jwt.Issuer
	sessions SessionStore
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, sedeRepo repository.SedeRepository, issuer *jwt.Issuer, sessions SessionStore) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, sedeRepo: sedeRepo, issuer: issuer, sessions: sessions}
}

// Login verifica email/password, genera JWT con la sede activa por defecto y retorna
// token + usuario + sedes disponibles.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalize(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Mismo costo que una comparación real para no revelar qué emails existen.
		_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(in.Password))
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("usuario inactivo: %w", domain.ErrInactive)
	}
	sedes, err := uc.sedesOf(ctx, user)
	if err != nil {
		return nil, err
	}
	active := ""
	if len(user.SedeIDs) > 0 && len(sedes) > 0 {
		active = sedes[0].ID
	}
	token, claims, err := uc.issuer.Generate(user.ID, user.Role, active)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token:        token,
		ExpiresAt:    claims.ExpiresAt.Unix(),
		ActiveSedeID: active,
		User:         usecase.ToUserResponse(user),
		Sedes:        usecase.ToSedeResponses(sedes),
	}, nil
}

// sedesOf devuelve las sedes activas asignadas; un admin sin asignaciones ve todas las activas.
func (uc *AuthUseCase) sedesOf(ctx context.Context, user *entity.User) ([]*entity.Sede, error) {
	if user.Role == entity.RoleAdmin && len(user.SedeIDs) == 0 {
		active := true
		list, _, err := uc.sedeRepo.List(ctx, repository.SedeFilter{Active: &active, Page: repository.Page{Limit: 1000}})
		return list, err
	}
	out := make([]*entity.Sede, 0, len(user.SedeIDs))
	for _, id := range user.SedeIDs {
		s, err := uc.sedeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if s != nil && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// SelectSede reemite el token con otra sede activa. La sede debe existir, estar activa
// y estar asignada al usuario (salvo admin). El token anterior queda revocado.
func (uc *AuthUseCase) SelectSede(ctx context.Context, actor access.Actor, current *jwt.Claims, in dto.SelectSedeRequest) (*dto.SessionResponse, error) {
	if in.SedeID == "" {
		return nil, domain.ValidationErrors{{Field: "sede_id", Message: "la sede es obligatoria"}}
	}
	user, err := uc.activeUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	sede, err := uc.sedeRepo.GetByID(ctx, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	if !sede.Active {
		return nil, fmt.Errorf("sede: %w", domain.ErrInactive)
	}
	if !user.CanOperateIn(sede.ID) {
		return nil, domain.ErrSedeNotAssigned
	}
	token, claims, err := uc.issuer.Generate(user.ID, user.Role, sede.ID)
	if err != nil {
		return nil, err
	}
	if current != nil {
		if err := uc.Logout(ctx, current); err != nil {
			return nil, err
		}
	}
	return &dto.SessionResponse{Token: token, ExpiresAt: claims.ExpiresAt.Unix(), ActiveSedeID: sede.ID}, nil
}

// Logout revoca el token (por jti) hasta su expiración.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil {
		return domain.ErrUnauthorized
	}
	ttl := claims.Remaining(time.Now())
	if ttl <= 0 {
		return nil
	}
	if err := uc.sessions.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

// Me devuelve el usuario autenticado con sus sedes.
func (uc *AuthUseCase) Me(ctx context.Context, actor access.Actor) (*dto.MeResponse, error) {
	user, err := uc.activeUser(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	sedes, err := uc.sedesOf(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.MeResponse{User: usecase.ToUserResponse(user), Sedes: usecase.ToSedeResponses(sedes), ActiveSedeID: actor.SedeID}, nil
}

// ValidateToken valida firma y expiración y comprueba que el token no esté revocado.
func (uc *AuthUseCase) ValidateToken(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := uc.issuer.Parse(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	revoked, err := uc.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("consultar sesión: %w", err)
	}
	if revoked {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthorized, ErrTokenRevoked)
	}
	return claims, nil
}

func (uc *AuthUseCase) activeUser(ctx context.Context, id string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive() {
		return nil, fmt.Errorf("usuario inactivo: %w", domain.ErrInactive)
	}
	return user, nil
}
