package usecase

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// UserUseCase aplica reglas de negocio para usuarios y su asignación a sedes.
type UserUseCase struct {
	repo     repository.UserRepository
	sedeRepo repository.SedeRepository
}

// NewUserUseCase construye el caso de uso con los puertos de persistencia.
func NewUserUseCase(repo repository.UserRepository, sedeRepo repository.SedeRepository) *UserUseCase {
	return &UserUseCase{repo: repo, sedeRepo: sedeRepo}
}

// Create crea un usuario: valida el formulario, hashea el password con bcrypt y persiste.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	var verr domain.ValidationErrors
	if !validEmail(email) {
		verr.Add("email", "email inválido")
	}
	if len(in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("el password debe tener al menos %d caracteres", minPasswordLength))
	}
	if strings.TrimSpace(in.Name) == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if !entity.ValidRole(in.Role) {
		verr.Add("role", "rol no soportado")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	sedeIDs, err := uc.checkSedes(ctx, in.SedeIDs)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(in.Name),
		Role:         in.Role,
		Status:       entity.UserStatusActive,
		SedeIDs:      sedeIDs,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// checkSedes valida que todas las sedes existan y elimina repetidas.
func (uc *UserUseCase) checkSedes(ctx context.Context, ids []string) ([]string, error) {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if slices.Contains(out, id) {
			continue
		}
		sede, err := uc.sedeRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if sede == nil {
			return nil, domain.ValidationErrors{{Field: "sede_ids", Message: fmt.Sprintf("la sede %s no existe", id)}}
		}
		out = append(out, id)
	}
	return out, nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return toUserResponse(user), nil
}

// List lista usuarios con filtros (q sobre nombre/email sin tildes, rol, estado, sede).
func (uc *UserUseCase) List(ctx context.Context, in dto.UserListRequest) (*dto.UserListResponse, error) {
	f := repository.UserFilter{
		Query:  in.Query,
		Role:   in.Role,
		Status: in.Status,
		SedeID: in.SedeID,
		Page:   in.ToPage(),
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUserResponse(u))
	}
	return &dto.UserListResponse{Items: items, Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Update modifica nombre, rol, estado, sedes y opcionalmente el password.
// Un administrador no puede desactivarse ni quitarse el rol a sí mismo.
func (uc *UserUseCase) Update(ctx context.Context, actor access.Actor, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	var verr domain.ValidationErrors
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if in.Role != nil && !entity.ValidRole(*in.Role) {
		verr.Add("role", "rol no soportado")
	}
	if in.Status != nil && *in.Status != entity.UserStatusActive && *in.Status != entity.UserStatusInactive {
		verr.Add("status", "estado no soportado")
	}
	if in.Password != nil && len(*in.Password) < minPasswordLength {
		verr.Add("password", fmt.Sprintf("el password debe tener al menos %d caracteres", minPasswordLength))
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if id == actor.UserID {
		if in.Status != nil && *in.Status == entity.UserStatusInactive {
			return nil, fmt.Errorf("no puede desactivarse a sí mismo: %w", domain.ErrConflict)
		}
		if in.Role != nil && *in.Role != user.Role && user.Role == entity.RoleAdmin {
			return nil, fmt.Errorf("no puede quitarse el rol de administrador: %w", domain.ErrConflict)
		}
	}

	applyString(&user.Name, in.Name)
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.Status != nil {
		user.Status = *in.Status
	}
	if in.SedeIDs != nil {
		ids, err := uc.checkSedes(ctx, *in.SedeIDs)
		if err != nil {
			return nil, err
		}
		user.SedeIDs = ids
	}
	if in.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// Deactivate marca el usuario como inactivo (no se eliminan usuarios con historial).
func (uc *UserUseCase) Deactivate(ctx context.Context, actor access.Actor, id string) error {
	status := entity.UserStatusInactive
	_, err := uc.Update(ctx, actor, id, dto.UpdateUserRequest{Status: &status})
	return err
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	sedes := u.SedeIDs
	if sedes == nil {
		sedes = []string{}
	}
	return &dto.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		Status:    u.Status,
		SedeIDs:   sedes,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ToUserResponse expone el mapeo para el caso de uso de autenticación.
func ToUserResponse(u *entity.User) dto.UserResponse {
	return *toUserResponse(u)
}
