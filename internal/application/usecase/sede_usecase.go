package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// SedeUseCase CRUD de sedes.
type SedeUseCase struct {
	repo repository.SedeRepository
}

// NewSedeUseCase construye el caso de uso.
func NewSedeUseCase(repo repository.SedeRepository) *SedeUseCase {
	return &SedeUseCase{repo: repo}
}

func validateSede(name, prefix string) error {
	var verr domain.ValidationErrors
	if name == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if prefix == "" || len(prefix) > 6 || strings.ContainsAny(prefix, " -") {
		verr.Add("prefix", "el prefijo es obligatorio, de hasta 6 caracteres y sin espacios ni guiones")
	}
	return verr.Err()
}

// Create crea una sede activa. El nombre es único.
func (uc *SedeUseCase) Create(ctx context.Context, in dto.CreateSedeRequest) (*dto.SedeResponse, error) {
	name := strings.TrimSpace(in.Name)
	prefix := strings.ToUpper(strings.TrimSpace(in.Prefix))
	if err := validateSede(name, prefix); err != nil {
		return nil, err
	}
	now := time.Now()
	sede := &entity.Sede{
		ID:        uuid.NewString(),
		Name:      name,
		Address:   strings.TrimSpace(in.Address),
		Phone:     strings.TrimSpace(in.Phone),
		Prefix:    prefix,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// GetByID obtiene una sede.
func (uc *SedeUseCase) GetByID(ctx context.Context, id string) (*dto.SedeResponse, error) {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	return toSedeResponse(sede), nil
}

// List lista sedes con filtros.
func (uc *SedeUseCase) List(ctx context.Context, in dto.SedeListRequest) (*dto.SedeListResponse, error) {
	f := repository.SedeFilter{Query: in.Query, Active: in.Active, Page: in.ToPage()}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return &dto.SedeListResponse{Items: ToSedeResponses(list), Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Update actualiza datos de la sede.
func (uc *SedeUseCase) Update(ctx context.Context, id string, in dto.UpdateSedeRequest) (*dto.SedeResponse, error) {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sede == nil {
		return nil, domain.ErrNotFound
	}
	applyString(&sede.Name, in.Name)
	applyString(&sede.Address, in.Address)
	applyString(&sede.Phone, in.Phone)
	if in.Prefix != nil {
		sede.Prefix = strings.ToUpper(strings.TrimSpace(*in.Prefix))
	}
	if in.Active != nil {
		sede.Active = *in.Active
	}
	if err := validateSede(sede.Name, sede.Prefix); err != nil {
		return nil, err
	}
	sede.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, sede); err != nil {
		return nil, err
	}
	return toSedeResponse(sede), nil
}

// Delete elimina la sede solo si no tiene existencias ni movimientos; si los tiene
// devuelve ErrConflict (debe desactivarse en su lugar).
func (uc *SedeUseCase) Delete(ctx context.Context, id string) error {
	sede, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if sede == nil {
		return domain.ErrNotFound
	}
	busy, err := uc.repo.HasActivity(ctx, id)
	if err != nil {
		return err
	}
	if busy {
		return fmt.Errorf("la sede tiene inventario o movimientos, desactívela: %w", domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toSedeResponse(s *entity.Sede) *dto.SedeResponse {
	return &dto.SedeResponse{
		ID:        s.ID,
		Name:      s.Name,
		Address:   s.Address,
		Phone:     s.Phone,
		Prefix:    s.Prefix,
		Active:    s.Active,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

// ToSedeResponses mapea una lista de sedes.
func ToSedeResponses(list []*entity.Sede) []dto.SedeResponse {
	out := make([]dto.SedeResponse, 0, len(list))
	for _, s := range list {
		out = append(out, *toSedeResponse(s))
	}
	return out
}
