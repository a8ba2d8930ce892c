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

// ProviderUseCase CRUD de proveedores.
type ProviderUseCase struct {
	repo repository.ProviderRepository
}

// NewProviderUseCase construye el caso de uso.
func NewProviderUseCase(repo repository.ProviderRepository) *ProviderUseCase {
	return &ProviderUseCase{repo: repo}
}

func validateProvider(p *entity.Provider) error {
	var verr domain.ValidationErrors
	if p.Name == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if p.NIT == "" {
		verr.Add("nit", "el NIT es obligatorio")
	}
	if p.Email != "" && !validEmail(p.Email) {
		verr.Add("email", "email inválido")
	}
	return verr.Err()
}

// Create crea un proveedor activo. El NIT es único.
func (uc *ProviderUseCase) Create(ctx context.Context, in dto.CreateProviderRequest) (*dto.ProviderResponse, error) {
	now := time.Now()
	p := &entity.Provider{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(in.Name),
		NIT:       strings.TrimSpace(in.NIT),
		Contact:   strings.TrimSpace(in.Contact),
		Phone:     strings.TrimSpace(in.Phone),
		Email:     normalizeEmail(in.Email),
		Address:   strings.TrimSpace(in.Address),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := validateProvider(p); err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// GetByID obtiene un proveedor.
func (uc *ProviderUseCase) GetByID(ctx context.Context, id string) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return toProviderResponse(p), nil
}

// List lista proveedores (q sobre nombre y NIT).
func (uc *ProviderUseCase) List(ctx context.Context, in dto.ProviderListRequest) (*dto.ProviderListResponse, error) {
	f := repository.ProviderFilter{Query: in.Query, Active: in.Active, Page: in.ToPage()}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProviderResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProviderResponse(p))
	}
	return &dto.ProviderListResponse{Items: items, Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Update modifica un proveedor.
func (uc *ProviderUseCase) Update(ctx context.Context, id string, in dto.UpdateProviderRequest) (*dto.ProviderResponse, error) {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	applyString(&p.Name, in.Name)
	applyString(&p.NIT, in.NIT)
	applyString(&p.Contact, in.Contact)
	applyString(&p.Phone, in.Phone)
	applyString(&p.Address, in.Address)
	if in.Email != nil {
		p.Email = normalizeEmail(*in.Email)
	}
	if in.Active != nil {
		p.Active = *in.Active
	}
	if err := validateProvider(p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toProviderResponse(p), nil
}

// Delete elimina el proveedor si ningún ingreso lo referencia.
func (uc *ProviderUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.ErrNotFound
	}
	n, err := uc.repo.CountEntries(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("el proveedor tiene %d ingresos registrados: %w", n, domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toProviderResponse(p *entity.Provider) *dto.ProviderResponse {
	return &dto.ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		NIT:       p.NIT,
		Contact:   p.Contact,
		Phone:     p.Phone,
		Email:     p.Email,
		Address:   p.Address,
		Active:    p.Active,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
