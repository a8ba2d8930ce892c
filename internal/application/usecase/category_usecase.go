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

// maxCategoryDepth corta el recorrido de ancestros ante datos corruptos.
const maxCategoryDepth = 64

// CategoryUseCase CRUD de categorías jerárquicas.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// Create crea una categoría. Si trae padre, este debe existir.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(in.Name)
	code := strings.ToUpper(strings.TrimSpace(in.Code))
	var verr domain.ValidationErrors
	if name == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if code == "" {
		verr.Add("code", "el código es obligatorio")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if in.ParentID != "" {
		parent, err := uc.repo.GetByID(ctx, in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent == nil {
			return nil, domain.ValidationErrors{{Field: "parent_id", Message: "la categoría padre no existe"}}
		}
	}
	now := time.Now()
	c := &entity.Category{
		ID:        uuid.NewString(),
		ParentID:  in.ParentID,
		Name:      name,
		Code:      code,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// GetByID obtiene una categoría.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	return toCategoryResponse(c), nil
}

// List lista categorías; ParentID "" devuelve solo las raíces.
func (uc *CategoryUseCase) List(ctx context.Context, in dto.CategoryListRequest) (*dto.CategoryListResponse, error) {
	f := repository.CategoryFilter{Query: in.Query, ParentID: in.ParentID, Page: in.ToPage()}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCategoryResponse(c))
	}
	return &dto.CategoryListResponse{Items: items, Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Update modifica la categoría. Cambiar el padre no puede crear ciclos.
func (uc *CategoryUseCase) Update(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, domain.ErrNotFound
	}
	applyString(&c.Name, in.Name)
	if in.Code != nil {
		c.Code = strings.ToUpper(strings.TrimSpace(*in.Code))
	}
	if in.Active != nil {
		c.Active = *in.Active
	}
	var verr domain.ValidationErrors
	if c.Name == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if c.Code == "" {
		verr.Add("code", "el código es obligatorio")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if in.ParentID != nil && *in.ParentID != c.ParentID {
		if err := uc.checkParent(ctx, id, *in.ParentID); err != nil {
			return nil, err
		}
		c.ParentID = *in.ParentID
	}
	c.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	return toCategoryResponse(c), nil
}

// checkParent valida que parentID exista y no sea la categoría ni uno de sus descendientes.
func (uc *CategoryUseCase) checkParent(ctx context.Context, id, parentID string) error {
	if parentID == "" {
		return nil
	}
	cycle := domain.ValidationErrors{{Field: "parent_id", Message: "una categoría no puede ser hija de sí misma ni de sus descendientes"}}
	current := parentID
	for depth := 0; current != ""; depth++ {
		if current == id || depth > maxCategoryDepth {
			return cycle
		}
		ancestor, err := uc.repo.GetByID(ctx, current)
		if err != nil {
			return err
		}
		if ancestor == nil {
			if current == parentID {
				return domain.ValidationErrors{{Field: "parent_id", Message: "la categoría padre no existe"}}
			}
			return nil
		}
		current = ancestor.ParentID
	}
	return nil
}

// Delete elimina la categoría si no tiene subcategorías ni productos.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	c, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if c == nil {
		return domain.ErrNotFound
	}
	children, err := uc.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return fmt.Errorf("la categoría tiene %d subcategorías: %w", children, domain.ErrConflict)
	}
	products, err := uc.repo.CountProducts(ctx, id)
	if err != nil {
		return err
	}
	if products > 0 {
		return fmt.Errorf("la categoría tiene %d productos: %w", products, domain.ErrConflict)
	}
	return uc.repo.Delete(ctx, id)
}

func toCategoryResponse(c *entity.Category) *dto.CategoryResponse {
	return &dto.CategoryResponse{
		ID:        c.ID,
		ParentID:  c.ParentID,
		Name:      c.Name,
		Code:      c.Code,
		Active:    c.Active,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
