package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/csvexport"
)

const defaultUnit = "UND"

// ProductUseCase casos de uso de bienes. Cost y existencias se manejan vía movimientos.
type ProductUseCase struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	providerRepo repository.ProviderRepository
	stockRepo    repository.StockRepository
	txRunner     inventory.TxRunner
	guard        *access.Guard
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	providerRepo repository.ProviderRepository,
	stockRepo repository.StockRepository,
	txRunner inventory.TxRunner,
	guard *access.Guard,
) *ProductUseCase {
	return &ProductUseCase{
		repo:         repo,
		categoryRepo: categoryRepo,
		providerRepo: providerRepo,
		stockRepo:    stockRepo,
		txRunner:     txRunner,
		guard:        guard,
	}
}

// validateProduct reglas del formulario de bien, compartidas por crear, editar e importar.
func (uc *ProductUseCase) validateProduct(ctx context.Context, p *entity.Product) error {
	var verr domain.ValidationErrors
	if p.Code == "" {
		verr.Add("code", "el código es obligatorio")
	}
	if p.Name == "" {
		verr.Add("name", "el nombre es obligatorio")
	}
	if p.Price.IsNegative() {
		verr.Add("price", "el precio de venta no puede ser negativo")
	}
	if p.MinStock.IsNegative() {
		verr.Add("min_stock", "el stock mínimo no puede ser negativo")
	}
	if !entity.ValidTaxRate(p.TaxRate) {
		verr.Add("tax_rate", "la tasa de IVA debe ser 0, 5 o 19")
	}
	if p.CategoryID == "" {
		verr.Add("category_id", "la categoría es obligatoria")
	} else {
		c, err := uc.categoryRepo.GetByID(ctx, p.CategoryID)
		if err != nil {
			return err
		}
		if c == nil {
			verr.Add("category_id", "la categoría no existe")
		}
	}
	if p.ProviderID != "" {
		prov, err := uc.providerRepo.GetByID(ctx, p.ProviderID)
		if err != nil {
			return err
		}
		if prov == nil {
			verr.Add("provider_id", "el proveedor no existe")
		}
	}
	return verr.Err()
}

// Create crea un bien con costo inicial cero o, si trae existencia inicial, con el costo
// indicado y una entrada por sede en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, actor access.Actor, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = defaultUnit
	}
	product := &entity.Product{
		ID:          uuid.NewString(),
		Code:        strings.ToUpper(strings.TrimSpace(in.Code)),
		Name:        strings.TrimSpace(in.Name),
		Description: strings.TrimSpace(in.Description),
		CategoryID:  in.CategoryID,
		ProviderID:  in.ProviderID,
		Price:       in.Price,
		Cost:        decimal.Zero,
		TaxRate:     in.TaxRate,
		Unit:        unit,
		MinStock:    in.MinStock,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.validateProduct(ctx, product); err != nil {
		return nil, err
	}

	var verr domain.ValidationErrors
	lines := make([]inventory.InitialLine, 0, len(in.InitialStock))
	for i, st := range in.InitialStock {
		if st.Quantity.IsZero() {
			continue
		}
		if st.Quantity.IsNegative() {
			verr.Add(fmt.Sprintf("initial_stock[%d].quantity", i), "la cantidad no puede ser negativa")
			continue
		}
		lines = append(lines, inventory.InitialLine{SedeID: st.SedeID, Quantity: st.Quantity})
	}
	if in.InitialCost.IsNegative() {
		verr.Add("initial_cost", "el costo inicial no puede ser negativo")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	if len(lines) > 0 {
		if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
			return nil, err
		}
		for _, ln := range lines {
			if _, err := uc.guard.CheckSede(ctx, actor, ln.SedeID); err != nil {
				return nil, err
			}
		}
	}

	existing, err := uc.repo.GetByCode(ctx, product.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}

	err = uc.txRunner.Run(ctx, func(r inventory.TxRepos) error {
		if err := r.Products.Create(ctx, product); err != nil {
			return err
		}
		if len(lines) == 0 {
			return nil
		}
		return inventory.ApplyInitialStock(ctx, r, actor.UserID, product.ID, in.InitialCost, lines, now)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// GetByID obtiene un producto con su existencia por sede.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	stock, err := uc.stockRepo.ListByProduct(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toProductResponse(product)
	for _, s := range stock {
		out.Stock = append(out.Stock, dto.SedeStockResponse{SedeID: s.SedeID, Quantity: s.Quantity})
	}
	return out, nil
}

func productFilter(in dto.ProductListRequest) (repository.ProductFilter, error) {
	switch in.Sort {
	case "", repository.ProductSortName, repository.ProductSortCode, repository.ProductSortPrice, repository.ProductSortCreated:
	default:
		return repository.ProductFilter{}, domain.ValidationErrors{{Field: "sort", Message: "orden no soportado (name, code, price, created)"}}
	}
	if in.OnlyLowStock && in.SedeID == "" {
		return repository.ProductFilter{}, domain.ValidationErrors{{Field: "sede_id", Message: "el filtro de bajo stock requiere una sede"}}
	}
	sort := in.Sort
	if sort == "" {
		sort = repository.ProductSortName
	}
	return repository.ProductFilter{
		Query:        in.Query,
		CategoryID:   in.CategoryID,
		ProviderID:   in.ProviderID,
		Active:       in.Active,
		SedeID:       in.SedeID,
		OnlyLowStock: in.OnlyLowStock,
		Sort:         sort,
		Desc:         in.Desc,
		Page:         in.ToPage(),
	}, nil
}

// List lista productos con filtros, orden y paginación.
func (uc *ProductUseCase) List(ctx context.Context, in dto.ProductListRequest) (*dto.ProductListResponse, error) {
	f, err := productFilter(in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{Items: items, Page: dto.NewPageResponse(f.Page, total)}, nil
}

// Export devuelve el listado filtrado completo como tabla CSV con las columnas de importación.
func (uc *ProductUseCase) Export(ctx context.Context, in dto.ProductListRequest) (csvexport.Table, error) {
	f, err := productFilter(in)
	if err != nil {
		return csvexport.Table{}, err
	}
	categoryCodes := map[string]string{}
	tbl := csvexport.Table{Header: append(append([]string{}, importColumns...), "costo", "activo")}
	p := repository.Page{Limit: 100}
	for {
		f.Page = p
		list, total, err := uc.repo.List(ctx, f)
		if err != nil {
			return csvexport.Table{}, err
		}
		for _, prod := range list {
			code, ok := categoryCodes[prod.CategoryID]
			if !ok {
				c, err := uc.categoryRepo.GetByID(ctx, prod.CategoryID)
				if err != nil {
					return csvexport.Table{}, err
				}
				if c != nil {
					code = c.Code
				}
				categoryCodes[prod.CategoryID] = code
			}
			active := "si"
			if !prod.Active {
				active = "no"
			}
			tbl.Append(prod.Code, prod.Name, prod.Description, code, prod.Price.StringFixed(2),
				prod.TaxRate.String(), prod.Unit, prod.MinStock.String(), prod.Cost.StringFixed(2), active)
		}
		p.Offset += len(list)
		if len(list) == 0 || p.Offset >= total {
			return tbl, nil
		}
	}
}

// Update actualiza un producto. No permite modificar Cost ni existencias (se manejan vía movimientos).
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	applyString(&product.Name, in.Name)
	applyString(&product.Description, in.Description)
	applyString(&product.Unit, in.Unit)
	if in.CategoryID != nil {
		product.CategoryID = *in.CategoryID
	}
	if in.ProviderID != nil {
		product.ProviderID = *in.ProviderID
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		product.TaxRate = *in.TaxRate
	}
	if in.MinStock != nil {
		product.MinStock = *in.MinStock
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	if err := uc.validateProduct(ctx, product); err != nil {
		return nil, err
	}
	product.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete desactiva el producto (borrado lógico): conserva kardex y ventas históricas.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	inactive := false
	_, err := uc.Update(ctx, id, dto.UpdateProductRequest{Active: &inactive})
	return err
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:          p.ID,
		Code:        p.Code,
		Name:        p.Name,
		Description: p.Description,
		CategoryID:  p.CategoryID,
		ProviderID:  p.ProviderID,
		Price:       p.Price,
		Cost:        p.Cost,
		TaxRate:     p.TaxRate,
		Unit:        p.Unit,
		MinStock:    p.MinStock,
		Active:      p.Active,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
