package inventory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/inventory"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// StockEntryUseCase registra ingresos de mercancía (compras a proveedor).
type StockEntryUseCase struct {
	txRunner     TxRunner
	entryRepo    repository.StockEntryRepository
	providerRepo repository.ProviderRepository
	guard        *access.Guard
	metrics      Metrics
	now          func() time.Time
}

// NewStockEntryUseCase construye el caso de uso. metrics puede ser nil.
func NewStockEntryUseCase(
	txRunner TxRunner,
	entryRepo repository.StockEntryRepository,
	providerRepo repository.ProviderRepository,
	guard *access.Guard,
	metrics Metrics,
) *StockEntryUseCase {
	return &StockEntryUseCase{
		txRunner:     txRunner,
		entryRepo:    entryRepo,
		providerRepo: providerRepo,
		guard:        guard,
		metrics:      metricsOrNop(metrics),
		now:          time.Now,
	}
}

// Register suma las cantidades al inventario de la sede, recalcula el costo promedio
// ponderado de cada producto y registra movimientos ENTRY, todo en una transacción.
func (uc *StockEntryUseCase) Register(ctx context.Context, actor access.Actor, in dto.RegisterStockEntryRequest) (*dto.StockEntryResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	var verr domain.ValidationErrors
	if in.ProviderID == "" {
		verr.Add("provider_id", "el proveedor es obligatorio")
	}
	if len(in.Items) == 0 {
		verr.Add("items", "el ingreso debe tener al menos un ítem")
	}
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if it.ProductID == "" {
			verr.Add(field+".product_id", "el producto es obligatorio")
		}
		if !it.Quantity.IsPositive() {
			verr.Add(field+".quantity", "la cantidad debe ser mayor que cero")
		}
		if it.UnitCost.IsNegative() {
			verr.Add(field+".unit_cost", "el costo no puede ser negativo")
		}
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	sedeID := actor.ResolveSede(in.SedeID)
	sede, err := uc.guard.CheckSede(ctx, actor, sedeID)
	if err != nil {
		return nil, err
	}
	provider, err := uc.providerRepo.GetByID(ctx, in.ProviderID)
	if err != nil {
		return nil, fmt.Errorf("obtener proveedor: %w", err)
	}
	if provider == nil {
		return nil, fmt.Errorf("proveedor: %w", domain.ErrNotFound)
	}
	if !provider.Active {
		return nil, fmt.Errorf("proveedor: %w", domain.ErrInactive)
	}

	items := make([]entity.StockEntryItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = entity.StockEntryItem{
			ID:        uuid.NewString(),
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitCost:  it.UnitCost,
			Subtotal:  it.Quantity.Mul(it.UnitCost).Round(2),
		}
	}
	// Orden estable de bloqueo; un producto repetido se procesa dos veces sobre la misma fila.
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return items[order[a]].ProductID < items[order[b]].ProductID })

	now := uc.now()
	var entry *entity.StockEntry
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		seq, err := r.Sequences.Next(ctx, sedeID, repository.SequenceStockEntry)
		if err != nil {
			return fmt.Errorf("consecutivo de ingreso: %w", err)
		}
		entry = &entity.StockEntry{
			ID:              uuid.NewString(),
			Number:          fmt.Sprintf("I-%s-%d", strings.ToUpper(sede.Prefix), seq),
			SedeID:          sedeID,
			ProviderID:      provider.ID,
			UserID:          actor.UserID,
			ProviderInvoice: strings.TrimSpace(in.ProviderInvoice),
			Note:            in.Note,
			Date:            now,
			CreatedAt:       now,
			Items:           items,
		}
		led := newLedger(r, actor.UserID, now)
		total := decimal.Zero
		for _, idx := range order {
			it := &entry.Items[idx]
			it.EntryID = entry.ID
			if err := receive(ctx, r, led, it.ProductID, sedeID, it.Quantity, it.UnitCost, entry.Number, ""); err != nil {
				return err
			}
			total = total.Add(it.Subtotal)
		}
		entry.Total = total
		return r.Entries.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.StockEntryRegistered(sedeID)
	return toStockEntryResponse(entry, true), nil
}

// receive aplica una entrada de unidades: costo promedio sobre la existencia global del
// producto, suma en la sede y movimiento ENTRY.
func receive(ctx context.Context, r TxRepos, led *ledger, productID, sedeID string, qty, unitCost decimal.Decimal, reference, note string) error {
	product, err := r.Products.GetByID(ctx, productID)
	if err != nil {
		return fmt.Errorf("obtener producto: %w", err)
	}
	if product == nil {
		return fmt.Errorf("producto %s: %w", productID, domain.ErrNotFound)
	}
	stock, err := led.lock(ctx, productID, sedeID)
	if err != nil {
		return fmt.Errorf("bloquear stock: %w", err)
	}
	globalQty, err := r.Stock.TotalByProduct(ctx, productID)
	if err != nil {
		return fmt.Errorf("stock global: %w", err)
	}
	newCost := inventory.CostCalculator(globalQty, product.Cost, qty, unitCost)
	if err := r.Products.UpdateCost(ctx, productID, newCost); err != nil {
		return fmt.Errorf("actualizar costo: %w", err)
	}
	_, err = led.apply(ctx, stock, entity.MovementTypeEntry, qty, unitCost, reference, note)
	return err
}

// GetByID devuelve un ingreso con sus ítems.
func (uc *StockEntryUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.StockEntryResponse, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	if _, _, err := uc.guard.ScopeSede(ctx, actor, entry.SedeID); err != nil {
		return nil, err
	}
	return toStockEntryResponse(entry, true), nil
}

// List devuelve los ingresos filtrados y paginados.
func (uc *StockEntryUseCase) List(ctx context.Context, actor access.Actor, in dto.StockEntryListRequest) (*dto.StockEntryListResponse, error) {
	sedeID, allowed, err := uc.guard.ScopeSede(ctx, actor, in.SedeID)
	if err != nil {
		return nil, err
	}
	f := repository.StockEntryFilter{
		SedeID:     sedeID,
		SedeIDs:    allowed,
		ProviderID: in.ProviderID,
		Since:      in.Since,
		Until:      in.Until,
		Page:       in.ToPage(),
	}
	list, total, err := uc.entryRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.StockEntryListResponse{Items: make([]dto.StockEntryResponse, 0, len(list)), Page: dto.NewPageResponse(f.Page, total)}
	for _, e := range list {
		out.Items = append(out.Items, *toStockEntryResponse(e, false))
	}
	return out, nil
}

func toStockEntryResponse(e *entity.StockEntry, withItems bool) *dto.StockEntryResponse {
	out := &dto.StockEntryResponse{
		ID:              e.ID,
		Number:          e.Number,
		SedeID:          e.SedeID,
		ProviderID:      e.ProviderID,
		UserID:          e.UserID,
		ProviderInvoice: e.ProviderInvoice,
		Total:           e.Total,
		Note:            e.Note,
		Date:            e.Date,
	}
	if withItems {
		out.Items = make([]dto.StockEntryItemResponse, 0, len(e.Items))
		for _, it := range e.Items {
			out.Items = append(out.Items, dto.StockEntryItemResponse{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitCost,
				Subtotal:  it.Subtotal,
			})
		}
	}
	return out
}
