package inventory

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/pkg/csvexport"
)

// StockUseCase consultas de existencias por sede, ajustes por conteo, traslados y kardex.
type StockUseCase struct {
	txRunner    TxRunner
	stockRepo   repository.StockRepository
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	guard       *access.Guard
	metrics     Metrics
	now         func() time.Time
}

// NewStockUseCase construye el caso de uso. metrics puede ser nil.
func NewStockUseCase(
	txRunner TxRunner,
	stockRepo repository.StockRepository,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	guard *access.Guard,
	metrics Metrics,
) *StockUseCase {
	return &StockUseCase{
		txRunner:    txRunner,
		stockRepo:   stockRepo,
		movRepo:     movRepo,
		productRepo: productRepo,
		guard:       guard,
		metrics:     metricsOrNop(metrics),
		now:         time.Now,
	}
}

// GetStock devuelve la existencia de un producto en una sede (cero si nunca tuvo movimientos).
func (uc *StockUseCase) GetStock(ctx context.Context, actor access.Actor, productID, sedeID string) (*dto.StockResponse, error) {
	sedeID = actor.ResolveSede(sedeID)
	if sedeID == "" {
		return nil, domain.ValidationErrors{{Field: "sede_id", Message: "la sede es obligatoria"}}
	}
	if _, _, err := uc.guard.ScopeSede(ctx, actor, sedeID); err != nil {
		return nil, err
	}
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	s, err := uc.stockRepo.Get(ctx, productID, sedeID)
	if err != nil {
		return nil, err
	}
	return toStockResponse(s), nil
}

// ListBySede devuelve el inventario valorizado de una sede.
func (uc *StockUseCase) ListBySede(ctx context.Context, actor access.Actor, sedeID string, in dto.StockListRequest) (*dto.StockListResponse, error) {
	if sedeID == "" {
		return nil, domain.ValidationErrors{{Field: "sede_id", Message: "la sede es obligatoria"}}
	}
	if _, _, err := uc.guard.ScopeSede(ctx, actor, sedeID); err != nil {
		return nil, err
	}
	f := repository.StockFilter{
		SedeID:       sedeID,
		Query:        in.Query,
		CategoryID:   in.CategoryID,
		OnlyLowStock: in.OnlyLowStock,
		Page:         in.ToPage(),
	}
	lines, total, err := uc.stockRepo.ListLines(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.StockListResponse{Items: make([]dto.StockLineResponse, 0, len(lines)), Page: dto.NewPageResponse(f.Page, total), Valuation: decimal.Zero}
	for _, l := range lines {
		item := toStockLineResponse(l)
		out.Valuation = out.Valuation.Add(item.Valuation)
		out.Items = append(out.Items, item)
	}
	return out, nil
}

// ExportSede devuelve el inventario completo de la sede (con filtros, sin paginar) como tabla CSV.
func (uc *StockUseCase) ExportSede(ctx context.Context, actor access.Actor, sedeID string, in dto.StockListRequest) (csvexport.Table, error) {
	if _, _, err := uc.guard.ScopeSede(ctx, actor, sedeID); err != nil {
		return csvexport.Table{}, err
	}
	tbl := csvexport.Table{Header: []string{"codigo", "nombre", "cantidad", "stock_minimo", "bajo_stock", "costo", "valorizado"}}
	f := repository.StockFilter{SedeID: sedeID, Query: in.Query, CategoryID: in.CategoryID, OnlyLowStock: in.OnlyLowStock}
	err := eachPage(func(p repository.Page) (int, int, error) {
		f.Page = p
		lines, total, err := uc.stockRepo.ListLines(ctx, f)
		for _, l := range lines {
			item := toStockLineResponse(l)
			low := "no"
			if item.LowStock {
				low = "si"
			}
			tbl.Append(l.ProductCode, l.ProductName, l.Quantity.String(), l.MinStock.String(), low, l.Cost.StringFixed(2), item.Valuation.StringFixed(2))
		}
		return len(lines), total, err
	})
	return tbl, err
}

// Adjust fija la existencia según un conteo físico (NewQuantity) o la corrige en Delta unidades.
// Registra un movimiento ADJUSTMENT por la diferencia; el resultado no puede ser negativo.
func (uc *StockUseCase) Adjust(ctx context.Context, actor access.Actor, in dto.AdjustStockRequest) (*dto.MovementResultResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	var verr domain.ValidationErrors
	if in.ProductID == "" {
		verr.Add("product_id", "el producto es obligatorio")
	}
	switch {
	case in.NewQuantity == nil && in.Delta == nil:
		verr.Add("new_quantity", "indique la cantidad contada o la diferencia")
	case in.NewQuantity != nil && in.Delta != nil:
		verr.Add("delta", "indique solo la cantidad contada o la diferencia, no ambas")
	case in.NewQuantity != nil && in.NewQuantity.IsNegative():
		verr.Add("new_quantity", "la cantidad no puede ser negativa")
	case in.Delta != nil && in.Delta.IsZero():
		verr.Add("delta", "la diferencia no puede ser cero")
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		verr.Add("reason", "el motivo del ajuste es obligatorio")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	sedeID := actor.ResolveSede(in.SedeID)
	if _, err := uc.guard.CheckSede(ctx, actor, sedeID); err != nil {
		return nil, err
	}

	now := uc.now()
	out := &dto.MovementResultResponse{}
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("obtener producto: %w", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		led := newLedger(r, actor.UserID, now)
		stock, err := led.lock(ctx, product.ID, sedeID)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		var delta decimal.Decimal
		if in.NewQuantity != nil {
			delta = in.NewQuantity.Sub(stock.Quantity)
		} else {
			delta = *in.Delta
		}
		out.TransactionID = led.txID
		if delta.IsZero() {
			// El conteo coincide con el sistema: no hay movimiento.
			out.Stock = []dto.StockResponse{*toStockResponse(stock)}
			return nil
		}
		if _, err := led.apply(ctx, stock, entity.MovementTypeAdjustment, delta, product.Cost, "", reason); err != nil {
			return err
		}
		out.Stock = []dto.StockResponse{*toStockResponse(stock)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Transfer traslada unidades entre dos sedes: resta en origen, suma en destino y registra
// dos movimientos TRANSFER con el mismo transaction_id.
func (uc *StockUseCase) Transfer(ctx context.Context, actor access.Actor, in dto.TransferRequest) (*dto.MovementResultResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	var verr domain.ValidationErrors
	if in.ProductID == "" {
		verr.Add("product_id", "el producto es obligatorio")
	}
	if in.FromSedeID == "" {
		verr.Add("from_sede_id", "la sede de origen es obligatoria")
	}
	if in.ToSedeID == "" {
		verr.Add("to_sede_id", "la sede de destino es obligatoria")
	}
	if in.FromSedeID != "" && in.FromSedeID == in.ToSedeID {
		verr.Add("to_sede_id", "la sede de destino debe ser distinta a la de origen")
	}
	if !in.Quantity.IsPositive() {
		verr.Add("quantity", "la cantidad debe ser mayor que cero")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	// El usuario debe poder operar en el origen; el destino solo debe existir y estar activo.
	if _, err := uc.guard.CheckSede(ctx, actor, in.FromSedeID); err != nil {
		return nil, err
	}
	if _, err := uc.guard.CheckSede(ctx, access.Actor{UserID: actor.UserID, Role: entity.RoleAdmin}, in.ToSedeID); err != nil {
		return nil, fmt.Errorf("sede destino: %w", err)
	}

	now := uc.now()
	out := &dto.MovementResultResponse{}
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("obtener producto: %w", err)
		}
		if product == nil {
			return domain.ErrNotFound
		}
		led := newLedger(r, actor.UserID, now)
		// Bloqueo en orden de sede para evitar deadlocks entre traslados cruzados.
		first, second := in.FromSedeID, in.ToSedeID
		if second < first {
			first, second = second, first
		}
		locked := map[string]*entity.Stock{}
		for _, sid := range []string{first, second} {
			s, err := led.lock(ctx, product.ID, sid)
			if err != nil {
				return fmt.Errorf("bloquear stock: %w", err)
			}
			locked[sid] = s
		}
		origin, dest := locked[in.FromSedeID], locked[in.ToSedeID]
		if _, err := led.apply(ctx, origin, entity.MovementTypeTransfer, in.Quantity.Neg(), product.Cost, in.ToSedeID, in.Note); err != nil {
			return err
		}
		if _, err := led.apply(ctx, dest, entity.MovementTypeTransfer, in.Quantity, product.Cost, in.FromSedeID, in.Note); err != nil {
			return err
		}
		out.TransactionID = led.txID
		out.Stock = []dto.StockResponse{*toStockResponse(origin), *toStockResponse(dest)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Kardex devuelve los movimientos del producto en orden cronológico con saldo acumulado.
// El saldo inicial corresponde a los movimientos anteriores a Since.
func (uc *StockUseCase) Kardex(ctx context.Context, actor access.Actor, productID string, in dto.KardexRequest) (*dto.KardexResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	sedeID, allowed, err := uc.guard.ScopeSede(ctx, actor, in.SedeID)
	if err != nil {
		return nil, err
	}
	if sedeID == "" && allowed != nil {
		// Usuario no admin sin sede explícita: kardex de su sede activa.
		sedeID = actor.SedeID
		if _, _, err := uc.guard.ScopeSede(ctx, actor, sedeID); err != nil || sedeID == "" {
			return nil, domain.ErrSedeNotAssigned
		}
	}

	opening := decimal.Zero
	if in.Since != nil {
		before := in.Since.Add(-time.Nanosecond)
		prev, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, SedeID: sedeID, Until: &before})
		if err != nil {
			return nil, err
		}
		for _, m := range prev {
			opening = opening.Add(m.Quantity)
		}
	}
	movs, err := uc.movRepo.List(ctx, repository.MovementFilter{ProductID: productID, SedeID: sedeID, Since: in.Since, Until: in.Until})
	if err != nil {
		return nil, err
	}
	out := &dto.KardexResponse{ProductID: productID, SedeID: sedeID, OpeningBalance: opening, Lines: make([]dto.KardexLine, 0, len(movs))}
	balance := opening
	for _, m := range movs {
		balance = balance.Add(m.Quantity)
		out.Lines = append(out.Lines, dto.KardexLine{
			ID:            m.ID,
			TransactionID: m.TransactionID,
			SedeID:        m.SedeID,
			Type:          m.Type,
			Quantity:      m.Quantity,
			UnitCost:      m.UnitCost,
			TotalCost:     m.TotalCost,
			Balance:       balance,
			Reference:     m.Reference,
			Note:          m.Note,
			Date:          m.Date,
			UserID:        m.UserID,
		})
	}
	out.ClosingBalance = balance
	return out, nil
}

func toStockResponse(s *entity.Stock) *dto.StockResponse {
	return &dto.StockResponse{ProductID: s.ProductID, SedeID: s.SedeID, Quantity: s.Quantity, UpdatedAt: s.UpdatedAt}
}

func toStockLineResponse(l entity.StockLine) dto.StockLineResponse {
	return dto.StockLineResponse{
		ProductID:   l.ProductID,
		ProductCode: l.ProductCode,
		ProductName: l.ProductName,
		SedeID:      l.SedeID,
		Quantity:    l.Quantity,
		MinStock:    l.MinStock,
		LowStock:    l.Low(),
		UnitCost:    l.Cost,
		Valuation:   l.Quantity.Mul(l.Cost).Round(2),
		UpdatedAt:   l.UpdatedAt,
	}
}
