package inventory

import (
	"context"
	"errors"
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
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
	"github.com/jhoicas/inventario-sedes/internal/domain/sales"
	"github.com/jhoicas/inventario-sedes/pkg/csvexport"
)

// SaleUseCase registra, consulta y anula ventas. Registrar y anular afectan el
// inventario de la sede en una sola transacción.
type SaleUseCase struct {
	txRunner TxRunner
	saleRepo repository.SaleRepository
	guard    *access.Guard
	metrics  Metrics
	now      func() time.Time
}

// NewSaleUseCase construye el caso de uso. metrics puede ser nil.
func NewSaleUseCase(txRunner TxRunner, saleRepo repository.SaleRepository, guard *access.Guard, metrics Metrics) *SaleUseCase {
	return &SaleUseCase{
		txRunner: txRunner,
		saleRepo: saleRepo,
		guard:    guard,
		metrics:  metricsOrNop(metrics),
		now:      time.Now,
	}
}

// saleLine líneas del mismo producto ya unidas. index es la posición del primer ítem en
// la solicitud; prices e indexes guardan el precio pedido por cada ítem unido.
type saleLine struct {
	productID string
	index     int
	quantity  decimal.Decimal
	discount  decimal.Decimal
	prices    []*decimal.Decimal
	indexes   []int
}

// effectivePrice el precio enviado o, si no viene, el precio de venta del producto.
func effectivePrice(p *decimal.Decimal, product *entity.Product) decimal.Decimal {
	if p != nil {
		return *p
	}
	return product.Price
}

// validateSale valida el formulario y une las líneas repetidas del mismo producto.
func validateSale(in dto.RegisterSaleRequest) ([]saleLine, error) {
	var verr domain.ValidationErrors
	if in.PaymentMethod != "" && !entity.ValidPaymentMethod(in.PaymentMethod) {
		verr.Add("payment_method", "método de pago no soportado")
	}
	if len(in.Items) == 0 {
		verr.Add("items", "la venta debe tener al menos un ítem")
	}
	merged := make(map[string]*saleLine, len(in.Items))
	order := make([]string, 0, len(in.Items))
	for i, it := range in.Items {
		field := fmt.Sprintf("items[%d]", i)
		if strings.TrimSpace(it.ProductID) == "" {
			verr.Add(field+".product_id", "el producto es obligatorio")
			continue
		}
		if !it.Quantity.IsPositive() {
			verr.Add(field+".quantity", "la cantidad debe ser mayor que cero")
		}
		if it.Discount.IsNegative() {
			verr.Add(field+".discount", "el descuento no puede ser negativo")
		}
		if it.UnitPrice != nil && it.UnitPrice.IsNegative() {
			verr.Add(field+".unit_price", "el precio no puede ser negativo")
		}
		if ln, ok := merged[it.ProductID]; ok {
			ln.quantity = ln.quantity.Add(it.Quantity)
			ln.discount = ln.discount.Add(it.Discount)
			ln.prices = append(ln.prices, it.UnitPrice)
			ln.indexes = append(ln.indexes, i)
			continue
		}
		merged[it.ProductID] = &saleLine{
			productID: it.ProductID,
			index:     i,
			quantity:  it.Quantity,
			discount:  it.Discount,
			prices:    []*decimal.Decimal{it.UnitPrice},
			indexes:   []int{i},
		}
		order = append(order, it.ProductID)
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	// Bloqueo de filas siempre en el mismo orden para evitar deadlocks entre ventas concurrentes.
	sort.Strings(order)
	lines := make([]saleLine, 0, len(order))
	for _, id := range order {
		lines = append(lines, *merged[id])
	}
	return lines, nil
}

// Register valida la venta, bloquea las existencias, descuenta stock, registra
// movimientos SALE al costo vigente y persiste la venta con su consecutivo.
func (uc *SaleUseCase) Register(ctx context.Context, actor access.Actor, in dto.RegisterSaleRequest) (*dto.SaleResponse, error) {
	lines, err := validateSale(in)
	if err != nil {
		return nil, err
	}
	sedeID := actor.ResolveSede(in.SedeID)
	sede, err := uc.guard.CheckSede(ctx, actor, sedeID)
	if err != nil {
		return nil, err
	}
	payment := in.PaymentMethod
	if payment == "" {
		payment = entity.PaymentCash
	}

	now := uc.now()
	var sale *entity.Sale
	err = uc.txRunner.Run(ctx, func(r TxRepos) error {
		led := newLedger(r, actor.UserID, now)
		stocks := make([]*entity.Stock, len(lines))
		items := make([]entity.SaleItem, len(lines))
		var shortages []domain.StockShortage
		var verr domain.ValidationErrors

		for i, ln := range lines {
			product, err := r.Products.GetByID(ctx, ln.productID)
			if err != nil {
				return fmt.Errorf("obtener producto: %w", err)
			}
			if product == nil {
				return fmt.Errorf("producto %s: %w", ln.productID, domain.ErrNotFound)
			}
			if !product.Active {
				return fmt.Errorf("producto %s: %w", product.Code, domain.ErrInactive)
			}
			// Los ítems repetidos solo se unen si cobran el mismo precio.
			price := effectivePrice(ln.prices[0], product)
			for k := 1; k < len(ln.prices); k++ {
				if !effectivePrice(ln.prices[k], product).Equal(price) {
					verr.Add(fmt.Sprintf("items[%d].unit_price", ln.indexes[k]), "el producto se repite con otro precio")
				}
			}
			if ln.discount.GreaterThan(ln.quantity.Mul(price)) {
				verr.Add(fmt.Sprintf("items[%d].discount", ln.index), "el descuento supera el valor de la línea")
			}
			stock, err := led.lock(ctx, product.ID, sedeID)
			if err != nil {
				return fmt.Errorf("bloquear stock: %w", err)
			}
			if stock.Quantity.LessThan(ln.quantity) {
				shortages = append(shortages, domain.StockShortage{
					ProductID: product.ID,
					SedeID:    sedeID,
					Available: stock.Quantity.String(),
					Requested: ln.quantity.String(),
				})
			}
			stocks[i] = stock
			items[i] = entity.SaleItem{
				ID:        uuid.NewString(),
				ProductID: product.ID,
				Quantity:  ln.quantity,
				UnitPrice: price,
				Discount:  ln.discount,
				TaxRate:   product.TaxRate,
				UnitCost:  product.Cost,
			}
		}
		if err := verr.Err(); err != nil {
			return err
		}
		if len(shortages) > 0 {
			return &domain.InsufficientStockError{Shortages: shortages}
		}

		seq, err := r.Sequences.Next(ctx, sedeID, repository.SequenceSale)
		if err != nil {
			return fmt.Errorf("consecutivo de venta: %w", err)
		}
		sale = &entity.Sale{
			ID:               uuid.NewString(),
			Number:           saleNumber(sede.Prefix, seq),
			SedeID:           sedeID,
			UserID:           actor.UserID,
			CustomerName:     strings.TrimSpace(in.CustomerName),
			CustomerDocument: strings.TrimSpace(in.CustomerDocument),
			PaymentMethod:    payment,
			Status:           entity.SaleStatusRegistered,
			Note:             in.Note,
			Date:             now,
			CreatedAt:        now,
			UpdatedAt:        now,
			Items:            items,
		}
		for i := range sale.Items {
			sale.Items[i].SaleID = sale.ID
		}
		sales.ApplyTotals(sale)

		for i, it := range sale.Items {
			if _, err := led.apply(ctx, stocks[i], entity.MovementTypeSale, it.Quantity.Neg(), it.UnitCost, sale.Number, ""); err != nil {
				return err
			}
		}
		return r.Sales.Create(ctx, sale)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.metrics.StockConflict("sale")
		}
		return nil, err
	}
	uc.metrics.SaleRegistered(sedeID)
	return toSaleResponse(sale, true), nil
}

func saleNumber(prefix string, seq int64) string {
	return fmt.Sprintf("V-%s-%d", strings.ToUpper(prefix), seq)
}

// Void anula una venta registrada y devuelve las unidades al inventario con movimientos VOID.
// Solo administradores.
func (uc *SaleUseCase) Void(ctx context.Context, actor access.Actor, saleID string, in dto.VoidSaleRequest) (*dto.SaleResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin); err != nil {
		return nil, err
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		return nil, domain.ValidationErrors{{Field: "reason", Message: "el motivo de anulación es obligatorio"}}
	}

	now := uc.now()
	var sale *entity.Sale
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		var err error
		sale, err = r.Sales.GetByID(ctx, saleID)
		if err != nil {
			return fmt.Errorf("obtener venta: %w", err)
		}
		if sale == nil {
			return domain.ErrNotFound
		}
		if sale.Status != entity.SaleStatusRegistered {
			return fmt.Errorf("venta %s: %w", sale.Number, domain.ErrConflict)
		}
		items := append([]entity.SaleItem(nil), sale.Items...)
		sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })

		led := newLedger(r, actor.UserID, now)
		for _, it := range items {
			stock, err := led.lock(ctx, it.ProductID, sale.SedeID)
			if err != nil {
				return fmt.Errorf("bloquear stock: %w", err)
			}
			if _, err := led.apply(ctx, stock, entity.MovementTypeVoid, it.Quantity, it.UnitCost, sale.Number, reason); err != nil {
				return err
			}
		}
		sale.Status = entity.SaleStatusVoided
		sale.VoidReason = reason
		sale.UpdatedAt = now
		return r.Sales.UpdateStatus(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	uc.metrics.SaleVoided(sale.SedeID)
	return toSaleResponse(sale, true), nil
}

// GetByID devuelve la venta con sus ítems si pertenece a una sede visible para el actor.
func (uc *SaleUseCase) GetByID(ctx context.Context, actor access.Actor, id string) (*dto.SaleResponse, error) {
	sale, err := uc.saleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if _, _, err := uc.guard.ScopeSede(ctx, actor, sale.SedeID); err != nil {
		return nil, err
	}
	return toSaleResponse(sale, true), nil
}

func (uc *SaleUseCase) filter(ctx context.Context, actor access.Actor, in dto.SaleListRequest) (repository.SaleFilter, error) {
	sedeID, allowed, err := uc.guard.ScopeSede(ctx, actor, in.SedeID)
	if err != nil {
		return repository.SaleFilter{}, err
	}
	if in.Status != "" && in.Status != entity.SaleStatusRegistered && in.Status != entity.SaleStatusVoided {
		return repository.SaleFilter{}, domain.ValidationErrors{{Field: "status", Message: "estado no soportado"}}
	}
	return repository.SaleFilter{
		SedeID:        sedeID,
		SedeIDs:       allowed,
		UserID:        in.UserID,
		Status:        in.Status,
		PaymentMethod: in.PaymentMethod,
		Query:         in.Query,
		Since:         in.Since,
		Until:         in.Until,
		Page:          in.ToPage(),
	}, nil
}

// List devuelve las ventas filtradas y paginadas (sin ítems).
func (uc *SaleUseCase) List(ctx context.Context, actor access.Actor, in dto.SaleListRequest) (*dto.SaleListResponse, error) {
	f, err := uc.filter(ctx, actor, in)
	if err != nil {
		return nil, err
	}
	list, total, err := uc.saleRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.SaleListResponse{Items: make([]dto.SaleResponse, 0, len(list)), Page: dto.NewPageResponse(f.Page, total)}
	for _, s := range list {
		out.Items = append(out.Items, *toSaleResponse(s, false))
	}
	return out, nil
}

// Export devuelve todas las ventas del filtro (sin paginar) como tabla CSV.
func (uc *SaleUseCase) Export(ctx context.Context, actor access.Actor, in dto.SaleListRequest) (csvexport.Table, error) {
	f, err := uc.filter(ctx, actor, in)
	if err != nil {
		return csvexport.Table{}, err
	}
	tbl := csvexport.Table{Header: []string{"numero", "fecha", "sede_id", "usuario_id", "cliente", "documento", "metodo_pago", "subtotal", "descuento", "iva", "total", "estado"}}
	err = eachPage(func(p repository.Page) (int, int, error) {
		f.Page = p
		list, total, err := uc.saleRepo.List(ctx, f)
		for _, s := range list {
			tbl.Append(s.Number, s.Date.Format(time.DateTime), s.SedeID, s.UserID, s.CustomerName, s.CustomerDocument,
				s.PaymentMethod, s.Subtotal.StringFixed(2), s.Discount.StringFixed(2), s.Tax.StringFixed(2), s.Total.StringFixed(2), s.Status)
		}
		return len(list), total, err
	})
	return tbl, err
}

// eachPage recorre todas las páginas de un listado. fetch devuelve cuántos ítems leyó y el total.
func eachPage(fetch func(p repository.Page) (int, int, error)) error {
	p := repository.Page{Limit: 100}
	for {
		n, total, err := fetch(p)
		if err != nil {
			return err
		}
		p.Offset += n
		if n == 0 || p.Offset >= total {
			return nil
		}
	}
}

func toSaleResponse(s *entity.Sale, withItems bool) *dto.SaleResponse {
	out := &dto.SaleResponse{
		ID:               s.ID,
		Number:           s.Number,
		SedeID:           s.SedeID,
		UserID:           s.UserID,
		CustomerName:     s.CustomerName,
		CustomerDocument: s.CustomerDocument,
		PaymentMethod:    s.PaymentMethod,
		Subtotal:         s.Subtotal,
		Discount:         s.Discount,
		Tax:              s.Tax,
		Total:            s.Total,
		Status:           s.Status,
		Note:             s.Note,
		VoidReason:       s.VoidReason,
		Date:             s.Date,
	}
	if withItems {
		out.Items = make([]dto.SaleItemResponse, 0, len(s.Items))
		for _, it := range s.Items {
			out.Items = append(out.Items, dto.SaleItemResponse{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Discount:  it.Discount,
				TaxRate:   it.TaxRate,
				Subtotal:  it.Subtotal,
				Tax:       it.Tax,
				Total:     it.Total,
				UnitCost:  it.UnitCost,
			})
		}
	}
	return out
}
