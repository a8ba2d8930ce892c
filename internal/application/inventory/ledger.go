package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// ledger aplica cambios de existencia y registra el movimiento del kardex dentro de una tx.
// Todas las operaciones que afectan stock pasan por aquí.
type ledger struct {
	repos  TxRepos
	txID   string
	userID string
	now    time.Time
}

func newLedger(repos TxRepos, userID string, now time.Time) *ledger {
	return &ledger{repos: repos, txID: uuid.NewString(), userID: userID, now: now}
}

// lock bloquea la fila de inventario_sedes (SELECT FOR UPDATE).
func (l *ledger) lock(ctx context.Context, productID, sedeID string) (*entity.Stock, error) {
	return l.repos.Stock.GetForUpdate(ctx, productID, sedeID)
}

// apply suma delta a la existencia bloqueada y guarda el movimiento. Una existencia
// resultante negativa devuelve InsufficientStockError.
func (l *ledger) apply(ctx context.Context, stock *entity.Stock, movType string, delta, unitCost decimal.Decimal, reference, note string) (*entity.Movement, error) {
	newQty := stock.Quantity.Add(delta)
	if newQty.IsNegative() {
		return nil, &domain.InsufficientStockError{Shortages: []domain.StockShortage{{
			ProductID: stock.ProductID,
			SedeID:    stock.SedeID,
			Available: stock.Quantity.String(),
			Requested: delta.Neg().String(),
		}}}
	}
	stock.Quantity = newQty
	stock.UpdatedAt = l.now
	if err := l.repos.Stock.Upsert(ctx, stock); err != nil {
		return nil, err
	}
	mov := &entity.Movement{
		ID:            uuid.NewString(),
		TransactionID: l.txID,
		ProductID:     stock.ProductID,
		SedeID:        stock.SedeID,
		Type:          movType,
		Quantity:      delta,
		UnitCost:      unitCost,
		TotalCost:     delta.Mul(unitCost).Round(2),
		Reference:     reference,
		Note:          note,
		Date:          l.now,
		UserID:        l.userID,
	}
	if err := l.repos.Movements.Create(ctx, mov); err != nil {
		return nil, err
	}
	return mov, nil
}

// InitialStockReference referencia de los movimientos de existencia inicial de un bien.
const InitialStockReference = "STOCK-INICIAL"

// ApplyInitialStock registra la existencia inicial de un producto recién creado como
// entradas ENTRY al costo indicado. Debe llamarse dentro de la misma tx que crea el producto.
func ApplyInitialStock(ctx context.Context, r TxRepos, userID, productID string, unitCost decimal.Decimal, lines []InitialLine, now time.Time) error {
	led := newLedger(r, userID, now)
	for _, ln := range lines {
		if err := receive(ctx, r, led, productID, ln.SedeID, ln.Quantity, unitCost, InitialStockReference, ""); err != nil {
			return err
		}
	}
	return nil
}

// InitialLine cantidad inicial en una sede.
type InitialLine struct {
	SedeID   string
	Quantity decimal.Decimal
}
