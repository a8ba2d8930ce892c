package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

var idealFactor = decimal.NewFromFloat(1.5)

// ReplenishmentUseCase genera la lista de reposición de una sede (o de todas).
type ReplenishmentUseCase struct {
	stockRepo repository.StockRepository
	guard     *access.Guard
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stockRepo repository.StockRepository, guard *access.Guard) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stockRepo: stockRepo, guard: guard}
}

// GenerateList devuelve los productos bajo su stock mínimo con la cantidad sugerida
// (stock_minimo * 1.5 - actual) y el costo estimado del pedido. El orden lo da el
// repositorio: mayor déficit primero. sedeID vacío considera todas las sedes visibles.
func (uc *ReplenishmentUseCase) GenerateList(ctx context.Context, actor access.Actor, sedeID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	scoped, allowed, err := uc.guard.ScopeSede(ctx, actor, sedeID)
	if err != nil {
		return nil, err
	}
	rawItems, err := uc.stockRepo.BelowMinimum(ctx, scoped)
	if err != nil {
		return nil, err
	}

	visible := func(id string) bool { return true }
	if allowed != nil {
		set := make(map[string]struct{}, len(allowed))
		for _, id := range allowed {
			set[id] = struct{}{}
		}
		visible = func(id string) bool {
			_, ok := set[id]
			return ok
		}
	}

	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(rawItems))
	for _, item := range rawItems {
		if !visible(item.SedeID) {
			continue
		}
		idealStock := item.MinStock.Mul(idealFactor)
		suggestedQty := idealStock.Sub(item.Quantity)
		if suggestedQty.IsNegative() {
			suggestedQty = decimal.Zero
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ProductID:          item.ProductID,
			ProductCode:        item.ProductCode,
			ProductName:        item.ProductName,
			SedeID:             item.SedeID,
			CurrentStock:       item.Quantity,
			MinStock:           item.MinStock,
			IdealStock:         idealStock,
			SuggestedOrderQty:  suggestedQty,
			UnitCost:           item.Cost,
			EstimatedOrderCost: suggestedQty.Mul(item.Cost).Round(2),
			Priority:           len(suggestions) + 1,
		})
	}
	return suggestions, nil
}
