package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventario-sedes/internal/application/access"
	"github.com/jhoicas/inventario-sedes/internal/application/dto"
	"github.com/jhoicas/inventario-sedes/internal/domain"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
	"github.com/jhoicas/inventario-sedes/internal/domain/repository"
)

// StockExitUseCase registra salidas de inventario que no son ventas (merma, consumo, donación...).
type StockExitUseCase struct {
	txRunner TxRunner
	exitRepo repository.StockExitRepository
	guard    *access.Guard
	metrics  Metrics
	now      func() time.Time
}

// NewStockExitUseCase construye el caso de uso. metrics puede ser nil.
func NewStockExitUseCase(txRunner TxRunner, exitRepo repository.StockExitRepository, guard *access.Guard, metrics Metrics) *StockExitUseCase {
	return &StockExitUseCase{txRunner: txRunner, exitRepo: exitRepo, guard: guard, metrics: metricsOrNop(metrics), now: time.Now}
}

// Register descuenta la cantidad de la sede y registra la salida con su movimiento EXIT.
func (uc *StockExitUseCase) Register(ctx context.Context, actor access.Actor, in dto.RegisterStockExitRequest) (*dto.StockExitResponse, error) {
	if err := access.RequireRole(actor, entity.RoleAdmin, entity.RoleBodeguero); err != nil {
		return nil, err
	}
	var verr domain.ValidationErrors
	if in.ProductID == "" {
		verr.Add("product_id", "el producto es obligatorio")
	}
	if !in.Quantity.IsPositive() {
		verr.Add("quantity", "la cantidad debe ser mayor que cero")
	}
	if !entity.ValidExitReason(in.Reason) {
		verr.Add("reason", "motivo de salida no soportado")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}
	sedeID := actor.ResolveSede(in.SedeID)
	if _, err := uc.guard.CheckSede(ctx, actor, sedeID); err != nil {
		return nil, err
	}

	now := uc.now()
	exit := &entity.StockExit{
		ID:        uuid.NewString(),
		SedeID:    sedeID,
		ProductID: in.ProductID,
		UserID:    actor.UserID,
		Quantity:  in.Quantity,
		Reason:    in.Reason,
		Note:      in.Note,
		Date:      now,
	}
	err := uc.txRunner.Run(ctx, func(r TxRepos) error {
		product, err := r.Products.GetByID(ctx, in.ProductID)
		if err != nil {
			return fmt.Errorf("obtener producto: %w", err)
		}
		if product == nil {
			return fmt.Errorf("producto: %w", domain.ErrNotFound)
		}
		led := newLedger(r, actor.UserID, now)
		stock, err := led.lock(ctx, product.ID, sedeID)
		if err != nil {
			return fmt.Errorf("bloquear stock: %w", err)
		}
		if _, err := led.apply(ctx, stock, entity.MovementTypeExit, in.Quantity.Neg(), product.Cost, exit.ID, exit.Reason); err != nil {
			return err
		}
		return r.Exits.Create(ctx, exit)
	})
	if err != nil {
		if errors.Is(err, domain.ErrInsufficientStock) {
			uc.metrics.StockConflict("exit")
		}
		return nil, err
	}
	uc.metrics.StockExitRegistered(sedeID)
	return toStockExitResponse(exit), nil
}

// List devuelve las salidas filtradas y paginadas.
func (uc *StockExitUseCase) List(ctx context.Context, actor access.Actor, in dto.StockExitListRequest) (*dto.StockExitListResponse, error) {
	sedeID, allowed, err := uc.guard.ScopeSede(ctx, actor, in.SedeID)
	if err != nil {
		return nil, err
	}
	if in.Reason != "" && !entity.ValidExitReason(in.Reason) {
		return nil, domain.ValidationErrors{{Field: "reason", Message: "motivo de salida no soportado"}}
	}
	f := repository.StockExitFilter{
		SedeID:    sedeID,
		SedeIDs:   allowed,
		ProductID: in.ProductID,
		Reason:    in.Reason,
		Since:     in.Since,
		Until:     in.Until,
		Page:      in.ToPage(),
	}
	list, total, err := uc.exitRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := &dto.StockExitListResponse{Items: make([]dto.StockExitResponse, 0, len(list)), Page: dto.NewPageResponse(f.Page, total)}
	for _, e := range list {
		out.Items = append(out.Items, *toStockExitResponse(e))
	}
	return out, nil
}

func toStockExitResponse(e *entity.StockExit) *dto.StockExitResponse {
	return &dto.StockExitResponse{
		ID:        e.ID,
		SedeID:    e.SedeID,
		ProductID: e.ProductID,
		UserID:    e.UserID,
		Quantity:  e.Quantity,
		Reason:    e.Reason,
		Note:      e.Note,
		Date:      e.Date,
	}
}
