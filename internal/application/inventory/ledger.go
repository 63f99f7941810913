package inventory

import (
	"context"
	"fmt"
	"math"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/domain/repository"
)

// EventStockUpdate tipo de los eventos difundidos tras cada movimiento.
const EventStockUpdate = "stock_update"

// LedgerUseCase registra entradas y salidas de inventario.
// Cada movimiento (alta en el libro + ajuste de stock) es una única transacción con la fila
// del producto bloqueada (SELECT FOR UPDATE), de modo que dos salidas concurrentes del mismo
// producto no pueden pasar ambas la verificación de stock.
type LedgerUseCase struct {
	txRunner    TxRunner
	movRepo     repository.MovementRepository
	productRepo repository.ProductRepository
	publisher   EventPublisher
}

// NewLedgerUseCase construye el caso de uso. publisher puede ser nil.
func NewLedgerUseCase(
	txRunner TxRunner,
	movRepo repository.MovementRepository,
	productRepo repository.ProductRepository,
	publisher EventPublisher,
) *LedgerUseCase {
	return &LedgerUseCase{
		txRunner:    txRunner,
		movRepo:     movRepo,
		productRepo: productRepo,
		publisher:   publisher,
	}
}

// RecordInbound registra una entrada y suma quantity al stock del producto.
func (uc *LedgerUseCase) RecordInbound(ctx context.Context, productID int64, quantity int) (*dto.MovementResponse, error) {
	if err := validQuantity(quantity); err != nil {
		return nil, err
	}

	var (
		mov   *entity.Movement
		stock int
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		mov = &entity.Movement{ProductID: productID, Type: entity.MovementInbound, Quantity: quantity}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		stock, err = productRepo.AdjustStock(ctx, productID, quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, mov, stock), nil
}

// RecordOutbound registra una salida y resta quantity del stock.
// Un stock de 0 es un valor válido: cualquier cantidad positiva da ErrInsufficientStock.
func (uc *LedgerUseCase) RecordOutbound(ctx context.Context, productID int64, quantity int) (*dto.MovementResponse, error) {
	var (
		mov   *entity.Movement
		stock int
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.MovementRepository,
		productRepo repository.ProductRepository,
	) error {
		product, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrNotFound
		}
		if err := validQuantity(quantity); err != nil {
			return err
		}
		if quantity > product.Stock {
			return domain.ErrInsufficientStock
		}
		mov = &entity.Movement{ProductID: productID, Type: entity.MovementOutbound, Quantity: quantity}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		// AdjustStock vuelve a exigir stock >= 0 en la propia sentencia.
		stock, err = productRepo.AdjustStock(ctx, productID, -quantity)
		return err
	})
	if err != nil {
		return nil, err
	}
	return uc.committed(ctx, mov, stock), nil
}

// ListMovements devuelve el libro completo, más recientes primero.
func (uc *LedgerUseCase) ListMovements(ctx context.Context) ([]dto.MovementResponse, error) {
	list, err := uc.movRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// ListByProduct devuelve los movimientos de un producto, más recientes primero.
func (uc *LedgerUseCase) ListByProduct(ctx context.Context, productID int64) ([]dto.MovementResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	list, err := uc.movRepo.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toMovementResponses(list), nil
}

// Reconcile compara el stock del producto con entradas menos salidas del libro.
// Una edición directa del stock vía PUT /productos rompe la igualdad.
func (uc *LedgerUseCase) Reconcile(ctx context.Context, productID int64) (*dto.ReconciliationResponse, error) {
	product, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	balance, err := uc.movRepo.BalanceByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.ReconciliationResponse{
		ProductID:     productID,
		Stock:         product.Stock,
		Inbound:       balance.Inbound,
		Outbound:      balance.Outbound,
		LedgerBalance: balance.Net(),
		Movements:     balance.Count,
		Consistent:    balance.Net() == product.Stock,
	}, nil
}

// committed arma la respuesta y publica el evento; solo se llama después del Commit.
func (uc *LedgerUseCase) committed(ctx context.Context, mov *entity.Movement, stock int) *dto.MovementResponse {
	out := toMovementResponse(mov, "")
	out.StockActual = &stock
	if uc.publisher != nil {
		uc.publisher.PublishStock(ctx, dto.StockEvent{
			Type:        EventStockUpdate,
			Movement:    *out,
			StockActual: stock,
		})
	}
	return out
}

// validQuantity exige un entero positivo que quepa en la columna INTEGER.
func validQuantity(quantity int) error {
	if quantity <= 0 || quantity > math.MaxInt32 {
		return fmt.Errorf("%w: cantidad debe ser un entero positivo", domain.ErrInvalidInput)
	}
	return nil
}

func toMovementResponse(m *entity.Movement, productName string) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:          m.ID,
		ProductID:   m.ProductID,
		ProductName: productName,
		Type:        m.Type,
		Quantity:    m.Quantity,
		Date:        m.Date,
	}
}

func toMovementResponses(list []*entity.MovementDetail) []dto.MovementResponse {
	out := make([]dto.MovementResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *toMovementResponse(&d.Movement, d.ProductName))
	}
	return out
}
