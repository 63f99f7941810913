package inventory_test

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/domain/entity"
	"github.com/kmuentes1145/act8/internal/infrastructure/memory"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []dto.StockEvent
}

func (p *fakePublisher) PublishStock(_ context.Context, event dto.StockEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

type fixture struct {
	ledger    *inventory.LedgerUseCase
	products  *memory.ProductRepo
	movements *memory.MovementRepo
	publisher *fakePublisher
}

func newFixture() *fixture {
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movements := memory.NewMovementRepository(store)
	pub := &fakePublisher{}
	return &fixture{
		ledger:    inventory.NewLedgerUseCase(memory.NewTxRunner(store), movements, products, pub),
		products:  products,
		movements: movements,
		publisher: pub,
	}
}

func (f *fixture) product(t *testing.T, stock int) int64 {
	t.Helper()
	p := &entity.Product{Name: "Widget", Price: decimal.RequireFromString("9.99"), Stock: stock}
	require.NoError(t, f.products.Create(context.Background(), p))
	return p.ID
}

func (f *fixture) stock(t *testing.T, id int64) int {
	t.Helper()
	p, err := f.products.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, p)
	return p.Stock
}

func (f *fixture) movementCount(t *testing.T, id int64) int {
	t.Helper()
	list, err := f.movements.ListByProduct(context.Background(), id)
	require.NoError(t, err)
	return len(list)
}

// Escenario completo: entrada 5, salida 3, salida 10 rechazada.
func TestLedger_EscenarioWidget(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.product(t, 0)

	in, err := f.ledger.RecordInbound(ctx, id, 5)
	require.NoError(t, err)
	require.NotNil(t, in.StockActual)
	assert.Equal(t, 5, *in.StockActual)
	assert.Equal(t, entity.MovementInbound, in.Type)
	assert.Equal(t, 5, f.stock(t, id))
	assert.Equal(t, 1, f.movementCount(t, id))

	out, err := f.ledger.RecordOutbound(ctx, id, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, *out.StockActual)
	assert.Equal(t, entity.MovementOutbound, out.Type)
	assert.Equal(t, 2, f.movementCount(t, id))

	_, err = f.ledger.RecordOutbound(ctx, id, 10)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, f.stock(t, id), "el stock no cambia si se rechaza la salida")
	assert.Equal(t, 2, f.movementCount(t, id), "no se agrega movimiento al rechazar")
}

func TestLedger_SalidaIgualAlStockDejaCero(t *testing.T) {
	f := newFixture()
	id := f.product(t, 7)

	out, err := f.ledger.RecordOutbound(context.Background(), id, 7)
	require.NoError(t, err)
	assert.Equal(t, 0, *out.StockActual)
	assert.Equal(t, 0, f.stock(t, id))
}

// Un producto en stock 0 debe responder stock insuficiente, nunca "no encontrado".
func TestLedger_StockCeroNoEsNoEncontrado(t *testing.T) {
	f := newFixture()
	id := f.product(t, 0)

	_, err := f.ledger.RecordOutbound(context.Background(), id, 1)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_ProductoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.ledger.RecordInbound(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.ledger.RecordOutbound(context.Background(), 99, 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La salida busca el producto antes de validar la cantidad.
	_, err = f.ledger.RecordOutbound(context.Background(), 99, 0)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_CantidadInvalida(t *testing.T) {
	f := newFixture()
	id := f.product(t, 10)

	for _, q := range []int{0, -3} {
		_, err := f.ledger.RecordInbound(context.Background(), id, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = f.ledger.RecordOutbound(context.Background(), id, q)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, 10, f.stock(t, id))
	assert.Zero(t, f.movementCount(t, id))
}

// Si el ajuste de stock falla después de escribir el movimiento, no queda nada escrito.
func TestLedger_FalloEnAjusteRevierteMovimiento(t *testing.T) {
	f := newFixture()
	id := f.product(t, math.MaxInt32-1)

	_, err := f.ledger.RecordInbound(context.Background(), id, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Zero(t, f.movementCount(t, id), "el movimiento huérfano se revierte")
	assert.Equal(t, math.MaxInt32-1, f.stock(t, id))
	assert.Empty(t, f.publisher.events, "no se publica nada sin Commit")
}

// stock == Σentradas − Σsalidas tras cualquier secuencia de movimientos.
func TestLedger_ConservacionDeStock(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	ids := []int64{f.product(t, 0), f.product(t, 0), f.product(t, 0)}
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 300; i++ {
		id := ids[rng.Intn(len(ids))]
		q := 1 + rng.Intn(20)
		if rng.Intn(2) == 0 {
			_, err := f.ledger.RecordInbound(ctx, id, q)
			require.NoError(t, err)
			continue
		}
		_, err := f.ledger.RecordOutbound(ctx, id, q)
		if err != nil {
			require.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}

	for _, id := range ids {
		rec, err := f.ledger.Reconcile(ctx, id)
		require.NoError(t, err)
		assert.True(t, rec.Consistent)
		assert.Equal(t, rec.Inbound-rec.Outbound, f.stock(t, id))
		assert.GreaterOrEqual(t, rec.Stock, 0)
	}
}

// Salidas concurrentes contra el mismo producto nunca dejan el stock negativo.
func TestLedger_SalidasConcurrentes(t *testing.T) {
	f := newFixture()
	id := f.product(t, 10)

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, denied int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ledger.RecordOutbound(context.Background(), id, 1)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, domain.ErrInsufficientStock) {
				denied++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, ok)
	assert.Equal(t, 40, denied)
	assert.Equal(t, 0, f.stock(t, id))
	assert.Equal(t, 10, f.movementCount(t, id))
}

func TestLedger_ListMovementsMasRecientesPrimero(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	a := f.product(t, 0)
	b := f.product(t, 0)

	_, err := f.ledger.RecordInbound(ctx, a, 1)
	require.NoError(t, err)
	_, err = f.ledger.RecordInbound(ctx, b, 2)
	require.NoError(t, err)
	_, err = f.ledger.RecordOutbound(ctx, a, 1)
	require.NoError(t, err)

	list, err := f.ledger.ListMovements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, entity.MovementOutbound, list[0].Type)
	assert.Equal(t, "Widget", list[0].ProductName)
	assert.Equal(t, 2, list[1].Quantity)
	assert.Equal(t, a, list[2].ProductID)
	for i := 1; i < len(list); i++ {
		assert.False(t, list[i].Date.After(list[i-1].Date))
	}
	assert.Nil(t, list[0].StockActual)

	byProduct, err := f.ledger.ListByProduct(ctx, a)
	require.NoError(t, err)
	assert.Len(t, byProduct, 2)

	_, err = f.ledger.ListByProduct(ctx, 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLedger_PublicaEventoTrasCommit(t *testing.T) {
	f := newFixture()
	id := f.product(t, 0)

	_, err := f.ledger.RecordInbound(context.Background(), id, 4)
	require.NoError(t, err)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, inventory.EventStockUpdate, ev.Type)
	assert.Equal(t, 4, ev.StockActual)
	assert.Equal(t, id, ev.Movement.ProductID)
}

// Editar el stock directamente rompe la conciliación (tensión conocida de PUT /productos).
func TestLedger_ReconcileDetectaEdicionDirecta(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	id := f.product(t, 0)
	_, err := f.ledger.RecordInbound(ctx, id, 3)
	require.NoError(t, err)

	p, err := f.products.GetByID(ctx, id)
	require.NoError(t, err)
	p.Stock = 50
	require.NoError(t, f.products.Update(ctx, p))

	rec, err := f.ledger.Reconcile(ctx, id)
	require.NoError(t, err)
	assert.False(t, rec.Consistent)
	assert.Equal(t, 50, rec.Stock)
	assert.Equal(t, 3, rec.LedgerBalance)
	assert.Equal(t, 1, rec.Movements)
}
