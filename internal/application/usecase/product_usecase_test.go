package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/internal/application/usecase"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/internal/infrastructure/memory"
)

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func widget() dto.ProductRequest {
	return dto.ProductRequest{
		Name:     "Widget",
		Category: "Ferretería",
		Price:    decPtr("9.99"),
		Stock:    intPtr(0),
		Code:     strPtr("W-001"),
	}
}

func TestProductUseCase_CreateYGet(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))

	created, err := uc.Create(ctx, widget())
	require.NoError(t, err)
	assert.Positive(t, created.ID)
	assert.Equal(t, 0, created.Stock)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("9.99")))

	got, err := uc.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = uc.GetByID(ctx, created.ID+1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_CreateValidaCampos(t *testing.T) {
	uc := usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))
	cases := map[string]func(*dto.ProductRequest){
		"sin nombre":        func(r *dto.ProductRequest) { r.Name = "  " },
		"sin precio":        func(r *dto.ProductRequest) { r.Price = nil },
		"sin stock":         func(r *dto.ProductRequest) { r.Stock = nil },
		"precio negativo":   func(r *dto.ProductRequest) { r.Price = decPtr("-0.01") },
		"stock negativo":    func(r *dto.ProductRequest) { r.Stock = intPtr(-1) },
		"tres decimales":    func(r *dto.ProductRequest) { r.Price = decPtr("1.005") },
		"precio fuera rango": func(r *dto.ProductRequest) { r.Price = decPtr("100000000") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := widget()
			mutate(&req)
			_, err := uc.Create(context.Background(), req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestProductUseCase_CodigoDuplicado(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))

	_, err := uc.Create(ctx, widget())
	require.NoError(t, err)
	_, err = uc.Create(ctx, widget())
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	// Código vacío equivale a sin código: no choca.
	a := widget()
	a.Code = strPtr("")
	b := widget()
	b.Code = nil
	_, err = uc.Create(ctx, a)
	require.NoError(t, err)
	_, err = uc.Create(ctx, b)
	require.NoError(t, err)
}

func TestProductUseCase_UpdateReemplazaCampos(t *testing.T) {
	ctx := context.Background()
	uc := usecase.NewProductUseCase(memory.NewProductRepository(memory.NewStore()))
	created, err := uc.Create(ctx, widget())
	require.NoError(t, err)

	req := dto.ProductRequest{Name: "Widget XL", Price: decPtr("12.50"), Stock: intPtr(8)}
	updated, err := uc.Update(ctx, created.ID, req)
	require.NoError(t, err)
	assert.Equal(t, "Widget XL", updated.Name)
	assert.Equal(t, 8, updated.Stock)
	assert.Nil(t, updated.Code, "reemplazo completo: el código omitido queda vacío")
	assert.Empty(t, updated.Category)

	_, err = uc.Update(ctx, 999, req)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProductUseCase_DeleteEnCascada(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	products := memory.NewProductRepository(store)
	movements := memory.NewMovementRepository(store)
	uc := usecase.NewProductUseCase(products)
	ledger := inventory.NewLedgerUseCase(memory.NewTxRunner(store), movements, products, nil)

	keep, err := uc.Create(ctx, widget())
	require.NoError(t, err)
	other := widget()
	other.Code = nil
	gone, err := uc.Create(ctx, other)
	require.NoError(t, err)

	_, err = ledger.RecordInbound(ctx, keep.ID, 1)
	require.NoError(t, err)
	_, err = ledger.RecordInbound(ctx, gone.ID, 2)
	require.NoError(t, err)
	_, err = ledger.RecordOutbound(ctx, gone.ID, 1)
	require.NoError(t, err)

	require.NoError(t, uc.Delete(ctx, gone.ID))

	list, err := ledger.ListMovements(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, keep.ID, list[0].ProductID)

	assert.ErrorIs(t, uc.Delete(ctx, gone.ID), domain.ErrNotFound)
}
