package validator_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmuentes1145/act8/pkg/validator"
)

type producto struct {
	Nombre string           `json:"nombre" validate:"required,max=100"`
	Precio *decimal.Decimal `json:"precio" validate:"required,gte=0"`
	Stock  *int             `json:"stock" validate:"required,gte=0"`
	Email  string           `json:"email,omitempty" validate:"omitempty,email"`
}

func ptrInt(n int) *int { return &n }

func ptrDec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestValidateStruct_OK(t *testing.T) {
	errs := validator.ValidateStruct(producto{Nombre: "Widget", Precio: ptrDec("9.99"), Stock: ptrInt(0)})
	assert.Empty(t, errs, "stock 0 es un valor válido")
}

func TestValidateStruct_CamposFaltantes(t *testing.T) {
	errs := validator.ValidateStruct(producto{})
	require.Len(t, errs, 3)
	assert.Equal(t, "nombre", errs[0].Field)
	assert.Equal(t, "required", errs[0].Tag)
	assert.Equal(t, "precio", errs[1].Field)
	assert.Equal(t, "stock", errs[2].Field)
}

func TestValidateStruct_PrecioNegativo(t *testing.T) {
	errs := validator.ValidateStruct(producto{Nombre: "W", Precio: ptrDec("-1"), Stock: ptrInt(1)})
	require.Len(t, errs, 1)
	assert.Equal(t, "precio", errs[0].Field)
	assert.Equal(t, "gte", errs[0].Tag)
}

func TestMessage(t *testing.T) {
	msg := validator.Message([]*validator.FieldError{
		{Field: "nombre", Tag: "required"},
		{Field: "email", Tag: "email"},
	})
	assert.Equal(t, "nombre es obligatorio; email no es un email válido", msg)
	assert.Empty(t, validator.Message(nil))
}
