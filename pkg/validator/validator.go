package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// FieldError describe una regla incumplida de un campo del request.
type FieldError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

var validate = newValidate()

func newValidate() *validator.Validate {
	v := validator.New()

	// Los errores reportan el nombre JSON del campo (nombre, precio, cantidad...).
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// decimal.Decimal se valida como número (gte=0, etc.).
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	return v
}

// ValidateStruct valida data según sus tags `validate` y devuelve los campos que fallan.
func ValidateStruct(data interface{}) []*FieldError {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []*FieldError{{Field: "", Tag: "invalid"}}
	}
	out := make([]*FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, &FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()})
	}
	return out
}

// Message construye un mensaje corto legible a partir de los errores de campo.
func Message(errs []*FieldError) string {
	if len(errs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, describe(e))
	}
	return strings.Join(parts, "; ")
}

func describe(e *FieldError) string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s es obligatorio", e.Field)
	case "email":
		return fmt.Sprintf("%s no es un email válido", e.Field)
	case "gt":
		return fmt.Sprintf("%s debe ser mayor que %s", e.Field, e.Param)
	case "gte":
		return fmt.Sprintf("%s debe ser mayor o igual que %s", e.Field, e.Param)
	case "max":
		return fmt.Sprintf("%s excede el máximo de %s", e.Field, e.Param)
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de: %s", e.Field, e.Param)
	default:
		return fmt.Sprintf("%s es inválido", e.Field)
	}
}
