package http

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/domain"
	"github.com/kmuentes1145/act8/pkg/logger"
)

// Códigos de error de la API.
const (
	CodeValidation         = "VALIDATION_ERROR"
	CodeDuplicate          = "DUPLICATE"
	CodeEmailExists        = "DUPLICATE_EMAIL"
	CodeInsufficientStock  = "INSUFFICIENT_STOCK"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeNotFound           = "NOT_FOUND"
	CodeForbidden          = "FORBIDDEN"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInternal           = "INTERNAL"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // vacío: se usa err.Error(), que ya trae el detalle
}

var errorMappings = []errorMapping{
	{domain.ErrInvalidInput, fiber.StatusBadRequest, CodeValidation, ""},
	{domain.ErrEmailAlreadyExists, fiber.StatusBadRequest, CodeEmailExists, "El email ya está registrado"},
	{domain.ErrDuplicate, fiber.StatusBadRequest, CodeDuplicate, "Ya existe un producto con ese código"},
	{domain.ErrInsufficientStock, fiber.StatusBadRequest, CodeInsufficientStock, "Stock insuficiente"},
	{domain.ErrInvalidCredentials, fiber.StatusBadRequest, CodeInvalidCredentials, "Credenciales inválidas"},
	{domain.ErrNotFound, fiber.StatusNotFound, CodeNotFound, "Recurso no encontrado"},
	{domain.ErrPrincipalAccount, fiber.StatusForbidden, CodeForbidden, "No se puede eliminar la cuenta principal"},
	{domain.ErrAdminRequired, fiber.StatusForbidden, CodeForbidden, "Solo un administrador puede crear cuentas admin"},
	{domain.ErrForbidden, fiber.StatusForbidden, CodeForbidden, "Acceso denegado"},
	{domain.ErrUnauthorized, fiber.StatusUnauthorized, CodeUnauthorized, "No autorizado"},
}

// respondError traduce un error de dominio a status + dto.ErrorResponse.
// Los errores no reconocidos se registran y el cliente solo recibe un mensaje genérico.
func respondError(c *fiber.Ctx, log *logger.Logger, err error) error {
	for _, m := range errorMappings {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: msg})
		}
	}
	log.Error().
		Err(err).
		Str("method", c.Method()).
		Str("path", c.Path()).
		Interface("request_id", c.Locals(requestid.ConfigDefault.ContextKey)).
		Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: CodeInternal, Message: "Error interno del servidor"})
}

// badBody responde VALIDATION_ERROR cuando el body no se puede decodificar,
// nombrando el campo si el fallo es de tipo (cantidad 2.5, "5" en un entero, etc.).
func badBody(c *fiber.Ctx, err error) error {
	msg := "cuerpo de la petición inválido"
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.As(err, &typeErr) && typeErr.Field != "":
		msg = fmt.Sprintf("%s: se esperaba un valor de tipo %s", typeErr.Field, typeErr.Type)
	case errors.As(err, &syntaxErr):
		msg = "JSON mal formado"
	}
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: CodeValidation, Message: msg})
}

// ErrorHandler reemplaza el de fiber: errores sin manejar (404 de ruta, pánicos recuperados)
// salen con el mismo formato dto.ErrorResponse.
func ErrorHandler(log *logger.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code := CodeInternal
			switch fe.Code {
			case fiber.StatusNotFound:
				code = CodeNotFound
			case fiber.StatusMethodNotAllowed, fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
				code = CodeValidation
			case fiber.StatusUpgradeRequired:
				code = "UPGRADE_REQUIRED"
			}
			return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
		}
		return respondError(c, log, err)
	}
}
