package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/kmuentes1145/act8/internal/application/dto"
	"github.com/kmuentes1145/act8/internal/application/inventory"
	"github.com/kmuentes1145/act8/pkg/logger"
)

// InventoryHandler maneja el libro de movimientos: entradas, salidas y listado.
type InventoryHandler struct {
	uc  *inventory.LedgerUseCase
	log *logger.Logger
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase, log *logger.Logger) *InventoryHandler {
	return &InventoryHandler{uc: uc, log: log}
}

// List godoc
// @Summary      Listar movimientos
// @Description  Todos los movimientos con el nombre del producto, más recientes primero.
// @Tags         movimientos
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /movimientos [get]
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.ListMovements(c.Context())
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.JSON(out)
}

// Inbound godoc
// @Summary      Registrar entrada
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "producto_id, cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /movimientos/entrada [post]
func (h *InventoryHandler) Inbound(c *fiber.Ctx) error {
	in, ok, err := h.parse(c)
	if !ok {
		return err
	}
	out, err := h.uc.RecordInbound(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Outbound godoc
// @Summary      Registrar salida
// @Description  Falla con INSUFFICIENT_STOCK si cantidad supera el stock actual.
// @Tags         movimientos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "producto_id, cantidad"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /movimientos/salida [post]
func (h *InventoryHandler) Outbound(c *fiber.Ctx) error {
	in, ok, err := h.parse(c)
	if !ok {
		return err
	}
	out, err := h.uc.RecordOutbound(c.Context(), in.ProductID, in.Quantity)
	if err != nil {
		return respondError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// parse lee el body; si ok es false la respuesta de error ya está escrita.
// La cantidad la valida el caso de uso: una salida busca el producto antes de mirarla.
func (h *InventoryHandler) parse(c *fiber.Ctx) (dto.MovementRequest, bool, error) {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return in, false, badBody(c, err)
	}
	if in.ProductID <= 0 {
		return in, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    CodeValidation,
			Message: "producto_id es obligatorio",
		})
	}
	return in, true, nil
}
