package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/cash"
	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/pkg/validator"
)

// CashHandler maneja las peticiones HTTP para la caja (protegido).
type CashHandler struct {
	uc *cash.LedgerUseCase
}

// NewCashHandler construye el handler.
func NewCashHandler(uc *cash.LedgerUseCase) *CashHandler {
	return &CashHandler{uc: uc}
}

// Create godoc
// @Summary      Registrar movimiento manual de caja (fecha pasada recalcula saldos)
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCashMovementRequest  true  "Tipo, monto, categoría, fecha"
// @Success      201   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cash/movements [post]
func (h *CashHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	m, err := h.uc.Append(c.Context(), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromCashMovement(m))
}

// List godoc
// @Summary      Listar movimientos de caja en orden cronológico
// @Tags         cash
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Fecha inicial (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Fecha final"
// @Success      200     {array}  dto.CashMovementResponse
// @Router       /api/cash/movements [get]
func (h *CashHandler) List(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida"})
	}
	page := pageFromQuery(c)
	list, err := h.uc.List(from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.CashMovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, dto.FromCashMovement(m))
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Editar movimiento manual (los generados por documentos no se tocan)
// @Tags         cash
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del movimiento"
// @Param        body  body  dto.UpdateCashMovementRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.CashMovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/cash/movements/{id} [put]
func (h *CashHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	m, err := h.uc.Update(c.Context(), c.Params("id"), in, GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromCashMovement(m))
}

// Delete godoc
// @Summary      Borrar movimiento manual (recalcula los saldos posteriores)
// @Tags         cash
// @Security     Bearer
// @Param        id   path  string  true  "ID del movimiento"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash/movements/{id} [delete]
func (h *CashHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// parseDateQuery lee un parámetro de fecha opcional (RFC3339 o YYYY-MM-DD).
func parseDateQuery(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
