package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comercio-api/internal/application/dto"
	"github.com/jhoicas/comercio-api/internal/application/inventory"
	"github.com/jhoicas/comercio-api/internal/domain/entity"
)

// InventoryHandler consultas de lotes y movimientos de stock (protegido).
type InventoryHandler struct {
	uc *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ListLots godoc
// @Summary      Listar lotes de un producto en orden FIFO
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true  "ID del producto"
// @Success      200  {array}  dto.StockLotResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [get]
func (h *InventoryHandler) ListLots(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	lots, err := h.uc.ListLotsByProduct(productID)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.StockLotResponse, 0, len(lots))
	for _, l := range lots {
		out = append(out, dto.FromStockLot(l))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos de stock (auditoría)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  false  "Filtrar por producto"
// @Param        from        query  string  false  "Fecha inicial"
// @Param        to          query  string  false  "Fecha final"
// @Success      200  {array}  dto.StockMovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	from, err := parseDateQuery(c, "from")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from: fecha inválida"})
	}
	to, err := parseDateQuery(c, "to")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to: fecha inválida"})
	}
	page := pageFromQuery(c)

	if productID := c.Query("product_id"); productID != "" {
		ms, err := h.uc.ListMovementsByProduct(productID, from, to, page.Limit, page.Offset)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(toMovementResponses(ms))
	}
	ms, err := h.uc.ListMovements(from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResponses(ms))
}

func toMovementResponses(ms []*entity.StockMovement) []dto.StockMovementResponse {
	out := make([]dto.StockMovementResponse, 0, len(ms))
	for _, m := range ms {
		out = append(out, dto.FromStockMovement(m))
	}
	return out
}
