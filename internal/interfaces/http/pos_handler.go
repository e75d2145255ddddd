package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/dto"
	"github.com/irshados/backoffice/internal/application/pos"
	"github.com/irshados/backoffice/internal/domain/entity"
)

// POSHandler maneja turnos de caja y ventas de mostrador (protegido).
type POSHandler struct {
	uc *pos.UseCase
}

// NewPOSHandler construye el handler.
func NewPOSHandler(uc *pos.UseCase) *POSHandler {
	return &POSHandler{uc: uc}
}

// OpenShift godoc
// @Summary      Abrir turno de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenShiftRequest  true  "opening_float"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/pos/shifts [post]
func (h *POSHandler) OpenShift(c *fiber.Ctx) error {
	var in dto.OpenShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.OpenShift(c.UserContext(), GetUserID(c), in.OpeningFloat)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": shift.ID, "status": shift.Status, "opening_float": shift.OpeningFloat})
}

// CloseShift godoc
// @Summary      Cerrar turno de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Turno"
// @Param        body  body  dto.CloseShiftRequest true  "closing_float"
// @Success      200   {object}  map[string]string
// @Router       /api/pos/shifts/{id}/close [post]
func (h *POSHandler) CloseShift(c *fiber.Ctx) error {
	var in dto.CloseShiftRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	shift, err := h.uc.CloseShift(c.UserContext(), c.Params("id"), GetUserID(c), in.ClosingFloat)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": shift.ID, "status": shift.Status, "closing_float": shift.ClosingFloat})
}

// CreateSale godoc
// @Summary      Crear venta de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePOSSaleRequest  true  "shift_id, warehouse_id, items"
// @Success      201   {object}  map[string]any
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pos/sales [post]
func (h *POSHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreatePOSSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := pos.CreateSaleInput{
		ShiftID:     in.ShiftID,
		WarehouseID: in.WarehouseID,
		Reference:   in.Reference,
		Metadata:    in.Metadata,
	}
	for _, it := range in.Items {
		input.Items = append(input.Items, pos.SaleItemInput{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Discount:  it.Discount,
			TaxRate:   it.TaxRate,
		})
	}
	sale, err := h.uc.CreateSale(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(saleMap(sale))
}

// RegisterPayment godoc
// @Summary      Registrar pago sobre una venta de caja
// @Tags         pos
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Venta"
// @Param        body  body  dto.POSPaymentRequest  true  "amount, method"
// @Success      200   {object}  map[string]any
// @Router       /api/pos/sales/{id}/payments [post]
func (h *POSHandler) RegisterPayment(c *fiber.Ctx) error {
	var in dto.POSPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	sale, err := h.uc.RegisterPayment(c.UserContext(), c.Params("id"), in.Amount, in.Method)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saleMap(sale))
}

// FinalizeSale godoc
// @Summary      Finalizar venta de caja (descuenta inventario)
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Venta"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id}/finalize [post]
func (h *POSHandler) FinalizeSale(c *fiber.Ctx) error {
	sale, err := h.uc.FinalizeSale(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := saleMap(sale)
	if sale.StockMovementID != nil {
		out["stock_movement_id"] = *sale.StockMovementID
	}
	return c.JSON(out)
}

// CancelSale godoc
// @Summary      Anular venta de caja abierta
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Venta"
// @Success      200  {object}  map[string]any
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pos/sales/{id}/cancel [post]
func (h *POSHandler) CancelSale(c *fiber.Ctx) error {
	sale, err := h.uc.CancelSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saleMap(sale))
}

// RecalculateSale godoc
// @Summary      Recalcular totales de una venta de caja
// @Tags         pos
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Venta"
// @Success      200  {object}  map[string]any
// @Router       /api/pos/sales/{id}/recalculate [post]
func (h *POSHandler) RecalculateSale(c *fiber.Ctx) error {
	sale, err := h.uc.RecalculateSaleTotals(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(saleMap(sale))
}

func saleMap(sale *entity.POSSale) fiber.Map {
	return fiber.Map{
		"id":           sale.ID,
		"status":       sale.Status,
		"subtotal":     sale.Subtotal,
		"tax_amount":   sale.TaxAmount,
		"total_amount": sale.TotalAmount,
		"paid_amount":  sale.PaidAmount,
		"change_due":   sale.ChangeDue,
	}
}
