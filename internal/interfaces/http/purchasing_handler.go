package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/dto"
	"github.com/irshados/backoffice/internal/application/purchasing"
)

// PurchasingHandler maneja el ciclo de vida documental de compras (protegido).
type PurchasingHandler struct {
	uc *purchasing.UseCase
}

// NewPurchasingHandler construye el handler.
func NewPurchasingHandler(uc *purchasing.UseCase) *PurchasingHandler {
	return &PurchasingHandler{uc: uc}
}

// CreateOrder godoc
// @Summary      Crear orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseOrderRequest  true  "number, supplier_id, lines"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/purchasing/orders [post]
func (h *PurchasingHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreatePurchaseOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := purchasing.CreateOrderInput{
		Number:     in.Number,
		SupplierID: in.SupplierID,
		Notes:      in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.OrderLineInput{
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			TaxRate:   l.TaxRate,
		})
	}
	order, err := h.uc.CreateOrder(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": order.ID, "number": order.Number, "status": order.Status})
}

// CreateReceipt godoc
// @Summary      Crear recepción en borrador
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReceiptRequest  true  "order_id, warehouse_id, number, lines"
// @Success      201   {object}  map[string]string
// @Router       /api/purchasing/receipts [post]
func (h *PurchasingHandler) CreateReceipt(c *fiber.Ctx) error {
	var in dto.CreateReceiptRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := purchasing.CreateReceiptInput{
		OrderID:     in.OrderID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Notes:       in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.ReceiptLineInput{
			OrderLineID: l.OrderLineID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
		})
	}
	receipt, err := h.uc.CreateReceipt(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": receipt.ID, "number": receipt.Number, "status": receipt.Status})
}

// PostReceipt godoc
// @Summary      Asentar recepción (mueve stock)
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Recepción"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchasing/receipts/{id}/post [post]
func (h *PurchasingHandler) PostReceipt(c *fiber.Ctx) error {
	receipt, err := h.uc.PostReceipt(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := fiber.Map{"id": receipt.ID, "status": receipt.Status}
	if receipt.StockMovementID != nil {
		out["stock_movement_id"] = *receipt.StockMovementID
	}
	return c.JSON(out)
}

// CreateBill godoc
// @Summary      Crear factura de proveedor en borrador
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBillRequest  true  "order_id, number, lines"
// @Success      201   {object}  map[string]string
// @Router       /api/purchasing/bills [post]
func (h *PurchasingHandler) CreateBill(c *fiber.Ctx) error {
	var in dto.CreateBillRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := purchasing.CreateBillInput{
		OrderID: in.OrderID,
		Number:  in.Number,
		DueDate: in.DueDate,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, purchasing.BillLineInput{
			OrderLineID: l.OrderLineID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		})
	}
	bill, err := h.uc.CreateBill(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": bill.ID, "number": bill.Number, "status": bill.Status})
}

// PostBill godoc
// @Summary      Asentar factura de proveedor
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Factura"
// @Success      200  {object}  map[string]string
// @Router       /api/purchasing/bills/{id}/post [post]
func (h *PurchasingHandler) PostBill(c *fiber.Ctx) error {
	bill, err := h.uc.PostBill(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id": bill.ID, "status": bill.Status,
		"subtotal": bill.Subtotal, "tax_amount": bill.TaxAmount, "total_amount": bill.TotalAmount,
	})
}

// CreatePayment godoc
// @Summary      Registrar pago de proveedor
// @Tags         purchasing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Factura"
// @Param        body  body  dto.CreatePaymentRequest  true  "amount, method"
// @Success      201   {object}  map[string]string
// @Router       /api/purchasing/bills/{id}/payments [post]
func (h *PurchasingHandler) CreatePayment(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.CreatePayment(c.UserContext(), purchasing.CreatePaymentInput{
		BillID: c.Params("id"),
		Amount: in.Amount,
		Method: in.Method,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": payment.ID, "status": payment.Status})
}

// CancelOrder godoc
// @Summary      Cancelar orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  map[string]string
// @Router       /api/purchasing/orders/{id}/cancel [post]
func (h *PurchasingHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.uc.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": order.ID, "status": order.Status})
}

// CloseOrder godoc
// @Summary      Cerrar orden de compra
// @Tags         purchasing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  map[string]string
// @Router       /api/purchasing/orders/{id}/close [post]
func (h *PurchasingHandler) CloseOrder(c *fiber.Ctx) error {
	order, err := h.uc.CloseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": order.ID, "status": order.Status})
}
