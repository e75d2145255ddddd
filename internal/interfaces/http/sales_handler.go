package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/irshados/backoffice/internal/application/dto"
	"github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// InvoicePDFGenerator puerto del generador de PDF de factura.
type InvoicePDFGenerator interface {
	Generate(ctx context.Context, t *entity.Tenant, doc *sales.InvoiceDocument) ([]byte, error)
}

// InvoiceXMLExporter puerto del exportador XML de factura.
type InvoiceXMLExporter interface {
	Export(t *entity.Tenant, doc *sales.InvoiceDocument) ([]byte, error)
}

// SalesHandler maneja el ciclo de vida documental de ventas (protegido).
type SalesHandler struct {
	uc         *sales.UseCase
	tenantRepo repository.TenantRepository
	pdfGen     InvoicePDFGenerator
	xmlExport  InvoiceXMLExporter
}

// NewSalesHandler construye el handler.
func NewSalesHandler(uc *sales.UseCase, tenantRepo repository.TenantRepository, pdfGen InvoicePDFGenerator, xmlExport InvoiceXMLExporter) *SalesHandler {
	return &SalesHandler{uc: uc, tenantRepo: tenantRepo, pdfGen: pdfGen, xmlExport: xmlExport}
}

// CreateOrder godoc
// @Summary      Crear orden de venta
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSalesOrderRequest  true  "number, customer_id, lines"
// @Success      201   {object}  map[string]string
// @Router       /api/sales/orders [post]
func (h *SalesHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateSalesOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateOrderInput{
		Number:     in.Number,
		CustomerID: in.CustomerID,
		Notes:      in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.OrderLineInput{
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

// CreateDelivery godoc
// @Summary      Crear remisión en borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDeliveryRequest  true  "order_id, warehouse_id, number, lines"
// @Success      201   {object}  map[string]string
// @Router       /api/sales/deliveries [post]
func (h *SalesHandler) CreateDelivery(c *fiber.Ctx) error {
	var in dto.CreateDeliveryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateDeliveryInput{
		OrderID:     in.OrderID,
		WarehouseID: in.WarehouseID,
		Number:      in.Number,
		Notes:       in.Notes,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.DeliveryLineInput{
			OrderLineID: l.OrderLineID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
		})
	}
	delivery, err := h.uc.CreateDelivery(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": delivery.ID, "number": delivery.Number, "status": delivery.Status})
}

// PostDelivery godoc
// @Summary      Asentar remisión (mueve stock al costo promedio)
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Remisión"
// @Success      200  {object}  map[string]string
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/deliveries/{id}/post [post]
func (h *SalesHandler) PostDelivery(c *fiber.Ctx) error {
	delivery, err := h.uc.PostDelivery(c.UserContext(), c.Params("id"), GetUserID(c))
	if err != nil {
		return respondError(c, err)
	}
	out := fiber.Map{"id": delivery.ID, "status": delivery.Status}
	if delivery.StockMovementID != nil {
		out["stock_movement_id"] = *delivery.StockMovementID
	}
	return c.JSON(out)
}

// CreateInvoice godoc
// @Summary      Crear factura de venta en borrador
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "order_id, number, lines"
// @Success      201   {object}  map[string]string
// @Router       /api/sales/invoices [post]
func (h *SalesHandler) CreateInvoice(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := sales.CreateInvoiceInput{
		OrderID: in.OrderID,
		Number:  in.Number,
		DueDate: in.DueDate,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, sales.InvoiceLineInput{
			OrderLineID: l.OrderLineID,
			VariantID:   l.VariantID,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			TaxRate:     l.TaxRate,
		})
	}
	invoice, err := h.uc.CreateInvoice(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": invoice.ID, "number": invoice.Number, "status": invoice.Status})
}

// PostInvoice godoc
// @Summary      Asentar factura de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Factura"
// @Success      200  {object}  map[string]string
// @Router       /api/sales/invoices/{id}/post [post]
func (h *SalesHandler) PostInvoice(c *fiber.Ctx) error {
	invoice, err := h.uc.PostInvoice(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id": invoice.ID, "status": invoice.Status,
		"subtotal": invoice.Subtotal, "tax_amount": invoice.TaxAmount, "total_amount": invoice.TotalAmount,
	})
}

// CreatePayment godoc
// @Summary      Registrar cobro de cliente
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "Factura"
// @Param        body  body  dto.CreatePaymentRequest  true  "amount, method"
// @Success      201   {object}  map[string]string
// @Router       /api/sales/invoices/{id}/payments [post]
func (h *SalesHandler) CreatePayment(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	payment, err := h.uc.CreatePayment(c.UserContext(), sales.CreatePaymentInput{
		InvoiceID: c.Params("id"),
		Amount:    in.Amount,
		Method:    in.Method,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": payment.ID, "status": payment.Status})
}

// RegisterRefund godoc
// @Summary      Registrar devolución sobre factura pagada
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "Factura"
// @Param        body  body  dto.CreateRefundRequest  true  "amount, reason"
// @Success      201   {object}  map[string]string
// @Router       /api/sales/invoices/{id}/refunds [post]
func (h *SalesHandler) RegisterRefund(c *fiber.Ctx) error {
	var in dto.CreateRefundRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	refund, err := h.uc.RegisterRefund(c.UserContext(), &entity.SalesRefund{
		ID:        uuid.New().String(),
		InvoiceID: c.Params("id"),
		Amount:    in.Amount,
		Reason:    in.Reason,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": refund.ID, "amount": refund.Amount})
}

// CancelOrder godoc
// @Summary      Cancelar orden de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  map[string]string
// @Router       /api/sales/orders/{id}/cancel [post]
func (h *SalesHandler) CancelOrder(c *fiber.Ctx) error {
	order, err := h.uc.CancelOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": order.ID, "status": order.Status})
}

// CloseOrder godoc
// @Summary      Cerrar orden de venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Orden"
// @Success      200  {object}  map[string]string
// @Router       /api/sales/orders/{id}/close [post]
func (h *SalesHandler) CloseOrder(c *fiber.Ctx) error {
	order, err := h.uc.CloseOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"id": order.ID, "status": order.Status})
}

// ExportInvoicePDF godoc
// @Summary      Descargar PDF de una factura
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "Factura"
// @Success      200  {file}  file
// @Router       /api/sales/invoices/{id}/pdf [get]
func (h *SalesHandler) ExportInvoicePDF(c *fiber.Ctx) error {
	t, doc, err := h.invoiceDocument(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.pdfGen.Generate(c.UserContext(), t, doc)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factura-`+doc.Invoice.Number+`.pdf"`)
	return c.Send(out)
}

// ExportInvoiceXML godoc
// @Summary      Descargar XML de una factura
// @Tags         sales
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "Factura"
// @Success      200  {file}  file
// @Router       /api/sales/invoices/{id}/xml [get]
func (h *SalesHandler) ExportInvoiceXML(c *fiber.Ctx) error {
	t, doc, err := h.invoiceDocument(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.xmlExport.Export(t, doc)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXML)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="factura-`+doc.Invoice.Number+`.xml"`)
	return c.Send(out)
}

func (h *SalesHandler) invoiceDocument(c *fiber.Ctx) (*entity.Tenant, *sales.InvoiceDocument, error) {
	doc, err := h.uc.InvoiceDocument(c.UserContext(), c.Params("id"))
	if err != nil {
		return nil, nil, err
	}
	t, err := h.tenantRepo.GetByID(c.UserContext(), GetTenantID(c))
	if err != nil {
		return nil, nil, err
	}
	if t == nil {
		return nil, nil, domain.ErrNotFound
	}
	return t, doc, nil
}
