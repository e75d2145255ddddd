package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/dto"
	"github.com/irshados/backoffice/internal/application/inventory"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// InventoryHandler maneja movimientos, saldos y libro mayor (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// RecordMovement godoc
// @Summary      Registrar movimiento de inventario
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RecordMovementRequest  true  "movement_type, lines (quantity con signo, unit_cost en entradas)"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *fiber.Ctx) error {
	var in dto.RecordMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := inventory.MovementInput{
		MovementType:    in.MovementType,
		ReferenceNumber: in.ReferenceNumber,
		Description:     in.Description,
		PerformedBy:     GetUserID(c),
		Metadata:        in.Metadata,
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, inventory.MovementLineInput{
			VariantID:     l.VariantID,
			WarehouseID:   l.WarehouseID,
			Quantity:      l.Quantity,
			UnitCost:      l.UnitCost,
			ReferenceType: l.ReferenceType,
			ReferenceID:   l.ReferenceID,
			Note:          l.Note,
			Metadata:      l.Metadata,
		})
	}
	movement, err := h.uc.RecordMovement(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToMovementResponse(movement))
}

// ListBalances godoc
// @Summary      Listar saldos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  false  "Filtrar por variante"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Success      200  {array}   dto.BalanceResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) ListBalances(c *fiber.Ctx) error {
	filter := repository.BalanceFilter{
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       c.QueryInt("limit", 100),
		Offset:      c.QueryInt("offset", 0),
	}
	balances, err := h.uc.Balances(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.BalanceResponse, 0, len(balances))
	for _, b := range balances {
		out = append(out, dto.ToBalanceResponse(b))
	}
	return c.JSON(out)
}

// GetBalance godoc
// @Summary      Saldo de una variante en una bodega
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id    path  string  true  "Variante"
// @Param        warehouse_id  path  string  true  "Bodega"
// @Success      200  {object}  dto.BalanceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances/{variant_id}/{warehouse_id} [get]
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	balance, err := h.uc.Balance(c.UserContext(), c.Params("variant_id"), c.Params("warehouse_id"))
	if err != nil {
		return respondError(c, err)
	}
	if balance == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "sin movimientos para esa variante y bodega"})
	}
	return c.JSON(dto.ToBalanceResponse(balance))
}

// ListLedger godoc
// @Summary      Consultar el libro mayor de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        variant_id    query  string  false  "Filtrar por variante"
// @Param        warehouse_id  query  string  false  "Filtrar por bodega"
// @Param        from          query  string  false  "Desde (RFC3339)"
// @Param        to            query  string  false  "Hasta (RFC3339)"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Router       /api/inventory/ledger [get]
func (h *InventoryHandler) ListLedger(c *fiber.Ctx) error {
	filter := repository.LedgerFilter{
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       c.QueryInt("limit", 100),
		Offset:      c.QueryInt("offset", 0),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}
	entries, err := h.uc.LedgerEntries(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.ToLedgerEntryResponse(e))
	}
	return c.JSON(out)
}

// ListMovements godoc
// @Summary      Listar movimientos de inventario
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	filter := repository.MovementFilter{
		VariantID:   c.Query("variant_id"),
		WarehouseID: c.Query("warehouse_id"),
		Limit:       c.QueryInt("limit", 100),
		Offset:      c.QueryInt("offset", 0),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filter.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filter.To = &to
	}
	movements, err := h.uc.Movements(c.UserContext(), filter)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		out = append(out, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}
