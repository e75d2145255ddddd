package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/dto"
	"github.com/irshados/backoffice/internal/application/restaurant"
)

// RestaurantHandler maneja comandas de cocina (protegido).
type RestaurantHandler struct {
	uc *restaurant.UseCase
}

// NewRestaurantHandler construye el handler.
func NewRestaurantHandler(uc *restaurant.UseCase) *RestaurantHandler {
	return &RestaurantHandler{uc: uc}
}

// CreateTicket godoc
// @Summary      Crear comanda de cocina (consume insumos por receta)
// @Tags         restaurant
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTicketRequest  true  "reference, lines"
// @Success      201   {object}  map[string]string
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/restaurant/tickets [post]
func (h *RestaurantHandler) CreateTicket(c *fiber.Ctx) error {
	var in dto.CreateTicketRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	input := restaurant.CreateTicketInput{
		Reference:   in.Reference,
		Notes:       in.Notes,
		PerformedBy: GetUserID(c),
	}
	for _, l := range in.Lines {
		input.Lines = append(input.Lines, restaurant.TicketLineInput{
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Notes:      l.Notes,
		})
	}
	ticket, err := h.uc.CreateTicket(c.UserContext(), input)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": ticket.ID, "reference": ticket.Reference, "status": ticket.Status})
}

// GetTicket godoc
// @Summary      Consultar comanda
// @Tags         restaurant
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "Comanda"
// @Success      200  {object}  map[string]any
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/restaurant/tickets/{id} [get]
func (h *RestaurantHandler) GetTicket(c *fiber.Ctx) error {
	ticket, err := h.uc.GetTicket(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"id": ticket.ID, "reference": ticket.Reference, "status": ticket.Status,
		"notes": ticket.Notes, "created_at": ticket.CreatedAt,
	})
}
