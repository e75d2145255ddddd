package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/irshados/backoffice/internal/application/catalog"
	"github.com/irshados/backoffice/internal/application/dto"
)

// CatalogHandler maneja tenants, variantes y bodegas.
type CatalogHandler struct {
	uc *catalog.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.UseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// CreateTenant godoc
// @Summary      Registrar negocio
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTenantRequest  true  "name, slug"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/tenants [post]
func (h *CatalogHandler) CreateTenant(c *fiber.Ctx) error {
	var in dto.CreateTenantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.uc.CreateTenant(c.UserContext(), in.Name, in.Slug)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": t.ID, "name": t.Name, "slug": t.Slug})
}

// CreateVariant godoc
// @Summary      Crear variante de producto
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateVariantRequest  true  "sku, name, unit_name, price, tax_rate"
// @Success      201   {object}  map[string]string
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/variants [post]
func (h *CatalogHandler) CreateVariant(c *fiber.Ctx) error {
	var in dto.CreateVariantRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	v, err := h.uc.CreateVariant(c.UserContext(), catalog.CreateVariantInput{
		SKU:      in.SKU,
		Name:     in.Name,
		UnitName: in.UnitName,
		Price:    in.Price,
		TaxRate:  in.TaxRate,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": v.ID, "sku": v.SKU, "name": v.Name})
}

// ListVariants godoc
// @Summary      Listar variantes
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]any
// @Router       /api/variants [get]
func (h *CatalogHandler) ListVariants(c *fiber.Ctx) error {
	list, err := h.uc.ListVariants(c.UserContext(), c.QueryInt("limit", 100), c.QueryInt("offset", 0))
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, v := range list {
		out = append(out, fiber.Map{
			"id": v.ID, "sku": v.SKU, "name": v.Name, "unit_name": v.UnitName,
			"price": v.Price, "tax_rate": v.TaxRate, "is_active": v.IsActive,
		})
	}
	return c.JSON(out)
}

// CreateWarehouse godoc
// @Summary      Crear bodega
// @Tags         catalog
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateWarehouseRequest  true  "name, code, address, is_default"
// @Success      201   {object}  map[string]string
// @Router       /api/warehouses [post]
func (h *CatalogHandler) CreateWarehouse(c *fiber.Ctx) error {
	var in dto.CreateWarehouseRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	w, err := h.uc.CreateWarehouse(c.UserContext(), catalog.CreateWarehouseInput{
		Name:      in.Name,
		Code:      in.Code,
		Address:   in.Address,
		IsDefault: in.IsDefault,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": w.ID, "name": w.Name, "code": w.Code})
}

// ListWarehouses godoc
// @Summary      Listar bodegas
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  map[string]any
// @Router       /api/warehouses [get]
func (h *CatalogHandler) ListWarehouses(c *fiber.Ctx) error {
	list, err := h.uc.ListWarehouses(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	out := make([]fiber.Map, 0, len(list))
	for _, w := range list {
		out = append(out, fiber.Map{
			"id": w.ID, "name": w.Name, "code": w.Code,
			"address": w.Address, "is_default": w.IsDefault,
		})
	}
	return c.JSON(out)
}
