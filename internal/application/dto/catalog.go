package dto

import "github.com/shopspring/decimal"

// CreateTenantRequest payload para registrar un negocio.
type CreateTenantRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CreateVariantRequest payload para crear una variante de producto.
type CreateVariantRequest struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	UnitName string          `json:"unit_name,omitempty"`
	Price    decimal.Decimal `json:"price"`
	TaxRate  decimal.Decimal `json:"tax_rate"`
}

// CreateWarehouseRequest payload para crear una bodega.
type CreateWarehouseRequest struct {
	Name      string `json:"name"`
	Code      string `json:"code,omitempty"`
	Address   string `json:"address,omitempty"`
	IsDefault bool   `json:"is_default"`
}
