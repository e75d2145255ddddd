package sales

import (
	"context"

	"github.com/irshados/backoffice/internal/application/tenant"
	"github.com/irshados/backoffice/internal/domain"
	"github.com/irshados/backoffice/internal/domain/entity"
	"github.com/irshados/backoffice/internal/domain/repository"
)

// InvoiceDocument factura lista para exportar: cabecera, orden y líneas
// enriquecidas con los datos de catálogo que los exportadores necesitan.
type InvoiceDocument struct {
	Invoice *entity.SalesInvoice
	Order   *entity.SalesOrder
	Lines   []InvoiceDocumentLine
}

// InvoiceDocumentLine línea de factura con su variante resuelta.
type InvoiceDocumentLine struct {
	Line        *entity.SalesInvoiceLine
	SKU         string
	VariantName string
	UnitName    string
}

// InvoiceDocument arma la vista exportable de una factura (PDF/XML).
func (uc *UseCase) InvoiceDocument(ctx context.Context, invoiceID string) (*InvoiceDocument, error) {
	tenantID, err := tenant.MustCurrent(ctx)
	if err != nil {
		return nil, err
	}
	var doc InvoiceDocument
	err = uc.txRunner.Run(ctx, func(tx repository.Tx) error {
		invoice, err := tx.Sales.GetInvoice(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		if invoice == nil {
			return domain.ErrNotFound
		}
		order, err := tx.Sales.GetOrder(ctx, tenantID, invoice.OrderID)
		if err != nil {
			return err
		}
		lines, err := tx.Sales.InvoiceLines(ctx, tenantID, invoiceID)
		if err != nil {
			return err
		}
		doc.Invoice = invoice
		doc.Order = order
		for _, l := range lines {
			variant, err := tx.Variants.GetByID(ctx, tenantID, l.VariantID)
			if err != nil {
				return err
			}
			dl := InvoiceDocumentLine{Line: l}
			if variant != nil {
				dl.SKU = variant.SKU
				dl.VariantName = variant.Name
				dl.UnitName = variant.UnitName
			}
			doc.Lines = append(doc.Lines, dl)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}
