// Package xmlexport serializa facturas de venta a un XML plano para
// integraciones contables externas.
package xmlexport

import (
	"fmt"

	"github.com/beevik/etree"

	appsales "github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/domain/entity"
)

// InvoiceXMLExporter serializa facturas con etree.
type InvoiceXMLExporter struct{}

// NewInvoiceXMLExporter construye el exportador.
func NewInvoiceXMLExporter() *InvoiceXMLExporter { return &InvoiceXMLExporter{} }

// Export serializa la factura a XML indentado y devuelve sus bytes.
func (e *InvoiceXMLExporter) Export(t *entity.Tenant, doc *appsales.InvoiceDocument) ([]byte, error) {
	xml := etree.NewDocument()
	xml.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := xml.CreateElement("Invoice")
	root.CreateAttr("id", doc.Invoice.ID)

	seller := root.CreateElement("Seller")
	seller.CreateElement("Name").SetText(t.Name)
	seller.CreateElement("Slug").SetText(t.Slug)

	header := root.CreateElement("Header")
	header.CreateElement("Number").SetText(doc.Invoice.Number)
	header.CreateElement("Status").SetText(doc.Invoice.Status)
	header.CreateElement("IssuedAt").SetText(doc.Invoice.CreatedAt.Format("2006-01-02"))
	if doc.Order != nil {
		header.CreateElement("OrderNumber").SetText(doc.Order.Number)
	}
	if doc.Invoice.DueDate != nil {
		header.CreateElement("DueDate").SetText(doc.Invoice.DueDate.Format("2006-01-02"))
	}

	lines := root.CreateElement("Lines")
	for i, dl := range doc.Lines {
		l := dl.Line
		lineEl := lines.CreateElement("Line")
		lineEl.CreateAttr("number", fmt.Sprintf("%d", i+1))
		lineEl.CreateElement("SKU").SetText(dl.SKU)
		lineEl.CreateElement("Description").SetText(dl.VariantName)
		lineEl.CreateElement("Quantity").SetText(l.Quantity.String())
		if dl.UnitName != "" {
			lineEl.CreateElement("Unit").SetText(dl.UnitName)
		}
		lineEl.CreateElement("UnitPrice").SetText(l.UnitPrice.StringFixed(4))
		lineEl.CreateElement("TaxRate").SetText(l.TaxRate.String())
		lineEl.CreateElement("LineTotal").SetText(l.Quantity.Mul(l.UnitPrice).StringFixed(4))
	}

	totals := root.CreateElement("Totals")
	totals.CreateElement("Subtotal").SetText(doc.Invoice.Subtotal.StringFixed(4))
	totals.CreateElement("TaxAmount").SetText(doc.Invoice.TaxAmount.StringFixed(4))
	totals.CreateElement("TotalAmount").SetText(doc.Invoice.TotalAmount.StringFixed(4))

	xml.Indent(2)
	out, err := xml.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("xml: serializar factura: %w", err)
	}
	return out, nil
}
