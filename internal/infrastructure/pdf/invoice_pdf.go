// Package pdf implementa la representación gráfica de una factura de venta.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Negocio  │  N° Factura + Fecha                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Descripción | P.Unit | IVA | Subtotal         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Impuestos / TOTAL                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appsales "github.com/irshados/backoffice/internal/application/sales"
	"github.com/irshados/backoffice/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// InvoicePDFGenerator genera la representación PDF de una factura usando Maroto v2.
type InvoicePDFGenerator struct{}

// NewInvoicePDFGenerator construye el generador.
func NewInvoicePDFGenerator() *InvoicePDFGenerator { return &InvoicePDFGenerator{} }

// Generate genera el PDF de la factura y devuelve sus bytes.
func (g *InvoicePDFGenerator) Generate(_ context.Context, t *entity.Tenant, doc *appsales.InvoiceDocument) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Factura de venta", true).
		WithAuthor(t.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(t, doc.Invoice))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, dl := range doc.Lines {
		m.AddRows(detailRow(dl))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(doc.Invoice))

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return out.GetBytes(), nil
}

// headerRow: nombre del negocio (izq) y número + fecha de la factura (der).
func headerRow(t *entity.Tenant, invoice *entity.SalesInvoice) core.Row {
	fecha := invoice.CreatedAt.Format("02/01/2006")
	return row.New(18).Add(
		col.New(7).Add(
			text.New(t.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("FACTURA DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(invoice.Number, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	header := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1, Align: align.Right}
	return row.New(6).Add(
		col.New(2).Add(text.New("Cantidad", header)),
		col.New(5).Add(text.New("Descripción", header)),
		col.New(2).Add(text.New("P. Unitario", headerRight)),
		col.New(1).Add(text.New("IVA %", headerRight)),
		col.New(2).Add(text.New("Subtotal", headerRight)),
	)
}

func detailRow(dl appsales.InvoiceDocumentLine) core.Row {
	l := dl.Line
	desc := dl.VariantName
	if dl.SKU != "" {
		desc = fmt.Sprintf("%s (%s)", dl.VariantName, dl.SKU)
	}
	cantidad := l.Quantity.String()
	if dl.UnitName != "" {
		cantidad = fmt.Sprintf("%s %s", l.Quantity, dl.UnitName)
	}
	subtotal := l.Quantity.Mul(l.UnitPrice)
	body := props.Text{Size: 8, Top: 1}
	bodyRight := props.Text{Size: 8, Top: 1, Align: align.Right}
	return row.New(5).Add(
		col.New(2).Add(text.New(cantidad, body)),
		col.New(5).Add(text.New(desc, body)),
		col.New(2).Add(text.New(money(l.UnitPrice), bodyRight)),
		col.New(1).Add(text.New(l.TaxRate.String(), bodyRight)),
		col.New(2).Add(text.New(money(subtotal), bodyRight)),
	)
}

func totalsRow(invoice *entity.SalesInvoice) core.Row {
	label := props.Text{Size: 9, Align: align.Right, Color: colorGray}
	value := props.Text{Size: 9, Align: align.Right}
	totalLabel := props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 10}
	totalValue := props.Text{Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 10}
	return row.New(18).Add(
		col.New(8).Add(
			text.New("Subtotal:", label),
			text.New("Impuestos:", props.Text{Size: 9, Align: align.Right, Color: colorGray, Top: 5}),
			text.New("TOTAL A PAGAR:", totalLabel),
		),
		col.New(4).Add(
			text.New(money(invoice.Subtotal), value),
			text.New(money(invoice.TaxAmount), props.Text{Size: 9, Align: align.Right, Top: 5}),
			text.New(money(invoice.TotalAmount), totalValue),
		),
	)
}

func money(d decimal.Decimal) string {
	return "$ " + d.StringFixed(2)
}
