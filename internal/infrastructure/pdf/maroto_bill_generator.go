// Package pdf implementa la generación del recibo PDF de una venta.
//
// Layout de la página A5:
//
//	┌───────────────────────────────────────────┐
//	│  HEADER: Recibo de venta N° + Fecha       │
//	│  ───────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit          │
//	│  ───────────────────────────────────────  │
//	│  TOTALES: Unidades / TOTAL                │
//	└───────────────────────────────────────────┘
package pdf

import (
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

	"github.com/tu-usuario/pos-inventario/internal/application/billing"
	"github.com/tu-usuario/pos-inventario/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

var _ billing.BillPDFGenerator = (*MarotoBillGenerator)(nil)

// MarotoBillGenerator implementa billing.BillPDFGenerator usando Maroto v2.
type MarotoBillGenerator struct{}

// NewMarotoBillGenerator construye el generador.
func NewMarotoBillGenerator() *MarotoBillGenerator { return &MarotoBillGenerator{} }

// Generate genera el recibo PDF de la venta y devuelve sus bytes.
func (g *MarotoBillGenerator) Generate(bill *entity.Bill, lines []*entity.BillLineDetail) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A5).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(fmt.Sprintf("Recibo de venta %d", bill.ID), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(bill))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	for _, l := range lines {
		m.AddRows(lineRow(l))
	}
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(bill))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: número de venta (izq) y fecha (der).
func headerRow(bill *entity.Bill) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New("RECIBO DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("N° %d", bill.ID), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 8,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+bill.CreatedAt.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 10, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	return row.New(7).Add(
		col.New(2).Add(text.New("Cant", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(7).Add(text.New("Producto", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1})),
		col.New(3).Add(text.New("P. Unit", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1})),
	)
}

func lineRow(l *entity.BillLineDetail) core.Row {
	name := l.ProductName
	if name == "" {
		name = fmt.Sprintf("producto %d (eliminado)", l.ProductID)
	}
	return row.New(6).Add(
		col.New(2).Add(text.New(fmt.Sprintf("%d", l.Quantity), props.Text{Size: 8, Top: 1})),
		col.New(7).Add(text.New(name, props.Text{Size: 8, Top: 1})),
		col.New(3).Add(text.New(l.Price.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
	)
}

func totalsRow(bill *entity.Bill) core.Row {
	return row.New(12).Add(
		col.New(7).Add(
			text.New(fmt.Sprintf("Unidades: %d", bill.ItemsNum), props.Text{
				Size: 9, Top: 3, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("TOTAL: "+bill.Total.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 2, Color: colorPrimary,
			}),
		),
	)
}
