// Package pdf genera el reporte imprimible del libro de movimientos de stock.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + filtros     │  Fecha de generación         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Producto | Variación | Tipo | Cant | Usuario │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / Neto                          │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"time"

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

	"github.com/jhoicas/Produccion-api/internal/application/inventory"
	"github.com/jhoicas/Produccion-api/internal/domain/entity"
)

var _ inventory.MovementReportGenerator = (*MarotoReportGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorOut     = &props.Color{Red: 160, Green: 30, Blue: 30}
	colorIn      = &props.Color{Red: 20, Green: 110, Blue: 50}
)

const dateLayout = "02/01/2006 15:04"

// MarotoReportGenerator implementa inventory.MovementReportGenerator con Maroto v2.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

// GenerateMovementReport genera el PDF y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateMovementReport(_ context.Context, report inventory.MovementReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 8}).
		WithTitle(report.Title, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(tableHeaderRow())
	m.AddRows(tableRows(report.Movements)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar reporte: %w", err)
	}
	return doc.GetBytes(), nil
}

func headerRow(report inventory.MovementReport) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(report.Title, props.Text{
				Style: fontstyle.Bold, Size: 12, Color: colorPrimary, Top: 1,
			}),
			text.New(filterLabel(report), props.Text{
				Size: 8, Top: 8, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+report.GeneratedAt.Format(dateLayout), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New(fmt.Sprintf("%d movimientos", len(report.Movements)), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func filterLabel(report inventory.MovementReport) string {
	product := "todos los productos"
	if report.ProductID != "" {
		product = "producto " + report.ProductID
	}
	return fmt.Sprintf("%s | desde %s | hasta %s", product, dateOrDash(report.From), dateOrDash(report.To))
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 1,
		}))
	}
	return row.New(7).Add(
		h("Fecha", 2, align.Left),
		h("Producto", 2, align.Left),
		h("Variación", 2, align.Left),
		h("Tipo", 1, align.Center),
		h("Cantidad", 2, align.Right),
		h("Usuario", 3, align.Left),
	)
}

func tableRows(movements []*entity.StockMovement) []core.Row {
	rows := make([]core.Row, 0, len(movements))
	for _, mv := range movements {
		typeColor := colorIn
		if mv.Type == entity.MovementTypeOut {
			typeColor = colorOut
		}
		user := mv.UserEmail
		if user == "" {
			user = mv.User
		}
		rows = append(rows, row.New(6).Add(
			col.New(2).Add(text.New(mv.Timestamp.Format(dateLayout), props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(mv.ProductID, props.Text{Size: 7, Top: 1})),
			col.New(2).Add(text.New(mv.VariationID, props.Text{Size: 7, Top: 1})),
			col.New(1).Add(text.New(mv.Type, props.Text{Size: 7, Top: 1, Align: align.Center, Color: typeColor})),
			col.New(2).Add(text.New(formatQty(mv.Quantity), props.Text{Size: 7, Top: 1, Align: align.Right})),
			col.New(3).Add(text.New(user, props.Text{Size: 7, Top: 1})),
		))
	}
	return rows
}

func totalsRow(report inventory.MovementReport) core.Row {
	total := func(label string, v float64, c *props.Color) core.Col {
		return col.New(4).Add(text.New(label+": "+formatQty(v), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: c, Top: 2,
		}))
	}
	return row.New(10).Add(
		total("Entradas", report.TotalIn, colorIn),
		total("Salidas", report.TotalOut, colorOut),
		total("Neto", report.TotalIn-report.TotalOut, colorPrimary),
	)
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func dateOrDash(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format("02/01/2006")
}
