// Package pdf implementa la generación del comprobante de entrega de
// materiales en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + N° de lote     │  Fecha de entrega         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TÉCNICO: identificador del receptor                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Material | Unidad                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FIRMAS: entrega / recibe                                    │
//	└─────────────────────────────────────────────────────────────┘
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

	"github.com/jhoicas/Almacen-api/internal/application/issuance"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// Verificación en compilación de la interfaz.
var _ issuance.VoucherGenerator = (*MarotoVoucherGenerator)(nil)

// MarotoVoucherGenerator implementa issuance.VoucherGenerator usando Maroto v2.
type MarotoVoucherGenerator struct{}

// NewMarotoVoucherGenerator construye el generador.
func NewMarotoVoucherGenerator() *MarotoVoucherGenerator {
	return &MarotoVoucherGenerator{}
}

// GenerateVoucher genera el PDF del comprobante y devuelve sus bytes.
func (g *MarotoVoucherGenerator) GenerateVoucher(data issuance.VoucherData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de Entrega "+data.BatchName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(engineerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(data.Lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(data))
	m.AddRows(line.NewRow(10))
	m.AddRows(signatureRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título + nombre del lote (izq) y fecha (der).
func headerRow(data issuance.VoucherData) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("COMPROBANTE DE ENTREGA DE MATERIALES", props.Text{
				Style: fontstyle.Bold, Size: 11, Color: colorPrimary, Top: 1,
			}),
			text.New("Lote: "+data.BatchName, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("Fecha: "+data.IssuedAt, props.Text{
				Size: 9, Align: align.Right, Top: 1, Color: colorGray,
			}),
			text.New("Ref: "+data.BatchID, props.Text{
				Size: 7, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// engineerRow: identificador del técnico que recibe.
func engineerRow(data issuance.VoucherData) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("TÉCNICO RECEPTOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(data.EngineerID, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 7,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de materiales.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 2, align.Center),
		h("Material", 8, align.Left),
		h("Unidad", 2, align.Center),
	)
}

// tableLineRows: una fila por material entregado.
func tableLineRows(lines []issuance.VoucherLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				l.Quantity,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(8).Add(text.New(
				l.ItemName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.Unit,
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
		))
	}
	return result
}

// totalRow: cantidad de líneas entregadas.
func totalRow(data issuance.VoucherData) core.Row {
	return row.New(8).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Total de materiales: %d", len(data.Lines)), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right,
				Color: colorPrimary, Top: 2, Right: 1,
			}),
		),
	)
}

// signatureRow: espacios de firma de quien entrega y quien recibe.
func signatureRow() core.Row {
	sig := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{
				Size: 9, Align: align.Center, Top: 1, Color: colorGray,
			}),
			text.New(label, props.Text{
				Size: 8, Align: align.Center, Top: 7, Color: colorGray,
			}),
		)
	}
	return row.New(16).Add(
		sig("Entrega (bodega)"),
		sig("Recibe (técnico)"),
	)
}
