// Package report serializa reportes de consumo a formatos descargables.
package report

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Almacen-api/internal/application/ledger"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// Verificación en compilación de la interfaz.
var _ ledger.ReportExporter = (*ExcelExporter)(nil)

// ExcelExporter exporta el reporte de consumo como un libro XLSX.
type ExcelExporter struct{}

// NewExcelExporter construye el exportador.
func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// ExportConsumption genera el XLSX y devuelve sus bytes.
func (e *ExcelExporter) ExportConsumption(rows []repository.ConsumptionRow) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	header := []interface{}{
		"material",
		"categoria",
		"unidad",
		"total_consumido",
		"movimientos",
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("report: escribir encabezado: %w", err)
	}

	rowIdx := 2
	for _, r := range rows {
		excelRow := []interface{}{
			r.ItemName,
			r.ItemCategory,
			r.Unit,
			r.TotalUsed.String(),
			r.Movements,
		}
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return nil, fmt.Errorf("report: calcular celda: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &excelRow); err != nil {
			return nil, fmt.Errorf("report: escribir fila %d: %w", rowIdx, err)
		}
		rowIdx++
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("report: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
