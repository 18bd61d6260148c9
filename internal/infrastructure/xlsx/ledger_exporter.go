// Package xlsx exporta el ledger de movimientos a hojas de cálculo Excel.
package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Inventario-mrp/internal/application/reporting"
	"github.com/jhoicas/Inventario-mrp/internal/domain/entity"
)

var _ reporting.LedgerExporter = (*LedgerExporter)(nil)

const sheetName = "Movimientos"

var headings = []string{
	"Secuencia", "Fecha", "Lote", "Tipo", "Cantidad", "Costo unitario", "Costo total",
	"Origen", "Referencia", "Saldo del lote", "Notas", "Usuario",
}

// LedgerExporter genera un XLSX con una fila por movimiento.
type LedgerExporter struct{}

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// ExportMovements escribe encabezado de producto, títulos y filas; devuelve los bytes del libro.
func (e *LedgerExporter) ExportMovements(product *entity.Product, movements []*entity.InventoryMovement) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	if err := f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s - %s", product.SKU, product.Name)); err != nil {
		return nil, fmt.Errorf("xlsx: encabezado: %w", err)
	}
	if err := f.SetSheetRow(sheetName, "A3", &headings); err != nil {
		return nil, fmt.Errorf("xlsx: títulos: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}
	last, _ := excelize.ColumnNumberToName(len(headings))
	_ = f.SetCellStyle(sheetName, "A1", "A1", bold)
	_ = f.SetCellStyle(sheetName, "A3", last+"3", bold)

	for i, m := range movements {
		cell, _ := excelize.CoordinatesToCellName(1, i+4)
		values := []interface{}{
			m.Sequence,
			m.CreatedAt.Format("2006-01-02 15:04:05"),
			m.BatchID,
			m.Type,
			m.Quantity.InexactFloat64(),
			m.UnitCost.InexactFloat64(),
			m.TotalCost.InexactFloat64(),
			m.SourceType,
			m.SourceReference,
			m.ResultingRemainingQuantity.InexactFloat64(),
			m.Notes,
			m.CreatedBy,
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return nil, fmt.Errorf("xlsx: fila %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}
