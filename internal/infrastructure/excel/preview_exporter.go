// Package excel genera la hoja de previsualización de una recalculación FIFO.
//
// Layout de la hoja "Previsualización":
//
//	Producto | Bodega | Cant. antes | Cant. después | Dif. cant. | Valor antes | Valor después | Dif. valor | Movimientos | Advertencias
//	... una fila por combinación producto-bodega ...
//	TOTAL
package excel

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fifo-valuation-api/internal/application/ports"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

const (
	sheetName   = "Previsualización"
	contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var headers = []string{
	"Producto", "Bodega", "Cant. antes", "Cant. después", "Dif. cant.",
	"Valor antes", "Valor después", "Dif. valor", "Movimientos", "Advertencias",
}

var _ ports.PreviewExporter = (*PreviewExporter)(nil)

// PreviewExporter implementa ports.PreviewExporter con excelize.
type PreviewExporter struct{}

// NewPreviewExporter construye el exportador.
func NewPreviewExporter() *PreviewExporter { return &PreviewExporter{} }

// ContentType MIME de un libro XLSX.
func (e *PreviewExporter) ContentType() string { return contentType }

// FileName recalculo_<id>.xlsx.
func (e *PreviewExporter) FileName(run *entity.RecalculationRun) string {
	return fmt.Sprintf("recalculo_%s.xlsx", run.ID)
}

// ExportPreview arma el libro con las líneas de la previsualización y la fila de totales.
func (e *PreviewExporter) ExportPreview(_ context.Context, run *entity.RecalculationRun) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("renombrar hoja: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("estilo: %w", err)
	}

	for i, h := range headers {
		if err := setCell(f, i, 1, h); err != nil {
			return nil, err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheetName, "A1", last, bold); err != nil {
		return nil, fmt.Errorf("estilo encabezado: %w", err)
	}

	row := 2
	for _, l := range run.PreviewLines {
		values := []any{
			nameOr(l.ProductName, l.ProductID), nameOr(l.WarehouseName, l.WarehouseID),
			num(l.QtyBefore), num(l.QtyAfter), num(l.QtyDiff),
			num(l.ValueBefore), num(l.ValueAfter), num(l.ValueDiff),
			l.MoveCount, strings.Join(l.Warnings, "; "),
		}
		for col, v := range values {
			if err := setCell(f, col, row, v); err != nil {
				return nil, err
			}
		}
		row++
	}

	t := run.Totals()
	totals := []any{"TOTAL", "", num(t.QtyBefore), num(t.QtyAfter), num(t.QtyDiff),
		num(t.ValueBefore), num(t.ValueAfter), num(t.ValueDiff)}
	for col, v := range totals {
		if err := setCell(f, col, row, v); err != nil {
			return nil, err
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	end, _ := excelize.CoordinatesToCellName(len(totals), row)
	if err := f.SetCellStyle(sheetName, first, end, bold); err != nil {
		return nil, fmt.Errorf("estilo totales: %w", err)
	}
	_ = f.SetColWidth(sheetName, "A", "B", 28)
	_ = f.SetColWidth(sheetName, "J", "J", 60)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("escribir xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// setCell escribe en la columna col (base 0) de la fila row (base 1).
func setCell(f *excelize.File, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col+1, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, cell, v); err != nil {
		return fmt.Errorf("celda %s: %w", cell, err)
	}
	return nil
}

func num(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func nameOr(name, id string) string {
	if name != "" {
		return name
	}
	return id
}
