package excel

import (
	"bytes"
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
)

func TestExportPreview_LineasYTotales(t *testing.T) {
	run := &entity.RecalculationRun{
		ID: "r1",
		PreviewLines: []entity.PreviewLine{
			{
				ProductID: "p1", ProductName: "Tornillo", WarehouseID: "A", WarehouseName: "Central",
				QtyBefore: decimal.NewFromInt(2), QtyAfter: decimal.NewFromInt(2),
				ValueBefore: decimal.NewFromInt(40), ValueAfter: decimal.NewFromInt(52),
				QtyDiff: decimal.Zero, ValueDiff: decimal.NewFromInt(12), MoveCount: 3,
			},
			{
				ProductID: "p2", WarehouseID: "B",
				QtyBefore: decimal.NewFromInt(1), QtyAfter: decimal.NewFromInt(1),
				ValueBefore: decimal.NewFromInt(10), ValueAfter: decimal.NewFromInt(10),
				Warnings: []string{"faltante", "sin bodega"},
			},
		},
	}
	e := NewPreviewExporter()
	data, err := e.ExportPreview(context.Background(), run)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Producto", rows[0][0])
	assert.Equal(t, "Tornillo", rows[1][0])
	assert.Equal(t, "Central", rows[1][1])
	assert.Equal(t, "p2", rows[2][0], "sin nombre se usa el ID")
	assert.Equal(t, "faltante; sin bodega", rows[2][9])
	assert.Equal(t, "TOTAL", rows[3][0])
	assert.Equal(t, "62", rows[3][6])
	assert.Equal(t, "12", rows[3][7])
}

func TestExportPreview_NombreYTipo(t *testing.T) {
	e := NewPreviewExporter()
	assert.Equal(t, "recalculo_r9.xlsx", e.FileName(&entity.RecalculationRun{ID: "r9"}))
	assert.Contains(t, e.ContentType(), "spreadsheetml")
}
