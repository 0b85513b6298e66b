package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/fifo-valuation-api/internal/application/dto"
	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/infrastructure/memory"
)

func TestCatalog_BodegaCrearYActualizar(t *testing.T) {
	ctx := context.Background()
	uc := NewCatalogUseCase(memory.NewStore())

	w, err := uc.UpsertWarehouse(ctx, "c1", dto.UpsertWarehouseRequest{Code: "A", Name: "Central"})
	require.NoError(t, err)
	require.NotEmpty(t, w.ID)

	w2, err := uc.UpsertWarehouse(ctx, "c1", dto.UpsertWarehouseRequest{ID: w.ID, Code: "A", Name: "Central Norte"})
	require.NoError(t, err)
	assert.Equal(t, w.CreatedAt, w2.CreatedAt)

	got, err := uc.GetWarehouse(ctx, "c1", w.ID)
	require.NoError(t, err)
	assert.Equal(t, "Central Norte", got.Name)

	_, err = uc.GetWarehouse(ctx, "c2", w.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.UpsertWarehouse(ctx, "c2", dto.UpsertWarehouseRequest{ID: w.ID, Name: "Ajena"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	list, err := uc.ListWarehouses(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestCatalog_UbicacionValidaBodega(t *testing.T) {
	ctx := context.Background()
	uc := NewCatalogUseCase(memory.NewStore())

	_, err := uc.UpsertLocation(ctx, "c1", dto.UpsertLocationRequest{ID: "a-stock", Name: "A/Stock", Usage: "internal", WarehouseID: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpsertLocation(ctx, "c1", dto.UpsertLocationRequest{ID: "x", Name: "X", Usage: "bodega"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.UpsertWarehouse(ctx, "c1", dto.UpsertWarehouseRequest{ID: "A", Name: "A"})
	require.NoError(t, err)
	l, err := uc.UpsertLocation(ctx, "c1", dto.UpsertLocationRequest{ID: "a-stock", Name: "A/Stock", Usage: "internal", WarehouseID: "A"})
	require.NoError(t, err)
	assert.Equal(t, "A", l.WarehouseID)

	_, err = uc.UpsertLocation(ctx, "c1", dto.UpsertLocationRequest{ID: "sup", Name: "Proveedores", Usage: "supplier"})
	require.NoError(t, err)
	list, err := uc.ListLocations(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestCatalog_ProductoSinCostoNegativo(t *testing.T) {
	ctx := context.Background()
	uc := NewCatalogUseCase(memory.NewStore())

	_, err := uc.UpsertProduct(ctx, "c1", dto.UpsertProductRequest{Name: "Tornillo", StandardPrice: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	p, err := uc.UpsertProduct(ctx, "c1", dto.UpsertProductRequest{ID: "p1", CategoryID: "cat1", Name: "Tornillo", StandardPrice: decimal.NewFromInt(100)})
	require.NoError(t, err)
	assert.Equal(t, "p1", p.ID)

	got, err := uc.GetProduct(ctx, "c1", "p1")
	require.NoError(t, err)
	assert.True(t, got.StandardPrice.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "cat1", got.CategoryID)
}
