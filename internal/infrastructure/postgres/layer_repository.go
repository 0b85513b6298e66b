package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.ValuationLayerRepository = (*ValuationLayerRepo)(nil)
	_ repository.LayerUsageRepository     = (*LayerUsageRepo)(nil)
)

const layerColumns = `id, company_id, product_id, warehouse_id, location_id, quantity, unit_cost, value,
	remaining_qty, remaining_value, source_move_id, description, locked, recalculation_run_id, created_at`

// ValuationLayerRepo capas de valoración sobre PostgreSQL (usable con pool o tx).
type ValuationLayerRepo struct {
	q Querier
}

// NewValuationLayerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewValuationLayerRepository(q Querier) *ValuationLayerRepo {
	return &ValuationLayerRepo{q: q}
}

func scanLayer(row pgx.Row) (*entity.ValuationLayer, error) {
	var (
		l             entity.ValuationLayer
		location, run *string
	)
	err := row.Scan(&l.ID, &l.CompanyID, &l.ProductID, &l.WarehouseID, &location,
		&l.Quantity, &l.UnitCost, &l.Value, &l.RemainingQty, &l.RemainingValue,
		&l.SourceMoveID, &l.Description, &l.Locked, &run, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	l.LocationID, l.RecalculationRunID = deref(location), deref(run)
	return &l, nil
}

func collectLayers(rows pgx.Rows) ([]*entity.ValuationLayer, error) {
	defer rows.Close()
	var list []*entity.ValuationLayer
	for rows.Next() {
		l, err := scanLayer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan layer: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// Create inserta la capa y asigna ID (BIGSERIAL).
func (r *ValuationLayerRepo) Create(ctx context.Context, l *entity.ValuationLayer) error {
	query := `
		INSERT INTO valuation_layers (company_id, product_id, warehouse_id, location_id, quantity, unit_cost, value,
			remaining_qty, remaining_value, source_move_id, description, locked, recalculation_run_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}
	err := r.q.QueryRow(ctx, query,
		l.CompanyID, l.ProductID, l.WarehouseID, nullable(l.LocationID), l.Quantity, l.UnitCost, l.Value,
		l.RemainingQty, l.RemainingValue, l.SourceMoveID, l.Description, l.Locked, nullable(l.RecalculationRunID), l.CreatedAt,
	).Scan(&l.ID)
	if err != nil {
		return fmt.Errorf("insert valuation layer: %w", err)
	}
	return nil
}

// Reinsert inserta conservando el ID del respaldo.
func (r *ValuationLayerRepo) Reinsert(ctx context.Context, l *entity.ValuationLayer) error {
	query := `
		INSERT INTO valuation_layers (` + layerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(ctx, query,
		l.ID, l.CompanyID, l.ProductID, l.WarehouseID, nullable(l.LocationID), l.Quantity, l.UnitCost, l.Value,
		l.RemainingQty, l.RemainingValue, l.SourceMoveID, l.Description, l.Locked, nullable(l.RecalculationRunID), l.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("reinsert valuation layer: %w", err)
	}
	return nil
}

// GetByID obtiene una capa; nil si no existe.
func (r *ValuationLayerRepo) GetByID(ctx context.Context, id int64) (*entity.ValuationLayer, error) {
	l, err := scanLayer(r.q.QueryRow(ctx, `SELECT `+layerColumns+` FROM valuation_layers WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get valuation layer: %w", err)
	}
	return l, nil
}

// FIFOQueue capas positivas con saldo en orden created_at, id. forUpdate bloquea las filas.
func (r *ValuationLayerRepo) FIFOQueue(ctx context.Context, companyID, productID, warehouseID string, limit int, forUpdate bool) ([]*entity.ValuationLayer, error) {
	query := `
		SELECT ` + layerColumns + `
		FROM valuation_layers
		WHERE company_id = $1 AND product_id = $2 AND warehouse_id = $3
		  AND quantity > 0 AND remaining_qty > 0
		ORDER BY created_at, id`
	args := []any{companyID, productID, warehouseID}
	if limit > 0 {
		query += ` LIMIT $4`
		args = append(args, limit)
	}
	if forUpdate {
		query += ` FOR UPDATE`
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("fifo queue: %w", err)
	}
	return collectLayers(rows)
}

// UpdateRemaining guarda el saldo restante.
func (r *ValuationLayerRepo) UpdateRemaining(ctx context.Context, l *entity.ValuationLayer) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE valuation_layers SET remaining_qty = $2, remaining_value = $3 WHERE id = $1`,
		l.ID, l.RemainingQty, l.RemainingValue)
	if err != nil {
		return fmt.Errorf("update remaining: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateValuation reescribe cantidades y valores (restauración de respaldos).
func (r *ValuationLayerRepo) UpdateValuation(ctx context.Context, l *entity.ValuationLayer) error {
	query := `
		UPDATE valuation_layers
		SET quantity = $2, unit_cost = $3, value = $4, remaining_qty = $5, remaining_value = $6
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query, l.ID, l.Quantity, l.UnitCost, l.Value, l.RemainingQty, l.RemainingValue)
	if err != nil {
		return fmt.Errorf("update valuation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByMove capas creadas por un movimiento.
func (r *ValuationLayerRepo) ListByMove(ctx context.Context, moveID string) ([]*entity.ValuationLayer, error) {
	rows, err := r.q.Query(ctx, `SELECT `+layerColumns+` FROM valuation_layers WHERE source_move_id = $1 ORDER BY id`, moveID)
	if err != nil {
		return nil, fmt.Errorf("list layers by move: %w", err)
	}
	return collectLayers(rows)
}

// List capas según el filtro, en orden created_at, id.
func (r *ValuationLayerRepo) List(ctx context.Context, f repository.LayerFilter) ([]*entity.ValuationLayer, error) {
	var (
		where = []string{"company_id = $1"}
		args  = []any{f.CompanyID}
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if len(f.ProductIDs) > 0 {
		add("product_id = ANY($%d)", f.ProductIDs)
	}
	if len(f.WarehouseIDs) > 0 {
		add("warehouse_id = ANY($%d)", f.WarehouseIDs)
	}
	if f.From != nil {
		add("created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("created_at <= $%d", *f.To)
	}
	if f.RunID != "" {
		add("recalculation_run_id = $%d", f.RunID)
	}
	if !f.IncludeLocked {
		where = append(where, "NOT locked")
	}
	query := `SELECT ` + layerColumns + ` FROM valuation_layers WHERE ` + strings.Join(where, " AND ") + ` ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layers: %w", err)
	}
	return collectLayers(rows)
}

// AvailableByWarehouse saldo por bodega, solo bodegas con saldo positivo.
func (r *ValuationLayerRepo) AvailableByWarehouse(ctx context.Context, companyID, productID string) ([]entity.WarehouseAvailability, error) {
	query := `
		SELECT warehouse_id, SUM(remaining_qty), SUM(remaining_value)
		FROM valuation_layers
		WHERE company_id = $1 AND product_id = $2 AND quantity > 0 AND remaining_qty > 0
		GROUP BY warehouse_id
		HAVING SUM(remaining_qty) > 0
		ORDER BY warehouse_id`
	rows, err := r.q.Query(ctx, query, companyID, productID)
	if err != nil {
		return nil, fmt.Errorf("available by warehouse: %w", err)
	}
	defer rows.Close()
	var list []entity.WarehouseAvailability
	for rows.Next() {
		var a entity.WarehouseAvailability
		if err := rows.Scan(&a.WarehouseID, &a.Quantity, &a.Value); err != nil {
			return nil, fmt.Errorf("scan availability: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

// Delete borra por ID.
func (r *ValuationLayerRepo) Delete(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM valuation_layers WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete layers: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// LayerUsageRepo ledger de consumo sobre PostgreSQL.
type LayerUsageRepo struct {
	q Querier
}

// NewLayerUsageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLayerUsageRepository(q Querier) *LayerUsageRepo {
	return &LayerUsageRepo{q: q}
}

const usageColumns = `id, consumer_layer_id, source_layer_id, quantity, value, created_at`

// Create registra un consumo.
func (r *LayerUsageRepo) Create(ctx context.Context, u *entity.LayerUsage) error {
	query := `
		INSERT INTO layer_usages (consumer_layer_id, source_layer_id, quantity, value, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	if err := r.q.QueryRow(ctx, query, u.ConsumerLayerID, u.SourceLayerID, u.Quantity, u.Value, u.CreatedAt).Scan(&u.ID); err != nil {
		return fmt.Errorf("insert layer usage: %w", err)
	}
	return nil
}

// Reinsert conserva el ID; si ya existe no hace nada.
func (r *LayerUsageRepo) Reinsert(ctx context.Context, u *entity.LayerUsage) error {
	query := `
		INSERT INTO layer_usages (` + usageColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING`
	if _, err := r.q.Exec(ctx, query, u.ID, u.ConsumerLayerID, u.SourceLayerID, u.Quantity, u.Value, u.CreatedAt); err != nil {
		return fmt.Errorf("reinsert layer usage: %w", err)
	}
	return nil
}

func (r *LayerUsageRepo) list(ctx context.Context, query string, args ...any) ([]*entity.LayerUsage, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list layer usages: %w", err)
	}
	defer rows.Close()
	var list []*entity.LayerUsage
	for rows.Next() {
		var u entity.LayerUsage
		if err := rows.Scan(&u.ID, &u.ConsumerLayerID, &u.SourceLayerID, &u.Quantity, &u.Value, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan layer usage: %w", err)
		}
		list = append(list, &u)
	}
	return list, rows.Err()
}

// ListByLayers usos donde la consumidora o la consumida está en ids.
func (r *LayerUsageRepo) ListByLayers(ctx context.Context, ids []int64) ([]*entity.LayerUsage, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.list(ctx, `SELECT `+usageColumns+` FROM layer_usages
		WHERE consumer_layer_id = ANY($1) OR source_layer_id = ANY($1) ORDER BY id`, ids)
}

// ListByConsumer usos de una capa negativa (para devoluciones).
func (r *LayerUsageRepo) ListByConsumer(ctx context.Context, consumerID int64) ([]*entity.LayerUsage, error) {
	return r.list(ctx, `SELECT `+usageColumns+` FROM layer_usages WHERE consumer_layer_id = $1 ORDER BY id`, consumerID)
}

// DeleteByLayers borra los usos que tocan cualquiera de las capas.
func (r *LayerUsageRepo) DeleteByLayers(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM layer_usages WHERE consumer_layer_id = ANY($1) OR source_layer_id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete layer usages: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}
