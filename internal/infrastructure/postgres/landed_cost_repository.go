package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var _ repository.LandedCostRepository = (*LandedCostRepo)(nil)

const allocationColumns = `a.id, a.company_id, a.valuation_layer_id, a.product_id, a.warehouse_id,
	a.landed_cost_value, a.quantity, a.source_move_id, a.created_at`

// LandedCostRepo asignaciones de costo en destino y auditoría de traslados.
type LandedCostRepo struct {
	q Querier
}

// NewLandedCostRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLandedCostRepository(q Querier) *LandedCostRepo {
	return &LandedCostRepo{q: q}
}

func collectAllocations(rows pgx.Rows) ([]*entity.LandedCostAllocation, error) {
	defer rows.Close()
	var list []*entity.LandedCostAllocation
	for rows.Next() {
		var (
			a    entity.LandedCostAllocation
			move *string
		)
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.ValuationLayerID, &a.ProductID, &a.WarehouseID,
			&a.LandedCostValue, &a.Quantity, &move, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan allocation: %w", err)
		}
		a.SourceMoveID = deref(move)
		list = append(list, &a)
	}
	return list, rows.Err()
}

// Create inserta la asignación y asigna ID.
func (r *LandedCostRepo) Create(ctx context.Context, a *entity.LandedCostAllocation) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO landed_cost_allocations (company_id, valuation_layer_id, product_id, warehouse_id,
			landed_cost_value, quantity, source_move_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.CompanyID, a.ValuationLayerID, a.ProductID, a.WarehouseID,
		a.LandedCostValue, a.Quantity, nullable(a.SourceMoveID), a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert landed cost allocation: %w", err)
	}
	return nil
}

// Reinsert conserva el ID; si ya existe no hace nada.
func (r *LandedCostRepo) Reinsert(ctx context.Context, a *entity.LandedCostAllocation) error {
	query := `
		INSERT INTO landed_cost_allocations (id, company_id, valuation_layer_id, product_id, warehouse_id,
			landed_cost_value, quantity, source_move_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO NOTHING`
	_, err := r.q.Exec(ctx, query, a.ID, a.CompanyID, a.ValuationLayerID, a.ProductID, a.WarehouseID,
		a.LandedCostValue, a.Quantity, nullable(a.SourceMoveID), a.CreatedAt)
	if err != nil {
		return fmt.Errorf("reinsert landed cost allocation: %w", err)
	}
	return nil
}

// ListByWarehouse asignaciones con valor sobre capas de entrada, las más antiguas primero.
func (r *LandedCostRepo) ListByWarehouse(ctx context.Context, companyID, productID, warehouseID string, forUpdate bool) ([]*entity.LandedCostAllocation, error) {
	query := `
		SELECT ` + allocationColumns + `
		FROM landed_cost_allocations a
		JOIN valuation_layers l ON l.id = a.valuation_layer_id
		WHERE a.company_id = $1 AND a.product_id = $2 AND a.warehouse_id = $3
		  AND a.landed_cost_value > 0 AND l.quantity > 0
		ORDER BY a.created_at, a.id`
	if forUpdate {
		query += ` FOR UPDATE OF a`
	}
	rows, err := r.q.Query(ctx, query, companyID, productID, warehouseID)
	if err != nil {
		return nil, fmt.Errorf("list allocations by warehouse: %w", err)
	}
	return collectAllocations(rows)
}

// ListByLayers asignaciones de las capas dadas.
func (r *LandedCostRepo) ListByLayers(ctx context.Context, ids []int64) ([]*entity.LandedCostAllocation, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx, `SELECT `+allocationColumns+` FROM landed_cost_allocations a
		WHERE a.valuation_layer_id = ANY($1) ORDER BY a.created_at, a.id`, ids)
	if err != nil {
		return nil, fmt.Errorf("list allocations by layers: %w", err)
	}
	return collectAllocations(rows)
}

// UpdateValue fija el valor restante de la asignación (nunca negativo).
func (r *LandedCostRepo) UpdateValue(ctx context.Context, a *entity.LandedCostAllocation) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE landed_cost_allocations SET landed_cost_value = GREATEST($2, 0) WHERE id = $1`,
		a.ID, a.LandedCostValue)
	if err != nil {
		return fmt.Errorf("update allocation: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteByLayers borra las asignaciones de las capas dadas.
func (r *LandedCostRepo) DeleteByLayers(ctx context.Context, ids []int64) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM landed_cost_allocations WHERE valuation_layer_id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete allocations: %w", err)
	}
	return int(cmd.RowsAffected()), nil
}

// CreateAudit registra un traslado de costo en destino.
func (r *LandedCostRepo) CreateAudit(ctx context.Context, a *entity.LandedCostTransferAudit) error {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	query := `
		INSERT INTO landed_cost_transfer_audits (company_id, move_id, product_id, source_warehouse_id, dest_warehouse_id,
			quantity, amount, source_lc_before, source_lc_after, dest_lc_before, dest_lc_after, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`
	err := r.q.QueryRow(ctx, query, a.CompanyID, a.MoveID, a.ProductID, a.SourceWarehouseID, a.DestWarehouseID,
		a.Quantity, a.Amount, a.SourceLCBefore, a.SourceLCAfter, a.DestLCBefore, a.DestLCAfter, a.CreatedAt).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("insert landed cost audit: %w", err)
	}
	return nil
}

// ListAudits auditoría de la empresa; moveID vacío lista todo.
func (r *LandedCostRepo) ListAudits(ctx context.Context, companyID, moveID string) ([]*entity.LandedCostTransferAudit, error) {
	query := `
		SELECT id, company_id, move_id, product_id, source_warehouse_id, dest_warehouse_id,
			quantity, amount, source_lc_before, source_lc_after, dest_lc_before, dest_lc_after, created_at
		FROM landed_cost_transfer_audits
		WHERE company_id = $1 AND ($2 = '' OR move_id = $2)
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, companyID, moveID)
	if err != nil {
		return nil, fmt.Errorf("list landed cost audits: %w", err)
	}
	defer rows.Close()
	var list []*entity.LandedCostTransferAudit
	for rows.Next() {
		var a entity.LandedCostTransferAudit
		if err := rows.Scan(&a.ID, &a.CompanyID, &a.MoveID, &a.ProductID, &a.SourceWarehouseID, &a.DestWarehouseID,
			&a.Quantity, &a.Amount, &a.SourceLCBefore, &a.SourceLCAfter, &a.DestLCBefore, &a.DestLCAfter, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan landed cost audit: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}
