package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var (
	_ repository.MoveRepository     = (*MoveRepo)(nil)
	_ repository.LocationRepository = (*LocationRepo)(nil)
)

const moveColumns = `id, company_id, product_id, source_location_id, destination_location_id, quantity,
	unit_of_measure, state, origin_returned_move_id, price_unit, date, reference, created_at, updated_at`

// MoveRepo copia local de los movimientos de stock.
type MoveRepo struct {
	q Querier
}

// NewMoveRepository construye el adaptador de movimientos.
func NewMoveRepository(q Querier) *MoveRepo {
	return &MoveRepo{q: q}
}

func scanMove(row pgx.Row) (*entity.Move, error) {
	var (
		m      entity.Move
		origin *string
	)
	if err := row.Scan(&m.ID, &m.CompanyID, &m.ProductID, &m.SourceLocationID, &m.DestinationLocationID,
		&m.Quantity, &m.UnitOfMeasure, &m.State, &origin, &m.PriceUnit, &m.Date, &m.Reference,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, err
	}
	m.OriginReturnedMoveID = deref(origin)
	return &m, nil
}

// Upsert guarda el movimiento; un evento repetido actualiza estado y datos.
func (r *MoveRepo) Upsert(ctx context.Context, m *entity.Move) error {
	query := `
		INSERT INTO stock_moves (` + moveColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET product_id = EXCLUDED.product_id,
			source_location_id = EXCLUDED.source_location_id,
			destination_location_id = EXCLUDED.destination_location_id,
			quantity = EXCLUDED.quantity, unit_of_measure = EXCLUDED.unit_of_measure,
			state = EXCLUDED.state, origin_returned_move_id = EXCLUDED.origin_returned_move_id,
			price_unit = EXCLUDED.price_unit, date = EXCLUDED.date, reference = EXCLUDED.reference,
			updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, m.ID, m.CompanyID, m.ProductID, m.SourceLocationID, m.DestinationLocationID,
		m.Quantity, m.UnitOfMeasure, m.State, nullable(m.OriginReturnedMoveID), m.PriceUnit, m.Date, m.Reference,
		m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock move: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento; nil si no existe.
func (r *MoveRepo) GetByID(ctx context.Context, id string) (*entity.Move, error) {
	m, err := scanMove(r.q.QueryRow(ctx, `SELECT `+moveColumns+` FROM stock_moves WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock move: %w", err)
	}
	return m, nil
}

// List movimientos del filtro ordenados por date, id.
func (r *MoveRepo) List(ctx context.Context, f repository.MoveFilter) ([]*entity.Move, error) {
	conds := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	add := func(cond string, v any) {
		args = append(args, v)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}
	if len(f.ProductIDs) > 0 {
		add("product_id = ANY($%d)", f.ProductIDs)
	}
	if !f.From.IsZero() {
		add("date >= $%d", f.From)
	}
	if !f.To.IsZero() {
		add("date <= $%d", f.To)
	}
	if f.State != "" {
		add("state = $%d", f.State)
	}
	query := `SELECT ` + moveColumns + ` FROM stock_moves WHERE ` + strings.Join(conds, " AND ") + ` ORDER BY date, id`
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list stock moves: %w", err)
	}
	defer rows.Close()
	var list []*entity.Move
	for rows.Next() {
		m, err := scanMove(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock move: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// LocationRepo ubicaciones.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador de ubicaciones.
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

func (r *LocationRepo) Upsert(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, company_id, name, usage, warehouse_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name, usage = EXCLUDED.usage,
			warehouse_id = EXCLUDED.warehouse_id, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, l.ID, l.CompanyID, l.Name, l.Usage, nullable(l.WarehouseID), l.CreatedAt, l.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert location: %w", err)
	}
	return nil
}

func scanLocation(row pgx.Row) (*entity.Location, error) {
	var (
		l  entity.Location
		wh *string
	)
	if err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Usage, &wh, &l.CreatedAt, &l.UpdatedAt); err != nil {
		return nil, err
	}
	l.WarehouseID = deref(wh)
	return &l, nil
}

func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	l, err := scanLocation(r.q.QueryRow(ctx,
		`SELECT id, company_id, name, usage, warehouse_id, created_at, updated_at FROM locations WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	return l, nil
}

func (r *LocationRepo) ListByCompany(ctx context.Context, companyID string) ([]*entity.Location, error) {
	rows, err := r.q.Query(ctx,
		`SELECT id, company_id, name, usage, warehouse_id, created_at, updated_at
		 FROM locations WHERE company_id = $1 ORDER BY name, id`, companyID)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}
