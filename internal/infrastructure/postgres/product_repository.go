package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/fifo-valuation-api/internal/domain"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/entity"
	"github.com/jhoicas/fifo-valuation-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Upsert crea o actualiza el producto del catálogo.
func (r *ProductRepo) Upsert(ctx context.Context, p *entity.Product) error {
	query := `
		INSERT INTO products (id, company_id, category_id, sku, name, standard_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET category_id = EXCLUDED.category_id, sku = EXCLUDED.sku,
			name = EXCLUDED.name, standard_price = EXCLUDED.standard_price, updated_at = EXCLUDED.updated_at`
	_, err := r.q.Exec(ctx, query, p.ID, p.CompanyID, nullable(p.CategoryID), p.SKU, p.Name,
		p.StandardPrice, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("upsert product: %w", err)
	}
	return nil
}

// GetByID obtiene un producto por ID.
func (r *ProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	query := `
		SELECT id, company_id, category_id, sku, name, standard_price, created_at, updated_at
		FROM products WHERE id = $1`
	var (
		p   entity.Product
		cat *string
	)
	err := r.q.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.CompanyID, &cat, &p.SKU, &p.Name, &p.StandardPrice, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.CategoryID = deref(cat)
	return &p, nil
}

// ListIDsByCategories IDs de productos de la empresa en las categorías dadas.
func (r *ProductRepo) ListIDsByCategories(ctx context.Context, companyID string, categoryIDs []string) ([]string, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := r.q.Query(ctx,
		`SELECT id FROM products WHERE company_id = $1 AND category_id = ANY($2) ORDER BY id`,
		companyID, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("list products by category: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan product id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
