// Package postgres serves the catalog from PostgreSQL.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/trendify/storefront/internal/catalog"
	"github.com/trendify/storefront/internal/domain"
	"github.com/trendify/storefront/pkg/database"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the catalog schema and seed migrations.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const selectColumns = `id, name, price::text, image, description`

// Repository implements catalog.Repository using PostgreSQL.
type Repository struct {
	db     database.DBTX
	tracer *database.QueryTracer
}

// New creates a PostgreSQL-backed catalog repository. tracer may be nil.
func New(db database.DBTX, tracer *database.QueryTracer) *Repository {
	return &Repository{db: db, tracer: tracer}
}

// Get retrieves a product by its id.
func (r *Repository) Get(ctx context.Context, id string) (_ *domain.Product, err error) {
	query := `SELECT ` + selectColumns + ` FROM products WHERE id = $1`

	ctx, end := r.tracer.Start(ctx, "GetProduct", query)
	defer func() { end(err) }()

	p, err := scanProduct(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, catalog.ErrProductNotFound()
		}
		return nil, fmt.Errorf("get product %s: %w", id, err)
	}
	return p, nil
}

// List returns a page of products in display order. An empty search matches
// every product.
func (r *Repository) List(ctx context.Context, f catalog.Filter) (_ []domain.Product, _ int, err error) {
	page := f.Page.Normalize()

	countQuery := `SELECT count(*) FROM products WHERE strpos(lower(name), $1) > 0`
	listQuery := `
		SELECT ` + selectColumns + `
		FROM products
		WHERE strpos(lower(name), $1) > 0
		ORDER BY position, id
		LIMIT $2 OFFSET $3`

	ctx, end := r.tracer.Start(ctx, "ListProducts", listQuery)
	defer func() { end(err) }()

	var total int
	if err := r.db.QueryRow(ctx, countQuery, f.Search).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.Query(ctx, listQuery, f.Search, page.PerPage, page.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0, page.PerPage)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate products: %w", err)
	}

	return products, total, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		p     domain.Product
		price string
	)
	if err := row.Scan(&p.ID, &p.Name, &price, &p.Image, &p.Description); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", price, err)
	}
	p.Price = d
	return &p, nil
}
