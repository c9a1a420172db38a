package catalogd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "modernc.org/sqlite"

	"github.com/shopfront/cartstore/internal/domain"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrStockNotFound   = errors.New("stock not found")
)

// Repository serves the product catalog and stock levels from SQLite. It
// stands in for the storefront's real backend during development and tests.
type Repository struct {
	db *sql.DB
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

func (r *Repository) RunMigrations(migrationsPath string) error {
	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationsPath),
		"sqlite",
		driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Title, &p.Price, &p.Image); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	query := `
		SELECT id, title, price, image
		FROM products
		WHERE id = $1
	`

	var p domain.Product
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Title, &p.Price, &p.Image)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, ErrProductNotFound
	}
	if err != nil {
		return domain.Product{}, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

func (r *Repository) GetStock(ctx context.Context, id int64) (domain.Stock, error) {
	query := `
		SELECT id, amount
		FROM stock
		WHERE id = $1
	`

	var s domain.Stock
	err := r.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Amount)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Stock{}, ErrStockNotFound
	}
	if err != nil {
		return domain.Stock{}, fmt.Errorf("failed to query stock: %w", err)
	}

	return s, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}
