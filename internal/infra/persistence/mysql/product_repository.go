package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	domproduct "example.com/catalog-admin/internal/domain/product"
)

type ProductRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db, now: func() time.Time { return time.Now().UTC().Truncate(time.Second) }}
}

func (r *ProductRepository) Create(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
        INSERT INTO products (name, price, created_at, updated_at)
        VALUES (?, ?, ?, ?)
    `, p.Name, p.Price, now, now)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}
	p.ID = id
	p.CreatedAt = now
	p.UpdatedAt = now
	return p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domproduct.Product) (*domproduct.Product, error) {
	now := r.now()
	res, err := r.db.ExecContext(ctx, `
        UPDATE products SET name = ?, price = ?, updated_at = ?
        WHERE id = ?
    `, p.Name, p.Price, now, p.ID)
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	if rows == 0 {
		return nil, domproduct.ErrProductNotFound
	}
	p.UpdatedAt = now
	return p, nil
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*domproduct.Product, error) {
	row := r.db.QueryRowContext(ctx, `
        SELECT id, name, price, created_at, updated_at
        FROM products WHERE id = ?
    `, id)

	var p domproduct.Product
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domproduct.ErrProductNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) List(ctx context.Context, offset, limit int) ([]*domproduct.Product, int64, error) {
	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
        SELECT id, name, price, created_at, updated_at
        FROM products
        ORDER BY id ASC
        LIMIT ? OFFSET ?
    `, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	products := []*domproduct.Product{}
	for rows.Next() {
		var p domproduct.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}
