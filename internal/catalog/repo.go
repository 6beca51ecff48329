package catalog

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const productCols = `id::text, name, quantity, price, created_at`

func scanProduct(row pgx.Row) (Product, error) {
	var p Product
	err := row.Scan(&p.ID, &p.Name, &p.Quantity, &p.Price, &p.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Product{}, apperr.NotFound("product")
	}
	return p, err
}

func (r *Repo) Get(ctx context.Context, id string) (Product, error) {
	return scanProduct(r.DB.QueryRow(ctx, `SELECT `+productCols+` FROM products WHERE id=$1`, id))
}

func (r *Repo) List(ctx context.Context) ([]Product, error) {
	return r.query(ctx, `SELECT `+productCols+` FROM products ORDER BY created_at`)
}

func (r *Repo) Search(ctx context.Context, text string, limit int) ([]Product, error) {
	return r.query(ctx, `
		SELECT `+productCols+` FROM products
		WHERE to_tsvector('simple', name) @@ plainto_tsquery('simple', $1)
		ORDER BY name
		LIMIT $2`, text, limit)
}

func (r *Repo) query(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, err := r.DB.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) Insert(ctx context.Context, p Product) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO products(id, name, quantity, price, created_at)
		VALUES ($1,$2,$3,$4,$5)`, p.ID, p.Name, p.Quantity, p.Price, p.CreatedAt)
	return err
}

func (r *Repo) Update(ctx context.Context, p Product) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET name=$2, quantity=$3, price=$4 WHERE id=$1`,
		p.ID, p.Name, p.Quantity, p.Price)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("product")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("product")
	}
	return nil
}

func (r *Repo) SetQuantity(ctx context.Context, id string, qty int) error {
	ct, err := r.DB.Exec(ctx, `UPDATE products SET quantity=$2 WHERE id=$1`, id, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("product")
	}
	return nil
}

// Decrement is a single conditional UPDATE; on no match it re-reads the row to
// tell a missing product from a shortfall.
func (r *Repo) Decrement(ctx context.Context, id string, qty int) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET quantity = quantity - $2
		WHERE id=$1 AND quantity >= $2
		RETURNING `+productCols, id, qty))
	if err == nil || !errors.Is(err, apperr.ErrNotFound) {
		return p, err
	}
	cur, err := r.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	return cur, &apperr.InsufficientStockError{
		ProductID: cur.ID, ProductName: cur.Name, Requested: qty, Available: cur.Quantity,
	}
}

func (r *Repo) Increment(ctx context.Context, id string, qty int) (Product, error) {
	p, err := scanProduct(r.DB.QueryRow(ctx, `
		UPDATE products SET quantity = quantity + $2
		WHERE id=$1
		RETURNING `+productCols, id, qty))
	if postgres.IsOutOfRange(err) {
		return Product{}, apperr.Invalid("quantity for product %s would exceed %d", id, MaxQuantity)
	}
	return p, err
}
