package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const orderCols = `id::text, items, total, client_id::text, seller_id::text, status, created_at`

func scanOrder(row pgx.Row) (Order, error) {
	var (
		o      Order
		status string
	)
	err := row.Scan(&o.ID, &o.Items, &o.Total, &o.ClientID, &o.SellerID, &status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Order{}, apperr.NotFound("order")
	}
	o.Status = Status(status)
	return o, err
}

func (r *Repo) Insert(ctx context.Context, o Order) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO orders(id, items, total, client_id, seller_id, status, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		o.ID, o.Items, o.Total, o.ClientID, o.SellerID, string(o.Status), o.CreatedAt)
	return err
}

func (r *Repo) Get(ctx context.Context, id string) (Order, error) {
	return scanOrder(r.DB.QueryRow(ctx, `SELECT `+orderCols+` FROM orders WHERE id=$1`, id))
}

func (r *Repo) List(ctx context.Context, f Filter) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+orderCols+` FROM orders
		WHERE ($1 = '' OR seller_id::text = $1)
		  AND ($2 = '' OR status = $2)
		ORDER BY created_at`, f.SellerID, string(f.Status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *Repo) Update(ctx context.Context, o Order) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE orders SET items=$2, total=$3, client_id=$4, status=$5
		WHERE id=$1`, o.ID, o.Items, o.Total, o.ClientID, string(o.Status))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("order")
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM orders WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("order")
	}
	return nil
}

func (r *Repo) CompletedTotals(ctx context.Context, by GroupBy, limit int) ([]Total, error) {
	if by != ByClient && by != BySeller {
		return nil, fmt.Errorf("unsupported grouping %q", by)
	}
	col := string(by)
	rows, err := r.DB.Query(ctx, `
		SELECT `+col+`::text AS key, SUM(total) AS amount
		FROM orders
		WHERE status = $1
		GROUP BY `+col+`
		ORDER BY amount DESC, key ASC
		LIMIT $2`, string(StatusCompleted), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Total{}
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.Key, &t.Amount); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}
