package party

import (
	"context"
	"errors"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/postgres"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

const (
	sellerCols = `id::text, name, surname, email, password_hash, created_at`
	clientCols = `id::text, name, surname, company, email, phone, seller_id::text, created_at`
)

func scanSeller(row pgx.Row) (Seller, error) {
	var s Seller
	err := row.Scan(&s.ID, &s.Name, &s.Surname, &s.Email, &s.PasswordHash, &s.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Seller{}, apperr.NotFound("user")
	}
	return s, err
}

func scanClient(row pgx.Row) (Client, error) {
	var c Client
	err := row.Scan(&c.ID, &c.Name, &c.Surname, &c.Company, &c.Email, &c.Phone, &c.SellerID, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Client{}, apperr.NotFound("client")
	}
	return c, err
}

func (r *Repo) InsertSeller(ctx context.Context, s Seller) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO sellers(id, name, surname, email, password_hash, created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`, s.ID, s.Name, s.Surname, s.Email, s.PasswordHash, s.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("user already registered")
	}
	return err
}

func (r *Repo) Seller(ctx context.Context, id string) (Seller, error) {
	return scanSeller(r.DB.QueryRow(ctx, `SELECT `+sellerCols+` FROM sellers WHERE id=$1`, id))
}

func (r *Repo) SellerByEmail(ctx context.Context, email string) (Seller, error) {
	return scanSeller(r.DB.QueryRow(ctx, `SELECT `+sellerCols+` FROM sellers WHERE email=$1`, email))
}

func (r *Repo) SellersByID(ctx context.Context, ids []string) (map[string]Seller, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+sellerCols+` FROM sellers WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Seller, len(ids))
	for rows.Next() {
		s, err := scanSeller(rows)
		if err != nil {
			return nil, err
		}
		out[s.ID] = s
	}
	return out, rows.Err()
}

func (r *Repo) InsertClient(ctx context.Context, c Client) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO clients(id, name, surname, company, email, phone, seller_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		c.ID, c.Name, c.Surname, c.Company, c.Email, c.Phone, c.SellerID, c.CreatedAt)
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("client already registered")
	}
	return err
}

func (r *Repo) Client(ctx context.Context, id string) (Client, error) {
	return scanClient(r.DB.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE id=$1`, id))
}

func (r *Repo) ClientByEmail(ctx context.Context, email string) (Client, error) {
	return scanClient(r.DB.QueryRow(ctx, `SELECT `+clientCols+` FROM clients WHERE email=$1`, email))
}

func (r *Repo) ClientsByID(ctx context.Context, ids []string) (map[string]Client, error) {
	rows, err := r.DB.Query(ctx, `SELECT `+clientCols+` FROM clients WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]Client, len(ids))
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out[c.ID] = c
	}
	return out, rows.Err()
}

// ListClients returns every client when sellerID is empty.
func (r *Repo) ListClients(ctx context.Context, sellerID string) ([]Client, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT `+clientCols+` FROM clients
		WHERE $1 = '' OR seller_id::text = $1
		ORDER BY created_at`, sellerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// UpdateClient never touches seller_id.
func (r *Repo) UpdateClient(ctx context.Context, c Client) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE clients SET name=$2, surname=$3, company=$4, email=$5, phone=$6
		WHERE id=$1`, c.ID, c.Name, c.Surname, c.Company, c.Email, c.Phone)
	if postgres.IsUniqueViolation(err) {
		return apperr.Conflict("client already registered")
	}
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("client")
	}
	return nil
}

func (r *Repo) DeleteClient(ctx context.Context, id string) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM clients WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return apperr.NotFound("client")
	}
	return nil
}
