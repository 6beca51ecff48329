package party

import (
	"context"
	"time"
)

// Seller is the authenticated user that owns clients and orders.
type Seller struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Surname      string    `json:"surname"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

type Client struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	SellerID  string    `json:"seller_id"`
	CreatedAt time.Time `json:"created_at"`
}

type ClientInput struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname" validate:"required"`
	Company string `json:"company" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
}

// Store persists sellers and clients. Email is unique per collection; a
// duplicate insert or update returns apperr.ErrConflict.
type Store interface {
	InsertSeller(ctx context.Context, s Seller) error
	Seller(ctx context.Context, id string) (Seller, error)
	SellerByEmail(ctx context.Context, email string) (Seller, error)
	SellersByID(ctx context.Context, ids []string) (map[string]Seller, error)

	InsertClient(ctx context.Context, c Client) error
	Client(ctx context.Context, id string) (Client, error)
	ClientByEmail(ctx context.Context, email string) (Client, error)
	ClientsByID(ctx context.Context, ids []string) (map[string]Client, error)
	ListClients(ctx context.Context, sellerID string) ([]Client, error)
	UpdateClient(ctx context.Context, c Client) error
	DeleteClient(ctx context.Context, id string) error
}
