// Package auth issues and verifies seller credentials. The rest of the
// service only sees the resulting access.Actor.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/party"
	"github.com/ariefcatur/go-sales-orders/internal/validation"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type RegisterInput struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Claims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
	jwt.RegisteredClaims
}

type Provider struct {
	Store  party.Store
	Secret []byte
	TTL    time.Duration
	Cost   int
	Now    func() time.Time
}

func NewProvider(store party.Store, secret string, ttl time.Duration) *Provider {
	return &Provider{Store: store, Secret: []byte(secret), TTL: ttl, Cost: bcrypt.DefaultCost, Now: time.Now}
}

func (p *Provider) Register(ctx context.Context, in RegisterInput) (party.Seller, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return party.Seller{}, err
	}
	if _, err := p.Store.SellerByEmail(ctx, in.Email); err == nil {
		return party.Seller{}, apperr.Conflict("user already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return party.Seller{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.Cost)
	if err != nil {
		return party.Seller{}, fmt.Errorf("hash password: %w", err)
	}
	s := party.Seller{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Surname:      strings.TrimSpace(in.Surname),
		Email:        in.Email,
		PasswordHash: string(hash),
		CreatedAt:    p.Now().UTC(),
	}
	if err := p.Store.InsertSeller(ctx, s); err != nil {
		return party.Seller{}, err
	}
	return s, nil
}

// Authenticate checks the password and returns a signed token.
func (p *Provider) Authenticate(ctx context.Context, in LoginInput) (string, error) {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if err := validation.Struct(in); err != nil {
		return "", err
	}
	s, err := p.Store.SellerByEmail(ctx, in.Email)
	if err != nil {
		return "", err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.PasswordHash), []byte(in.Password)); err != nil {
		return "", fmt.Errorf("password is incorrect: %w", apperr.ErrUnauthenticated)
	}
	return p.Issue(s)
}

func (p *Provider) Issue(s party.Seller) (string, error) {
	now := p.Now()
	claims := Claims{
		Email:   s.Email,
		Name:    s.Name,
		Surname: s.Surname,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(p.TTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(p.Secret)
}

// Verify turns a token into the actor it was issued for.
func (p *Provider) Verify(token string) (access.Actor, error) {
	var c Claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return p.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(p.Now),
	)
	if err != nil {
		return access.Actor{}, fmt.Errorf("%v: %w", err, apperr.ErrUnauthenticated)
	}
	if c.Subject == "" {
		return access.Actor{}, fmt.Errorf("token has no subject: %w", apperr.ErrUnauthenticated)
	}
	return access.Actor{ID: c.Subject, Email: c.Email, Name: c.Name, Surname: c.Surname}, nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}
