package party

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	Store  Store
	Logger *zap.Logger
	Now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{Store: store, Logger: logger, Now: time.Now}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func normalize(in ClientInput) ClientInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Surname = strings.TrimSpace(in.Surname)
	in.Company = strings.TrimSpace(in.Company)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	return in
}

// CreateClient registers a client owned by actor.
func (s *Service) CreateClient(ctx context.Context, actor access.Actor, in ClientInput) (Client, error) {
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return Client{}, err
	}
	if _, err := s.Store.ClientByEmail(ctx, in.Email); err == nil {
		return Client{}, apperr.Conflict("client already registered")
	} else if !errors.Is(err, apperr.ErrNotFound) {
		return Client{}, err
	}

	c := Client{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Surname:   in.Surname,
		Company:   in.Company,
		Email:     in.Email,
		Phone:     in.Phone,
		SellerID:  actor.ID,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Store.InsertClient(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

// Lookup loads a client without any ownership check.
func (s *Service) Lookup(ctx context.Context, id string) (Client, error) {
	if !validID(id) {
		return Client{}, apperr.NotFound("client")
	}
	return s.Store.Client(ctx, id)
}

// Client loads a client the actor owns.
func (s *Service) Client(ctx context.Context, actor access.Actor, id string) (Client, error) {
	c, err := s.Lookup(ctx, id)
	if err != nil {
		return Client{}, err
	}
	if err := access.Authorize(actor, c.SellerID); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) ListClients(ctx context.Context) []Client {
	return s.list(ctx, "")
}

func (s *Service) ListSellerClients(ctx context.Context, actor access.Actor) []Client {
	return s.list(ctx, actor.ID)
}

func (s *Service) list(ctx context.Context, sellerID string) []Client {
	cs, err := s.Store.ListClients(ctx, sellerID)
	if err != nil {
		s.Logger.Error("list clients", zap.String("seller_id", sellerID), zap.Error(err))
		return []Client{}
	}
	return cs
}

// UpdateClient rewrites the client's contact data. The owning seller is fixed.
func (s *Service) UpdateClient(ctx context.Context, actor access.Actor, id string, in ClientInput) (Client, error) {
	c, err := s.Client(ctx, actor, id)
	if err != nil {
		return Client{}, err
	}
	in = normalize(in)
	if err := validation.Struct(in); err != nil {
		return Client{}, err
	}
	if in.Email != c.Email {
		if other, err := s.Store.ClientByEmail(ctx, in.Email); err == nil && other.ID != c.ID {
			return Client{}, apperr.Conflict("client already registered")
		}
	}
	c.Name, c.Surname, c.Company, c.Email, c.Phone = in.Name, in.Surname, in.Company, in.Email, in.Phone
	if err := s.Store.UpdateClient(ctx, c); err != nil {
		return Client{}, err
	}
	return c, nil
}

func (s *Service) DeleteClient(ctx context.Context, actor access.Actor, id string) (string, error) {
	if _, err := s.Client(ctx, actor, id); err != nil {
		return "", err
	}
	if err := s.Store.DeleteClient(ctx, id); err != nil {
		return "", err
	}
	return "client deleted", nil
}
