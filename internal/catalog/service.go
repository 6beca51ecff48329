package catalog

import (
	"context"
	"time"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const SearchLimit = 10

// Service is the product CRUD surface. Stock changes driven by orders go
// through the stock engine instead.
type Service struct {
	Store  Store
	Logger *zap.Logger
	Now    func() time.Time
}

func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{Store: store, Logger: logger, Now: time.Now}
}

// ValidID rejects ids that could never have been issued.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func validate(in ProductInput) error {
	if err := validation.Struct(in); err != nil {
		return err
	}
	if in.Price.IsNegative() {
		return apperr.Invalid("price must be greater than or equal to 0")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in ProductInput) (Product, error) {
	if err := validate(in); err != nil {
		return Product{}, err
	}
	p := Product{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Quantity:  in.Quantity,
		Price:     in.Price,
		CreatedAt: s.Now().UTC(),
	}
	if err := s.Store.Insert(ctx, p); err != nil {
		return Product{}, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (Product, error) {
	if !ValidID(id) {
		return Product{}, apperr.NotFound("product")
	}
	return s.Store.Get(ctx, id)
}

// List never fails; store errors are logged and an empty list returned.
func (s *Service) List(ctx context.Context) []Product {
	ps, err := s.Store.List(ctx)
	if err != nil {
		s.Logger.Error("list products", zap.Error(err))
		return []Product{}
	}
	return ps
}

func (s *Service) Search(ctx context.Context, text string) []Product {
	ps, err := s.Store.Search(ctx, text, SearchLimit)
	if err != nil {
		s.Logger.Error("search products", zap.String("text", text), zap.Error(err))
		return []Product{}
	}
	return ps
}

func (s *Service) Update(ctx context.Context, id string, in ProductInput) (Product, error) {
	cur, err := s.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	if err := validate(in); err != nil {
		return Product{}, err
	}
	cur.Name, cur.Quantity, cur.Price = in.Name, in.Quantity, in.Price
	if err := s.Store.Update(ctx, cur); err != nil {
		return Product{}, err
	}
	return cur, nil
}

func (s *Service) Delete(ctx context.Context, id string) (string, error) {
	if !ValidID(id) {
		return "", apperr.NotFound("product")
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		return "", err
	}
	return "product deleted", nil
}
