// Package access decides whether an authenticated seller may touch a resource.
package access

import (
	"context"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
)

// Actor is the authenticated seller resolved once at the request boundary.
type Actor struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Surname string `json:"surname"`
}

// Authorize fails with apperr.ErrForbidden unless actor owns the resource.
func Authorize(actor Actor, ownerID string) error {
	if actor.ID == "" || actor.ID != ownerID {
		return apperr.Forbidden("you do not have permission")
	}
	return nil
}

type ctxKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext returns the actor set by the auth middleware.
func FromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	return a, ok
}
