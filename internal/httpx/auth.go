package httpx

import (
	"net/http"

	"github.com/ariefcatur/go-sales-orders/internal/access"
	"github.com/ariefcatur/go-sales-orders/internal/apperr"
	"github.com/ariefcatur/go-sales-orders/internal/auth"
	"go.uber.org/zap"
)

// Authenticate resolves the bearer credential once per request. Requests
// without a header pass through anonymously; a bad token is rejected.
func (a *API) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if h == "" {
			next.ServeHTTP(w, r)
			return
		}
		token, ok := auth.BearerToken(h)
		if !ok {
			writeError(w, apperr.ErrUnauthenticated)
			return
		}
		actor, err := a.Auth.Verify(token)
		if err != nil {
			a.Logger.Debug("rejected credential", zap.Error(err))
			writeError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(access.WithActor(r.Context(), actor)))
	})
}
