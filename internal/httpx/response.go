package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ariefcatur/go-sales-orders/internal/apperr"
)

type Request struct {
	Operation string          `json:"operation"`
	Variables json.RawMessage `json:"variables"`
}

type ErrorEntry struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Response struct {
	Data   any          `json:"data,omitempty"`
	Errors []ErrorEntry `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(code string) int {
	switch code {
	case "NOT_FOUND":
		return http.StatusNotFound
	case "FORBIDDEN":
		return http.StatusForbidden
	case "CONFLICT", "INSUFFICIENT_STOCK":
		return http.StatusConflict
	case "VALIDATION":
		return http.StatusBadRequest
	case "UNAUTHENTICATED":
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeError hides internal failures behind a generic message.
func writeError(w http.ResponseWriter, err error) {
	code := apperr.Code(err)
	msg := err.Error()
	var short *apperr.InsufficientStockError
	switch {
	case errors.As(err, &short):
		msg = short.Error()
	case code == "INTERNAL":
		msg = "internal error"
	}
	writeJSON(w, statusOf(code), Response{Errors: []ErrorEntry{{Message: msg, Code: code}}})
}
