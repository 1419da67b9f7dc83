package middleware

import (
	"net/http"

	"github.com/greatawakening/checkout-service/internal/utils"
)

// Recovery converts a panic anywhere below it into a 500 JSON response.
// Stripe treats any non-2xx as a signal to redeliver, so an unclassified
// failure still gets retried instead of silently dropping the connection.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				utils.Logger.Errorf("Panic while handling %s %s: %v", r.Method, r.URL.Path, rec)
				utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "An unexpected error occurred", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
