package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"atoma-accounts-client/pkg/response"
)

// Recovery is a middleware that recovers from panics in callback handlers.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("PANIC: %v\n%s", err, debug.Stack())
				response.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
