package router

import (
	"atoma-accounts-client/internal/handler"
	"atoma-accounts-client/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

// Config holds the configuration for creating the callback router.
type Config struct {
	CallbackHandler *handler.CallbackHandler
	StatusHandler   *handler.StatusHandler
	AccountHandler  *handler.AccountHandler
	LinkingHandler  *handler.LinkingHandler
}

// New creates and configures the callback server router.
func New(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	// Provider redirects land here.
	r.Get("/linking", cfg.CallbackHandler.Linking)

	r.Route("/api", func(r chi.Router) {
		r.Get("/status", cfg.StatusHandler.Status)

		r.Get("/linking/start", cfg.LinkingHandler.Start)
		r.Delete("/linking/{platform}/{platformID}", cfg.LinkingHandler.Unlink)

		r.Put("/account/name", cfg.AccountHandler.PutName)
		r.Post("/account/register", cfg.AccountHandler.Register)
		r.Delete("/account/email", cfg.AccountHandler.DeleteEmail)

		r.Post("/redemptions/{keyID}", cfg.AccountHandler.Redeem)
		r.Post("/characters/{characterID}/export", cfg.AccountHandler.CharacterExport)
	})

	return r
}
