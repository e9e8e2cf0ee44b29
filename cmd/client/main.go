package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"atoma-accounts-client/internal/config"
	"atoma-accounts-client/internal/handler"
	"atoma-accounts-client/internal/notify"
	"atoma-accounts-client/internal/provider"
	"atoma-accounts-client/internal/router"
	"atoma-accounts-client/internal/service"
	"atoma-accounts-client/internal/store"
	"atoma-accounts-client/internal/transport"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting atoma accounts client...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize session store based on config
	var sessionStore store.Store
	switch cfg.Store.Type {
	case "redis":
		redisStore, err := store.NewRedisStore(store.RedisStoreConfig{
			Addr:     cfg.Store.RedisAddress(),
			Password: cfg.Store.RedisPassword,
			DB:       cfg.Store.RedisDB,
		})
		if err != nil {
			log.Fatalf("Failed to initialize Redis store: %v", err)
		}
		sessionStore = redisStore
		log.Println("Redis session store initialized")
	case "mysql":
		mysqlStore, err := store.NewMySQLStore(cfg.Store.MySQLDSN())
		if err != nil {
			log.Fatalf("Failed to initialize MySQL store: %v", err)
		}
		sessionStore = mysqlStore
		log.Println("MySQL session store initialized")
	case "memory":
		sessionStore = store.NewMemoryStore()
		log.Println("Memory session store initialized (state will not survive restarts)")
	default: // sqlite
		sqliteStore, err := store.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite store: %v", err)
		}
		sessionStore = sqliteStore
		log.Println("SQLite session store initialized")
	}
	defer sessionStore.Close()

	records := store.NewRecords(sessionStore)
	notifier := notify.NewLogNotifier()

	// Initialize services
	factory := transport.NewFactory(&cfg.API)
	session := service.NewSessionService(records, notifier, func(route string) {
		log.Printf("Navigate: %s", route)
	})
	accounts := service.NewAccountService(factory)
	signIn := service.NewSignInService(factory, records, session, accounts, notifier)
	linking := service.NewLinkingService(factory, records)
	redeem := service.NewRedeemService(factory)
	scheduler := service.NewKeepAliveScheduler(factory, records, session, accounts)

	// Restore a persisted session before anything else runs
	scheduler.Start(context.Background())
	defer scheduler.Stop()

	if session.Authorized() {
		log.Printf("Session restored for account %q", session.Account().AccountName)
	}

	// Provider redirect URLs
	providerCfg := &provider.Config{
		TwitchClientID: cfg.Provider.TwitchClientID,
		XboxClientID:   cfg.Provider.XboxClientID,
		RedirectURL:    cfg.Provider.RedirectURL,
	}
	if providerCfg.RedirectURL == "" {
		providerCfg.RedirectURL = cfg.Callback.Origin() + "/linking"
	}

	if !session.Authorized() {
		log.Printf("Sign in via Steam: %s", providerCfg.SteamURL(provider.ActionLogin))
		log.Printf("Sign in via Xbox:  %s", providerCfg.XboxURL(provider.ActionLogin))
	}

	// Initialize handlers
	callbackHandler := handler.NewCallbackHandler(signIn, session, linking, notifier, cfg.Callback.Origin())
	statusHandler := handler.NewStatusHandler(session)
	accountHandler := handler.NewAccountHandler(session, accounts, redeem)
	linkingHandler := handler.NewLinkingHandler(session, linking)

	// Create router
	r := router.New(router.Config{
		CallbackHandler: callbackHandler,
		StatusHandler:   statusHandler,
		AccountHandler:  accountHandler,
		LinkingHandler:  linkingHandler,
	})

	// Create callback HTTP server
	srv := &http.Server{
		Addr:         cfg.Callback.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Callback.ReadTimeout,
		WriteTimeout: cfg.Callback.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Callback server listening on %s", cfg.Callback.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down...")

	// Stop the refresh chain before the server so no continuation races
	// the shutdown.
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Callback.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Stopped")
}
