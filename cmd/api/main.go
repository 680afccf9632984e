package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/lumabay/storechat/internal/config"
	"github.com/lumabay/storechat/internal/genai"
	"github.com/lumabay/storechat/internal/handler"
	chatservice "github.com/lumabay/storechat/internal/service/chat"
	"github.com/lumabay/storechat/internal/session"
	sessionpg "github.com/lumabay/storechat/internal/session/postgres"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	store, cleanup, err := newSessionStore(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("failed to initialize session store: %v", err)
	}
	defer cleanup()

	genClient := genai.NewClient(cfg.GenAI.BaseURL, cfg.GenAI.APIKey, cfg.GenAI.Model, cfg.GenAI.Timeout)
	chatSvc := chatservice.NewService(store, genClient)

	router := handler.NewRouter(chatSvc)

	startServer(ctx, cfg.Server, router)
}

// newSessionStore picks the Postgres store when DATABASE_URL is configured
// and falls back to the in-memory map otherwise.
func newSessionStore(ctx context.Context, cfg config.DatabaseConfig) (session.Store, func(), error) {
	if cfg.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory session store")
		return session.NewMemoryStore(), func() {}, nil
	}

	pool, err := pgxpool.New(ctx, cfg.URL)
	if err != nil {
		return nil, nil, err
	}

	pgStore := sessionpg.NewStore(pool)
	if err := pgStore.CreateSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	log.Println("using Postgres session store")
	return pgStore, pool.Close, nil
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("storechat relay listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
