package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/finapi/go-ledger/internal/app/core/adapter/in/rest"
	"github.com/finapi/go-ledger/internal/app/core/adapter/out/memory"
	pgadapter "github.com/finapi/go-ledger/internal/app/core/adapter/out/postgres"
	"github.com/finapi/go-ledger/internal/app/core/adapter/out/sqldb"
	"github.com/finapi/go-ledger/internal/app/core/usecase"
	"github.com/finapi/go-ledger/internal/config"
	"github.com/finapi/go-ledger/pkg/mysql"
	"github.com/finapi/go-ledger/pkg/postgres"
	"github.com/finapi/go-ledger/pkg/wal"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	statements, users, cleanup, err := buildStorage(context.Background(), cfg)
	if err != nil {
		log.Fatalf("init storage (%s): %v", cfg.Storage.Backend, err)
	}
	defer cleanup()

	ledger := usecase.NewLedgerUseCase(users, statements)
	userUC := usecase.NewUserUseCase(users)

	srv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: rest.NewServer(ledger, userUC).Router(),
	}

	go func() {
		log.Printf("ledger listening on %s (backend=%s)", cfg.Server.Addr, cfg.Storage.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server exited")
}

// buildStorage wires the configured backend behind the two ports. The
// returned cleanup releases whatever the backend holds open.
func buildStorage(ctx context.Context, cfg config.Config) (usecase.StatementStore, usecase.UserDirectory, func(), error) {
	noop := func() {}

	switch cfg.Storage.Backend {
	case "memory":
		var w *wal.WAL
		if cfg.WAL.Path != "" {
			var err error
			w, err = wal.Open(cfg.WAL.Path)
			if err != nil {
				return nil, nil, nil, fmt.Errorf("open wal: %w", err)
			}
		}
		store, err := memory.NewStore(w)
		if err != nil {
			return nil, nil, nil, err
		}
		cleanup := noop
		if w != nil {
			cleanup = func() { _ = w.Close() }
		}
		return store, memory.NewDirectory(), cleanup, nil

	case "mysql":
		client, err := mysql.NewClient(cfg.MySQL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := sqldb.Migrate(client.DB()); err != nil {
			_ = client.Close()
			return nil, nil, nil, err
		}
		cleanup := func() { _ = client.Close() }
		return sqldb.NewStore(client.DB()), sqldb.NewDirectory(client.DB()), cleanup, nil

	case "sqlite":
		db, err := gorm.Open(sqlite.Open(cfg.SQLite.Path), &gorm.Config{TranslateError: true})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("open sqlite: %w", err)
		}
		if err := sqldb.Migrate(db); err != nil {
			return nil, nil, nil, err
		}
		cleanup := func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		}
		return sqldb.NewStore(db), sqldb.NewDirectory(db), cleanup, nil

	case "postgres":
		pool, err := postgres.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := postgres.ApplyMigrations(ctx, pool, cfg.Postgres.MigrationsDir); err != nil {
			pool.Close()
			return nil, nil, nil, fmt.Errorf("migrations: %w", err)
		}
		return pgadapter.NewStore(pool), pgadapter.NewDirectory(pool), pool.Close, nil

	default:
		return nil, nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}
}
