package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wichananm65/registration-service/internal/config"
	"github.com/wichananm65/registration-service/internal/infrastructure/database"
	"github.com/wichananm65/registration-service/internal/interface/http/router"
	"github.com/wichananm65/registration-service/internal/user"
)

const shutdownTimeout = 10 * time.Second

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	ctx := context.Background()

	store, err := database.Open(ctx, cfg.DatabaseURL, database.Options{SQLDriver: cfg.SQLDriver})
	if err != nil {
		log.Fatalf("database connection error: %v", err)
	}
	log.Printf("connected to %s storage", store.Driver)

	repo, err := newRepository(ctx, store)
	if err != nil {
		_ = store.Close(ctx)
		log.Fatalf("prepare storage: %v", err)
	}

	userService := user.NewService(repo)
	userHandler := user.NewHandler(userService)

	app := router.New(router.Config{CORSOrigin: cfg.CORSOrigin}, store, userHandler)

	go func() {
		log.Printf("server listening on %s", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			log.Printf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Printf("server shutdown: %v", err)
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := store.Close(closeCtx); err != nil {
		log.Printf("close storage: %v", err)
	}
}

// newRepository picks the user repository for the opened store and makes
// sure email uniqueness is enforced by the backend.
func newRepository(ctx context.Context, store *database.Store) (user.Repository, error) {
	switch store.Driver {
	case database.DriverMongo:
		repo := user.NewMongoRepository(store.Mongo)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case database.DriverPostgres:
		repo := user.NewPostgresRepository(store.SQL)
		if err := repo.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		return repo, nil
	case database.DriverMemory:
		return user.NewInMemoryRepository(nil), nil
	default:
		return nil, fmt.Errorf("no user repository for driver %q", store.Driver)
	}
}
