// Package database owns the storage connection of the service. A Store is
// opened once at startup, health-checked through Ping and released with Close
// when the server shuts down.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Driver string

const (
	DriverMongo    Driver = "mongo"
	DriverPostgres Driver = "postgres"
	DriverMemory   Driver = "memory"
)

const (
	connectTimeout  = 10 * time.Second
	defaultDatabase = "registration"
)

var ErrUnsupportedScheme = errors.New("unsupported database url scheme")

// Options tune how a Store is opened.
type Options struct {
	// SQLDriver is the database/sql driver used for postgres urls:
	// "pgx" (default) or "postgres" for lib/pq.
	SQLDriver string
}

type Store struct {
	Driver Driver

	// Mongo is set for DriverMongo.
	Mongo *mongo.Database
	// SQL is set for DriverPostgres.
	SQL *sql.DB

	client *mongo.Client
}

// DriverFor picks the backend from the scheme of a connection string.
func DriverFor(rawURL string) (Driver, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse database url: %w", err)
	}
	switch strings.ToLower(u.Scheme) {
	case "mongodb", "mongodb+srv":
		return DriverMongo, nil
	case "postgres", "postgresql":
		return DriverPostgres, nil
	case "memory":
		return DriverMemory, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
}

// Open connects to the store named by rawURL and verifies it with a ping.
func Open(ctx context.Context, rawURL string, opts Options) (*Store, error) {
	driver, err := DriverFor(rawURL)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch driver {
	case DriverMongo:
		return openMongo(ctx, rawURL)
	case DriverPostgres:
		return openPostgres(ctx, rawURL, opts.SQLDriver)
	default:
		return &Store{Driver: DriverMemory}, nil
	}
}

func openMongo(ctx context.Context, rawURL string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(rawURL))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	return &Store{
		Driver: DriverMongo,
		Mongo:  client.Database(MongoDatabaseName(rawURL)),
		client: client,
	}, nil
}

func openPostgres(ctx context.Context, rawURL, sqlDriver string) (*Store, error) {
	if sqlDriver == "" {
		sqlDriver = "pgx"
	}
	db, err := sql.Open(sqlDriver, rawURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{Driver: DriverPostgres, SQL: db}, nil
}

// MongoDatabaseName returns the database named in the url path, falling back
// to "registration" when the path is empty.
func MongoDatabaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return defaultDatabase
	}
	name := strings.Trim(u.Path, "/")
	if name == "" {
		return defaultDatabase
	}
	return name
}

func (s *Store) Ping(ctx context.Context) error {
	switch s.Driver {
	case DriverMongo:
		return s.client.Ping(ctx, nil)
	case DriverPostgres:
		return s.SQL.PingContext(ctx)
	default:
		return nil
	}
}

func (s *Store) Close(ctx context.Context) error {
	switch s.Driver {
	case DriverMongo:
		return s.client.Disconnect(ctx)
	case DriverPostgres:
		return s.SQL.Close()
	default:
		return nil
	}
}
