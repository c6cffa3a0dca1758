package gtfsdb

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"wayfinder.onebusaway.org/internal/appconf"
	"wayfinder.onebusaway.org/internal/logging"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

//go:embed schema.sql
var ddl string

// ErrFileDatabaseInTest is returned when a test configuration points at a file.
var ErrFileDatabaseInTest = errors.New("test database must use in-memory storage")

// Client stores transit graph snapshots in SQLite.
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database and applies the schema.
func NewClient(config Config) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With(slog.String("component", "gtfsdb"))
	if config.verbose {
		logger.Info("database ready", slog.String("path", config.DBPath))
	}

	return &Client{
		config: config,
		DB:     db,
		logger: logger,
	}, nil
}

// WithLogger replaces the client's logger.
func (c *Client) WithLogger(logger *slog.Logger) *Client {
	if logger != nil {
		c.logger = logger.With(slog.String("component", "gtfsdb"))
	}
	return c
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && !config.inMemory() {
		return nil, fmt.Errorf("%w: got %q", ErrFileDatabaseInTest, config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Every connection to ":memory:" is a separate database.
	if config.inMemory() {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx := context.Background()
	if err := performDatabaseMigration(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}

	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(ddl, "-- migrate") {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}

// TableCounts returns the row count of every table, keyed by table name.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	tables, err := c.tableNames(ctx)
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		// Table names come from sqlite_master, not user input.
		if err := c.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			return nil, fmt.Errorf("error counting %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}

func (c *Client) tableNames(ctx context.Context) ([]string, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("error listing tables: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "list_tables")

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("error scanning table name: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}
