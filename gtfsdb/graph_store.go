package gtfsdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wayfinder.onebusaway.org/internal/logging"
	"wayfinder.onebusaway.org/internal/transit"
)

// ErrNoSnapshot is returned by LoadGraph when nothing has been stored yet.
var ErrNoSnapshot = errors.New("no transit graph stored in database")

// ImportMetadata describes the snapshot currently stored.
type ImportMetadata struct {
	ImportedAt time.Time
	StopCount  int
	LinkCount  int
}

// StoreGraph replaces the stored snapshot with graph in a single transaction.
func (c *Client) StoreGraph(ctx context.Context, graph *transit.Graph) error {
	start := time.Now()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer logging.SafeRollbackWithLogging(tx, c.logger, "store_graph")

	for _, stmt := range []string{"DELETE FROM stop_links", "DELETE FROM stops"} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("error clearing previous snapshot: %w", err)
		}
	}

	if err := insertStops(ctx, tx, graph, c.logger); err != nil {
		return err
	}
	if err := insertLinks(ctx, tx, graph, c.logger); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO import_metadata (id, imported_at, stop_count, link_count) VALUES (1, ?, ?, ?)`,
		start.Unix(), graph.StopCount(), graph.LinkCount())
	if err != nil {
		return fmt.Errorf("error writing import metadata: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "transit_graph_stored",
		slog.Int("stops", graph.StopCount()),
		slog.Int("links", graph.LinkCount()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func insertStops(ctx context.Context, tx *sql.Tx, graph *transit.Graph, logger *slog.Logger) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stops (stop_id, stop_lat, stop_lon) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, logger, "insert_stops")

	for _, id := range graph.Stops() {
		c, _ := graph.Coordinate(id)
		if _, err := stmt.ExecContext(ctx, string(id), c.Lat, c.Lng); err != nil {
			return fmt.Errorf("error inserting stop %s: %w", id, err)
		}
	}
	return nil
}

func insertLinks(ctx context.Context, tx *sql.Tx, graph *transit.Graph, logger *slog.Logger) error {
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO stop_links (from_stop_id, to_stop_id, line_id) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, logger, "insert_stop_links")

	for _, link := range graph.Links() {
		if _, err := stmt.ExecContext(ctx, string(link.From), string(link.To), link.Line); err != nil {
			return fmt.Errorf("error inserting link %s-%s (%s): %w", link.From, link.To, link.Line, err)
		}
	}
	return nil
}

// LoadGraph rebuilds the stored snapshot.
func (c *Client) LoadGraph(ctx context.Context) (*transit.Graph, error) {
	if _, err := c.Metadata(ctx); err != nil {
		return nil, err
	}

	builder := transit.NewGraphBuilder()
	if err := c.loadStops(ctx, builder); err != nil {
		return nil, err
	}
	if err := c.loadLinks(ctx, builder); err != nil {
		return nil, err
	}

	graph, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("error rebuilding transit graph: %w", err)
	}
	return graph, nil
}

func (c *Client) loadStops(ctx context.Context, builder *transit.GraphBuilder) error {
	rows, err := c.DB.QueryContext(ctx, `SELECT stop_id, stop_lat, stop_lon FROM stops`)
	if err != nil {
		return fmt.Errorf("error querying stops: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "load_stops")

	for rows.Next() {
		var (
			id       string
			lat, lon float64
		)
		if err := rows.Scan(&id, &lat, &lon); err != nil {
			return fmt.Errorf("error scanning stop: %w", err)
		}
		builder.AddStop(transit.StopID(id), transit.Coordinate{Lat: lat, Lng: lon})
	}
	return rows.Err()
}

func (c *Client) loadLinks(ctx context.Context, builder *transit.GraphBuilder) error {
	rows, err := c.DB.QueryContext(ctx, `SELECT from_stop_id, to_stop_id, line_id FROM stop_links`)
	if err != nil {
		return fmt.Errorf("error querying stop links: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "load_stop_links")

	for rows.Next() {
		var from, to, line string
		if err := rows.Scan(&from, &to, &line); err != nil {
			return fmt.Errorf("error scanning stop link: %w", err)
		}
		builder.AddLink(transit.StopID(from), transit.StopID(to), line)
	}
	return rows.Err()
}

// Metadata returns details of the stored snapshot, or ErrNoSnapshot.
func (c *Client) Metadata(ctx context.Context) (ImportMetadata, error) {
	var (
		meta       ImportMetadata
		importedAt int64
	)
	err := c.DB.QueryRowContext(ctx,
		`SELECT imported_at, stop_count, link_count FROM import_metadata WHERE id = 1`).
		Scan(&importedAt, &meta.StopCount, &meta.LinkCount)
	if errors.Is(err, sql.ErrNoRows) {
		return meta, ErrNoSnapshot
	}
	if err != nil {
		return meta, fmt.Errorf("error reading import metadata: %w", err)
	}
	meta.ImportedAt = time.Unix(importedAt, 0)
	return meta, nil
}
