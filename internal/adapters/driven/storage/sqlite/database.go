// Package sqlite provides a document database adapter backed by SQLite.
// Documents are stored as JSON in a single schemaless table; filters and
// ordering go through json_extract.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kerygma-labs/kerygma-cli/internal/core/domain"
	"github.com/kerygma-labs/kerygma-cli/internal/core/ports/driven"
)

// Ensure Database implements the interface.
var _ driven.Database = (*Database)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	PRIMARY KEY (collection, id)
);
`

// Database is a SQLite-backed driven.Database.
type Database struct {
	db   *sql.DB
	path string
}

// NewDatabase opens (or creates) the database under dataDir.
// If dataDir is empty, defaults to ~/.kerygma/data/kerygma.db.
func NewDatabase(dataDir string) (*Database, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kerygma", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "kerygma.db")

	// WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Database{db: db, path: dbPath}, nil
}

// Close closes the database connection.
func (d *Database) Close() error {
	return d.db.Close()
}

// Path returns the database file path.
func (d *Database) Path() string {
	return d.path
}

// Get retrieves a single document.
func (d *Database) Get(ctx context.Context, collection, id string) (driven.Document, error) {
	var raw string
	err := d.db.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return driven.Document{}, domain.ErrNotFound
	}
	if err != nil {
		return driven.Document{}, fmt.Errorf("get document: %w", err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return driven.Document{}, err
	}
	return driven.Document{ID: id, Data: data}, nil
}

// Set upserts a single document.
func (d *Database) Set(ctx context.Context, collection, id string, data map[string]any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	_, err = d.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
		collection, id, string(raw),
	)
	if err != nil {
		return fmt.Errorf("set document: %w", err)
	}
	return nil
}

// Update merges fields into an existing document. The read-modify-write
// runs inside a transaction so concurrent updates do not lose fields.
func (d *Database) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	data, err := decodeData(raw)
	if err != nil {
		return err
	}
	for k, v := range fields {
		data[k] = v
	}

	merged, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET data = ? WHERE collection = ? AND id = ?`,
		string(merged), collection, id,
	); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return tx.Commit()
}

// Delete removes a single document. Missing documents are not an error.
func (d *Database) Delete(ctx context.Context, collection, id string) error {
	_, err := d.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		collection, id,
	)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// Query runs a filtered, ordered, bounded read via json_extract.
func (d *Database) Query(ctx context.Context, q driven.Query) ([]driven.Document, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = ?`)
	args = append(args, q.Collection)

	for _, f := range q.Filters {
		switch f.Op {
		case driven.OpEq:
			sb.WriteString(` AND json_extract(data, ?) = ?`)
			args = append(args, "$."+f.Field, f.Value)
		case driven.OpIn:
			vals := inValues(f.Value)
			if len(vals) > driven.MaxInValues {
				return nil, fmt.Errorf("%w: %d values", domain.ErrTooManyValues, len(vals))
			}
			if len(vals) == 0 {
				return nil, nil
			}
			sb.WriteString(` AND json_extract(data, ?) IN (`)
			sb.WriteString(strings.TrimSuffix(strings.Repeat("?,", len(vals)), ","))
			sb.WriteString(`)`)
			args = append(args, "$."+f.Field)
			args = append(args, vals...)
		default:
			return nil, fmt.Errorf("%w: unsupported filter op %q", domain.ErrInvalidInput, f.Op)
		}
	}

	if q.OrderBy != "" {
		sb.WriteString(` ORDER BY json_extract(data, ?)`)
		args = append(args, "$."+q.OrderBy)
		if q.Descending {
			sb.WriteString(` DESC`)
		}
	}
	if q.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, q.Limit)
	}

	rows, err := d.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []driven.Document
	for rows.Next() {
		var (
			id  string
			raw string
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		data, err := decodeData(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, driven.Document{ID: id, Data: data})
	}
	return docs, rows.Err()
}

// BatchWrite applies all operations inside one transaction.
func (d *Database) BatchWrite(ctx context.Context, ops []driven.WriteOp) error {
	if len(ops) > driven.MaxBatchOps {
		return fmt.Errorf("%w: %d operations", domain.ErrBatchTooLarge, len(ops))
	}

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, op := range ops {
		switch op.Kind {
		case driven.WriteSet:
			raw, err := json.Marshal(op.Data)
			if err != nil {
				return fmt.Errorf("encode document: %w", err)
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)
				 ON CONFLICT (collection, id) DO UPDATE SET data = excluded.data`,
				op.Collection, op.ID, string(raw),
			); err != nil {
				return fmt.Errorf("batch set: %w", err)
			}
		case driven.WriteDelete:
			if _, err := tx.ExecContext(ctx,
				`DELETE FROM documents WHERE collection = ? AND id = ?`,
				op.Collection, op.ID,
			); err != nil {
				return fmt.Errorf("batch delete: %w", err)
			}
		default:
			return fmt.Errorf("%w: unknown write kind %d", domain.ErrInvalidInput, op.Kind)
		}
	}

	return tx.Commit()
}

func decodeData(raw string) (map[string]any, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return data, nil
}

func inValues(v any) []any {
	switch vals := v.(type) {
	case []any:
		return vals
	case []string:
		out := make([]any, len(vals))
		for i, s := range vals {
			out[i] = s
		}
		return out
	default:
		return []any{v}
	}
}
