// Package sqlite stores the ledgers in a local SQLite file. Cells are kept as
// text, the same way the spreadsheet holds them, so the record parser sees
// identical input whichever store is configured.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// Repository is a SQLite backed ledger store.
type Repository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRepository opens (creating if needed) the database at dbPath and migrates it.
func NewRepository(dbPath string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create db directory: %v", models.ErrStoreUnavailable, err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", models.ErrStoreUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", models.ErrStoreUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	logger.Info("opened ledger database", zap.String("path", dbPath))
	return &Repository{db: db, logger: logger}, nil
}

// Close releases the database handle.
func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// AppendRecord inserts one row. Missing trailing values are stored as "".
func (r *Repository) AppendRecord(ctx context.Context, table models.Table, values []interface{}) error {
	headers := table.Columns()
	if headers == nil {
		return &models.WriteFailure{Table: table, Err: fmt.Errorf("unknown table %s", table)}
	}
	if len(values) > len(headers) {
		return &models.WriteFailure{Table: table, Err: fmt.Errorf("got %d values for %d columns", len(values), len(headers))}
	}

	args := make([]interface{}, len(headers))
	for i := range headers {
		args[i] = ""
		if i < len(values) && values[i] != nil {
			args[i] = fmt.Sprint(values[i])
		}
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(headers)), ", ")
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", tableName(table), strings.Join(columnNames(headers), ", "), placeholders)

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return &models.WriteFailure{Table: table, Err: err}
	}

	r.logger.Debug("row appended to ledger", zap.String("table", table.String()))
	return nil
}

// FetchAllRecords returns every row of the table keyed by header, in insertion order.
func (r *Repository) FetchAllRecords(ctx context.Context, table models.Table) ([]models.Record, error) {
	headers := table.Columns()
	if headers == nil {
		return nil, fmt.Errorf("unknown table %s", table)
	}

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY id ASC", strings.Join(columnNames(headers), ", "), tableName(table))
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", models.ErrStoreUnavailable, table, err)
	}
	defer rows.Close()

	records := []models.Record{}
	for rows.Next() {
		cells := make([]sql.NullString, len(headers))
		dest := make([]interface{}, len(headers))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}

		record := make(models.Record, len(headers))
		for i, h := range headers {
			record[h] = cells[i].String
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s rows: %w", table, err)
	}

	return records, nil
}

func tableName(table models.Table) string {
	return strings.ToLower(table.String())
}

func columnNames(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.ToLower(h)
	}
	return out
}
