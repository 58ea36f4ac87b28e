package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// Repository keeps the ledgers in process memory. It backs tests and demo runs.
type Repository struct {
	mu     sync.Mutex
	rows   map[models.Table][][]interface{}
	failOn map[models.Table]error
}

// NewRepository returns an empty in-memory ledger store.
func NewRepository() *Repository {
	return &Repository{
		rows:   make(map[models.Table][][]interface{}),
		failOn: make(map[models.Table]error),
	}
}

// Seed appends raw rows without validation, the way rows typed into the
// spreadsheet by hand would arrive.
func (r *Repository) Seed(table models.Table, rows ...[]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, row := range rows {
		r.rows[table] = append(r.rows[table], append([]interface{}(nil), row...))
	}
}

// FailAppends makes every append to table fail with err; nil clears it.
func (r *Repository) FailAppends(table models.Table, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err == nil {
		delete(r.failOn, table)
		return
	}
	r.failOn[table] = err
}

// AppendRecord stores one row.
func (r *Repository) AppendRecord(_ context.Context, table models.Table, values []interface{}) error {
	if !table.Valid() {
		return &models.WriteFailure{Table: table, Err: fmt.Errorf("unknown table %s", table)}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failOn[table]; err != nil {
		return &models.WriteFailure{Table: table, Err: err}
	}
	r.rows[table] = append(r.rows[table], append([]interface{}(nil), values...))
	return nil
}

// FetchAllRecords returns the table's rows keyed by header, in insertion order.
func (r *Repository) FetchAllRecords(_ context.Context, table models.Table) ([]models.Record, error) {
	headers := table.Columns()
	if headers == nil {
		return nil, fmt.Errorf("unknown table %s", table)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	records := make([]models.Record, 0, len(r.rows[table]))
	for _, row := range r.rows[table] {
		record := make(models.Record, len(headers))
		for i, h := range headers {
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}
	return records, nil
}
