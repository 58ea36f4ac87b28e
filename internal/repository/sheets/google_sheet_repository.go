package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/coopcontrol/internal/config"
	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// Repository defines the ledger operations supported by the Google Sheets adapter.
type Repository interface {
	AppendRecord(ctx context.Context, table models.Table, values []interface{}) error
	FetchAllRecords(ctx context.Context, table models.Table) ([]models.Record, error)
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
// Each ledger table is a worksheet whose first row holds the column headers.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance and
// checks that every ledger worksheet is reachable.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	switch {
	case cfg.CredentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.CredentialsJSON)))
	case cfg.CredentialsPath != "":
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsPath))
	default:
		return nil, fmt.Errorf("%w: no service account credentials", models.ErrStoreUnavailable)
	}

	service, err := sheetsapi.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: initialize sheets client: %v", models.ErrStoreUnavailable, err)
	}

	repo := &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}

	if err := repo.Probe(ctx); err != nil {
		return nil, err
	}

	return repo, nil
}

// Probe reads the header row of every ledger worksheet.
func (r *GoogleSheetRepository) Probe(ctx context.Context) error {
	for _, table := range models.Tables() {
		if _, err := r.ReadRange(ctx, fmt.Sprintf("%s!1:1", table)); err != nil {
			return fmt.Errorf("%w: worksheet %s: %v", models.ErrStoreUnavailable, table, err)
		}
	}
	r.logger.Info("connected to ledger spreadsheet", zap.String("spreadsheet_id", r.spreadsheetID))
	return nil
}

// AppendRecord appends one row to the table's worksheet.
func (r *GoogleSheetRepository) AppendRecord(ctx context.Context, table models.Table, values []interface{}) error {
	sheetRange, err := tableRange(table)
	if err != nil {
		return &models.WriteFailure{Table: table, Err: err}
	}
	if err := r.WriteRow(ctx, sheetRange, values); err != nil {
		return &models.WriteFailure{Table: table, Err: err}
	}
	return nil
}

// FetchAllRecords returns every data row of the table keyed by header, in sheet order.
func (r *GoogleSheetRepository) FetchAllRecords(ctx context.Context, table models.Table) ([]models.Record, error) {
	sheetRange, err := tableRange(table)
	if err != nil {
		return nil, err
	}

	rows, err := r.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrStoreUnavailable, err)
	}

	return recordsFromRows(rows), nil
}

const valueInputRaw = "RAW"

// WriteRow appends the provided values to the supplied sheet range. Values are
// stored RAW: dates stay ISO text regardless of the sheet locale and a leading
// "=" or "+" is never evaluated as a formula.
func (r *GoogleSheetRepository) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	if sheetRange == "" {
		return fmt.Errorf("sheetRange must not be empty")
	}

	payload := &sheetsapi.ValueRange{Values: [][]interface{}{values}}

	call := r.service.Spreadsheets.Values.Append(r.spreadsheetID, sheetRange, payload).
		ValueInputOption(valueInputRaw).
		InsertDataOption("INSERT_ROWS").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("append row into range %s: %w", sheetRange, err)
	}

	r.logger.Debug("row appended to sheet", zap.String("range", sheetRange))
	return nil
}

// ReadRange fetches a rectangular data range from the spreadsheet.
func (r *GoogleSheetRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if sheetRange == "" {
		return nil, fmt.Errorf("sheetRange must not be empty")
	}

	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, sheetRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("read range %s: %w", sheetRange, err)
	}

	return resp.Values, nil
}

// tableRange spans the table's columns, e.g. "Sales!A:E".
func tableRange(table models.Table) (string, error) {
	cols := table.Columns()
	if len(cols) == 0 {
		return "", errors.New("unknown table " + table.String())
	}
	last := string(rune('A' + len(cols) - 1))
	return fmt.Sprintf("%s!A:%s", table, last), nil
}

// recordsFromRows keys each data row by the header row. The API drops trailing
// empty cells, so short rows are padded with "". Fully blank rows are skipped.
func recordsFromRows(rows [][]interface{}) []models.Record {
	if len(rows) == 0 {
		return []models.Record{}
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(fmt.Sprint(h))
	}

	records := make([]models.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if blankRow(row) {
			continue
		}
		record := make(models.Record, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				record[h] = row[i]
			} else {
				record[h] = ""
			}
		}
		records = append(records, record)
	}
	return records
}

func blankRow(row []interface{}) bool {
	for _, cell := range row {
		if strings.TrimSpace(fmt.Sprint(cell)) != "" {
			return false
		}
	}
	return true
}
