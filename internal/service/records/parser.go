// Package records turns raw ledger rows into typed, date-ordered entities.
//
// Every parser is fail-fast: the first cell that cannot be coerced aborts the
// whole table with a *models.ParseError. An empty table is not an error.
package records

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// ParseDailyLog converts Daily_Log rows.
func ParseDailyLog(rows []models.Record) ([]models.DailyLogEntry, error) {
	out := make([]models.DailyLogEntry, 0, len(rows))
	for i, row := range rows {
		c := cursor{table: models.TableDailyLog, row: i + 1, record: row}

		entry := models.DailyLogEntry{
			Date:           c.date(),
			EggsCollected:  c.integer(models.ColumnEggsCollected),
			FeedBagsOpened: c.integer(models.ColumnFeedBagsOpened),
			Notes:          c.text(models.ColumnNotes),
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, entry)
	}
	sortByDate(out, func(e models.DailyLogEntry) time.Time { return e.Date })
	return out, nil
}

// ParseSales converts Sales rows. Unknown status labels are kept verbatim.
func ParseSales(rows []models.Record) ([]models.SaleEntry, error) {
	out := make([]models.SaleEntry, 0, len(rows))
	for i, row := range rows {
		c := cursor{table: models.TableSales, row: i + 1, record: row}

		status, _ := models.ParseSaleStatus(c.text(models.ColumnStatus))
		entry := models.SaleEntry{
			Date:       c.date(),
			Customer:   c.text(models.ColumnCustomer),
			DozensSold: c.integer(models.ColumnDozensSold),
			TotalPrice: c.money(models.ColumnTotalPrice),
			Status:     status,
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, entry)
	}
	sortByDate(out, func(e models.SaleEntry) time.Time { return e.Date })
	return out, nil
}

// ParseFlock converts Flock rows. Actions that match neither Add nor Remove
// are kept verbatim; rejecting them is the balance calculator's job.
func ParseFlock(rows []models.Record) ([]models.FlockEvent, error) {
	out := make([]models.FlockEvent, 0, len(rows))
	for i, row := range rows {
		c := cursor{table: models.TableFlock, row: i + 1, record: row}

		action, _ := models.ParseFlockAction(c.text(models.ColumnAction))
		event := models.FlockEvent{
			Date:     c.date(),
			Action:   action,
			Quantity: c.integer(models.ColumnQuantity),
			Reason:   c.text(models.ColumnReason),
		}
		if c.err != nil {
			return nil, c.err
		}
		out = append(out, event)
	}
	sortByDate(out, func(e models.FlockEvent) time.Time { return e.Date })
	return out, nil
}

// sortByDate orders ascending; ties keep ledger order so sorting twice is a no-op.
func sortByDate[T any](items []T, date func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		return date(a).Compare(date(b))
	})
}

// cursor reads typed cells from one record and keeps the first failure.
type cursor struct {
	table  models.Table
	row    int
	record models.Record
	err    error
}

func (c *cursor) fail(column string, value interface{}, err error) {
	if c.err != nil {
		return
	}
	c.err = &models.ParseError{Table: c.table, Row: c.row, Column: column, Value: value, Err: err}
}

func (c *cursor) date() time.Time {
	value := c.record[models.ColumnDate]
	t, err := parseDate(value)
	if err != nil {
		c.fail(models.ColumnDate, value, err)
	}
	return t
}

func (c *cursor) integer(column string) int {
	value := c.record[column]
	n, err := parseInt(value)
	if err != nil {
		c.fail(column, value, err)
	}
	return n
}

func (c *cursor) money(column string) decimal.Decimal {
	value := c.record[column]
	d, err := parseMoney(value)
	if err != nil {
		c.fail(column, value, err)
	}
	return d
}

func (c *cursor) text(column string) string {
	return parseText(c.record[column])
}
