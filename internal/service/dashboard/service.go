package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
	"github.com/mamadbah2/coopcontrol/internal/service/records"
)

// ErrInvalidEntry indicates a submitted entry failed the form bounds.
var ErrInvalidEntry = errors.New("invalid entry")

// LedgerStore is the append-only tabular store holding the three ledgers.
type LedgerStore interface {
	AppendRecord(ctx context.Context, table models.Table, values []interface{}) error
	FetchAllRecords(ctx context.Context, table models.Table) ([]models.Record, error)
}

// Ledgers is one snapshot of the three tables. A table that failed to parse is
// left empty and its error recorded in Failed.
type Ledgers struct {
	DailyLog []models.DailyLogEntry
	Sales    []models.SaleEntry
	Flock    []models.FlockEvent
	Failed   map[models.Table]error
}

// Service runs the fetch-and-fold pass behind every view and the three writes.
type Service struct {
	store  LedgerStore
	logger *zap.Logger
	now    func() time.Time
}

// NewService constructs a dashboard service.
func NewService(store LedgerStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// LogDaily appends a Daily_Log row.
func (s *Service) LogDaily(ctx context.Context, entry models.DailyLogEntry) error {
	if err := entry.Validate(); err != nil {
		return errors.Join(ErrInvalidEntry, err)
	}
	return s.append(ctx, models.TableDailyLog, entry.Row())
}

// LogSale appends a Sales row.
func (s *Service) LogSale(ctx context.Context, sale models.SaleEntry) error {
	if err := sale.Validate(); err != nil {
		return errors.Join(ErrInvalidEntry, err)
	}
	return s.append(ctx, models.TableSales, sale.Row())
}

// RecordFlockEvent appends a Flock row. Actions other than Add and Remove are
// rejected here so they never enter the ledger.
func (s *Service) RecordFlockEvent(ctx context.Context, event models.FlockEvent) error {
	if err := event.Validate(); err != nil {
		return errors.Join(ErrInvalidEntry, err)
	}
	return s.append(ctx, models.TableFlock, event.Row())
}

func (s *Service) append(ctx context.Context, table models.Table, values []interface{}) error {
	if err := s.store.AppendRecord(ctx, table, values); err != nil {
		s.logger.Warn("ledger append rejected", zap.String("table", table.String()), zap.Error(err))
		var wf *models.WriteFailure
		if errors.As(err, &wf) {
			return err
		}
		return &models.WriteFailure{Table: table, Err: err}
	}
	s.logger.Debug("ledger row appended", zap.String("table", table.String()))
	return nil
}

// DailyLog returns the parsed Daily_Log.
func (s *Service) DailyLog(ctx context.Context) ([]models.DailyLogEntry, error) {
	rows, err := s.fetch(ctx, models.TableDailyLog)
	if err != nil {
		return nil, err
	}
	return records.ParseDailyLog(rows)
}

// Sales returns the parsed Sales ledger.
func (s *Service) Sales(ctx context.Context) ([]models.SaleEntry, error) {
	rows, err := s.fetch(ctx, models.TableSales)
	if err != nil {
		return nil, err
	}
	return records.ParseSales(rows)
}

// FlockHistory returns the parsed Flock ledger.
func (s *Service) FlockHistory(ctx context.Context) ([]models.FlockEvent, error) {
	rows, err := s.fetch(ctx, models.TableFlock)
	if err != nil {
		return nil, err
	}
	return records.ParseFlock(rows)
}

// Load fetches all three tables and parses each on its own, so a malformed
// table does not hide the others. Only store failures abort the load.
func (s *Service) Load(ctx context.Context) (Ledgers, error) {
	var dailyRows, salesRows, flockRows []models.Record

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		dailyRows, err = s.fetch(gctx, models.TableDailyLog)
		return err
	})
	g.Go(func() (err error) {
		salesRows, err = s.fetch(gctx, models.TableSales)
		return err
	})
	g.Go(func() (err error) {
		flockRows, err = s.fetch(gctx, models.TableFlock)
		return err
	})
	if err := g.Wait(); err != nil {
		return Ledgers{}, err
	}

	l := Ledgers{Failed: make(map[models.Table]error)}
	var err error

	if l.DailyLog, err = records.ParseDailyLog(dailyRows); err != nil {
		l.fail(models.TableDailyLog, err)
	}
	if l.Sales, err = records.ParseSales(salesRows); err != nil {
		l.fail(models.TableSales, err)
	}
	if l.Flock, err = records.ParseFlock(flockRows); err != nil {
		l.fail(models.TableFlock, err)
	}

	for table, ferr := range l.Failed {
		s.logger.Warn("ledger table skipped", zap.String("table", table.String()), zap.Error(ferr))
	}

	return l, nil
}

func (l *Ledgers) fail(table models.Table, err error) {
	l.Failed[table] = err
	switch table {
	case models.TableDailyLog:
		l.DailyLog = []models.DailyLogEntry{}
	case models.TableSales:
		l.Sales = []models.SaleEntry{}
	case models.TableFlock:
		l.Flock = []models.FlockEvent{}
	}
}

func (s *Service) fetch(ctx context.Context, table models.Table) ([]models.Record, error) {
	rows, err := s.store.FetchAllRecords(ctx, table)
	if err != nil {
		if errors.Is(err, models.ErrStoreUnavailable) {
			return nil, fmt.Errorf("load %s: %w", table, err)
		}
		return nil, fmt.Errorf("load %s: %w: %w", table, models.ErrStoreUnavailable, err)
	}
	return rows, nil
}
