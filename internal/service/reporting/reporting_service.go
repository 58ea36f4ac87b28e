package reporting

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
	"github.com/mamadbah2/coopcontrol/internal/service/dashboard"
	"github.com/mamadbah2/coopcontrol/internal/service/flock"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
)

const (
	dateLayout = "2006-01-02"
	digestDays = 7
)

// LedgerLoader returns one snapshot of the three ledgers.
type LedgerLoader interface {
	Load(ctx context.Context) (dashboard.Ledgers, error)
}

// Service builds the weekly digest and the nightly snapshot from a fresh fold
// of the ledgers.
type Service struct {
	ledgers LedgerLoader
	loc     *time.Location
	logger  *zap.Logger
}

// NewService wires a new reporting service instance. A nil location means UTC.
func NewService(ledgers LedgerLoader, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{ledgers: ledgers, loc: loc, logger: logger}
}

// DigestWindow returns the inclusive seven-day window ending on now's calendar
// day in the service location.
func (s *Service) DigestWindow(now time.Time) (start, end time.Time) {
	end = models.Day(now.In(s.loc))
	start = end.AddDate(0, 0, -(digestDays - 1))
	return start, end
}

// WeeklyDigest renders production and revenue for the last seven days plus the
// all-time flock size.
func (s *Service) WeeklyDigest(ctx context.Context, now time.Time) (string, error) {
	l, err := s.ledgers.Load(ctx)
	if err != nil {
		return "", fmt.Errorf("load ledgers: %w", err)
	}

	start, end := s.DigestWindow(now)

	var b strings.Builder
	fmt.Fprintf(&b, "Coop digest %s to %s\n", start.Format(dateLayout), end.Format(dateLayout))

	if err := l.Failed[models.TableDailyLog]; err != nil {
		b.WriteString("Eggs: unavailable\n")
	} else {
		p := metrics.SummarizeProduction(metrics.FilterDailyLog(l.DailyLog, start, end))
		fmt.Fprintf(&b, "Eggs: %d (avg %s per day over %d logs)\n", p.TotalEggs, p.AvgEggsPerDay, p.Days)
		fmt.Fprintf(&b, "Feed bags opened: %d\n", p.FeedBagsOpened)
	}

	if err := l.Failed[models.TableSales]; err != nil {
		b.WriteString("Revenue: unavailable\n")
	} else {
		r := metrics.SummarizeRevenue(metrics.FilterSales(l.Sales, start, end))
		fmt.Fprintf(&b, "Revenue: $%s from %d dozen (pending $%s)\n",
			r.TotalRevenue.StringFixed(2), r.DozensSold, r.PendingRevenue.StringFixed(2))
	}

	if err := l.Failed[models.TableFlock]; err != nil {
		b.WriteString("Flock: unavailable\n")
	} else if size, err := flock.Balance(l.Flock); err != nil {
		s.logger.Warn("flock balance failed", zap.Error(err))
		b.WriteString("Flock: unavailable\n")
	} else {
		fmt.Fprintf(&b, "Flock: %d birds\n", size)
	}

	if n := len(l.Failed); n > 0 {
		fmt.Fprintf(&b, "%d ledger(s) need fixing in the sheet.", n)
	}

	return strings.TrimRight(b.String(), "\n"), nil
}

// Snapshot folds the ledgers into an archivable record for now's calendar day.
func (s *Service) Snapshot(ctx context.Context, now time.Time) (models.DashboardSnapshot, error) {
	l, err := s.ledgers.Load(ctx)
	if err != nil {
		return models.DashboardSnapshot{}, fmt.Errorf("load ledgers: %w", err)
	}

	d := dashboard.Compose(l, metrics.Settings{}, now)

	snap := models.DashboardSnapshot{
		Date:      models.Day(now.In(s.loc)),
		CreatedAt: now.UTC(),
	}
	if d.Production != nil {
		snap.TotalEggs = d.Production.TotalEggs
		if d.Production.AvgEggsPerDay.Valid {
			avg := d.Production.AvgEggsPerDay.Value
			snap.AvgEggsPerDay = &avg
		}
	}
	if d.Revenue != nil {
		snap.TotalRevenue = d.Revenue.TotalRevenue.InexactFloat64()
		snap.PendingRevenue = d.Revenue.PendingRevenue.InexactFloat64()
	}
	if d.Flock != nil {
		snap.FlockSize = d.Flock.CurrentSize
	}
	for _, issue := range d.Issues {
		snap.Issues = append(snap.Issues, fmt.Sprintf("%s: %s", issue.Table, issue.Message))
	}

	return snap, nil
}
