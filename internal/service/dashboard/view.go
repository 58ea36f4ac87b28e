package dashboard

import (
	"context"
	"time"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
	"github.com/mamadbah2/coopcontrol/internal/service/flock"
	"github.com/mamadbah2/coopcontrol/internal/service/metrics"
)

// Dashboard is the farm overview. A nil metrics block means its table could
// not be folded; the reason is listed in Issues.
type Dashboard struct {
	GeneratedAt   time.Time                 `json:"generated_at"`
	Production    *models.ProductionMetrics `json:"production"`
	Revenue       *models.RevenueMetrics    `json:"revenue"`
	Flock         *models.FlockMetrics      `json:"flock"`
	EggSeries     []models.EggPoint         `json:"egg_series"`
	RevenueSeries []models.RevenuePoint     `json:"revenue_series"`
	MarketWatch   models.MarketWatch        `json:"market_watch"`
	Issues        []models.TableIssue       `json:"issues"`
}

// Build re-fetches every ledger and folds it from scratch.
func (s *Service) Build(ctx context.Context, settings metrics.Settings) (*Dashboard, error) {
	l, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	d := Compose(l, settings, s.now())
	return &d, nil
}

// Compose derives the dashboard from one ledger snapshot.
func Compose(l Ledgers, settings metrics.Settings, now time.Time) Dashboard {
	d := Dashboard{
		GeneratedAt:   now,
		EggSeries:     []models.EggPoint{},
		RevenueSeries: []models.RevenuePoint{},
		MarketWatch:   metrics.CompareMarket(settings),
		Issues:        []models.TableIssue{},
	}

	for _, table := range models.Tables() {
		if err, ok := l.Failed[table]; ok {
			d.Issues = append(d.Issues, models.TableIssue{Table: table, Message: err.Error()})
		}
	}

	if _, failed := l.Failed[models.TableDailyLog]; !failed {
		production := metrics.SummarizeProduction(l.DailyLog)
		d.Production = &production
		d.EggSeries = metrics.EggSeries(l.DailyLog)
	}

	if _, failed := l.Failed[models.TableSales]; !failed {
		revenue := metrics.SummarizeRevenue(l.Sales)
		d.Revenue = &revenue
		d.RevenueSeries = metrics.RevenueByDate(l.Sales)
	}

	if _, failed := l.Failed[models.TableFlock]; !failed {
		fm, err := flock.Summarize(l.Flock)
		if err != nil {
			d.Issues = append(d.Issues, models.TableIssue{Table: models.TableFlock, Message: err.Error()})
		} else {
			d.Flock = &fm
		}
	}

	return d
}
