// Package metrics computes the dashboard aggregates from parsed ledgers.
package metrics

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// Settings carries the per-request inputs of the market-watch panel.
type Settings struct {
	MarketPrice decimal.Decimal
	OurPrice    decimal.Decimal
}

// SummarizeProduction totals the Daily_Log. The average is undefined for an
// empty log.
func SummarizeProduction(entries []models.DailyLogEntry) models.ProductionMetrics {
	var m models.ProductionMetrics
	for _, e := range entries {
		m.TotalEggs += e.EggsCollected
		m.FeedBagsOpened += e.FeedBagsOpened
	}
	m.Days = len(entries)
	if m.Days > 0 {
		m.AvgEggsPerDay = models.Average{Value: float64(m.TotalEggs) / float64(m.Days), Valid: true}
	}
	return m
}

// SummarizeRevenue totals the Sales table.
func SummarizeRevenue(sales []models.SaleEntry) models.RevenueMetrics {
	m := models.RevenueMetrics{TotalRevenue: decimal.Zero, PendingRevenue: decimal.Zero}
	for _, s := range sales {
		m.TotalRevenue = m.TotalRevenue.Add(s.TotalPrice)
		if s.Status == models.SalePending {
			m.PendingRevenue = m.PendingRevenue.Add(s.TotalPrice)
		}
		m.DozensSold += s.DozensSold
	}
	return m
}

// RevenueByDate groups sales by calendar day, ascending.
func RevenueByDate(sales []models.SaleEntry) []models.RevenuePoint {
	points := make([]models.RevenuePoint, 0, len(sales))
	index := make(map[time.Time]int, len(sales))
	for _, s := range sales {
		day := models.Day(s.Date)
		if i, ok := index[day]; ok {
			points[i].Total = points[i].Total.Add(s.TotalPrice)
			continue
		}
		index[day] = len(points)
		points = append(points, models.RevenuePoint{Date: day, Total: s.TotalPrice})
	}
	sortPoints(points, func(p models.RevenuePoint) time.Time { return p.Date })
	return points
}

// EggSeries groups egg counts by calendar day, ascending.
func EggSeries(entries []models.DailyLogEntry) []models.EggPoint {
	points := make([]models.EggPoint, 0, len(entries))
	index := make(map[time.Time]int, len(entries))
	for _, e := range entries {
		day := models.Day(e.Date)
		if i, ok := index[day]; ok {
			points[i].Eggs += e.EggsCollected
			continue
		}
		index[day] = len(points)
		points = append(points, models.EggPoint{Date: day, Eggs: e.EggsCollected})
	}
	sortPoints(points, func(p models.EggPoint) time.Time { return p.Date })
	return points
}

// CompareMarket reports how our price sits against the supermarket.
func CompareMarket(s Settings) models.MarketWatch {
	return models.MarketWatch{
		MarketPrice: s.MarketPrice,
		OurPrice:    s.OurPrice,
		Delta:       s.OurPrice.Sub(s.MarketPrice),
	}
}
