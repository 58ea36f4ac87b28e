package metrics

import (
	"slices"
	"time"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// FilterDailyLog keeps entries dated within [start, end], both inclusive.
func FilterDailyLog(entries []models.DailyLogEntry, start, end time.Time) []models.DailyLogEntry {
	return filter(entries, start, end, func(e models.DailyLogEntry) time.Time { return e.Date })
}

// FilterSales keeps sales dated within [start, end], both inclusive.
func FilterSales(sales []models.SaleEntry, start, end time.Time) []models.SaleEntry {
	return filter(sales, start, end, func(s models.SaleEntry) time.Time { return s.Date })
}

func filter[T any](items []T, start, end time.Time, date func(T) time.Time) []T {
	from, to := models.Day(start), models.Day(end)
	out := make([]T, 0, len(items))
	for _, item := range items {
		d := models.Day(date(item))
		if d.Before(from) || d.After(to) {
			continue
		}
		out = append(out, item)
	}
	return out
}

func sortPoints[T any](points []T, date func(T) time.Time) {
	slices.SortFunc(points, func(a, b T) int {
		return date(a).Compare(date(b))
	})
}
