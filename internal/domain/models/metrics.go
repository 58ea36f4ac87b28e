package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Average is a mean that may be undefined because there was nothing to average.
type Average struct {
	Value float64
	Valid bool
}

// MarshalJSON renders an undefined average as null.
func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a Average) String() string {
	if !a.Valid {
		return "no data"
	}
	return fmt.Sprintf("%.1f", a.Value)
}

// ProductionMetrics summarizes the Daily_Log table.
type ProductionMetrics struct {
	TotalEggs      int     `json:"total_eggs"`
	AvgEggsPerDay  Average `json:"avg_eggs_per_day"`
	Days           int     `json:"days"`
	FeedBagsOpened int     `json:"feed_bags_opened"`
}

// RevenueMetrics summarizes the Sales table.
type RevenueMetrics struct {
	TotalRevenue   decimal.Decimal `json:"total_revenue"`
	PendingRevenue decimal.Decimal `json:"pending_revenue"`
	DozensSold     int             `json:"dozens_sold"`
}

// FlockMetrics is the folded Flock ledger. Deficit flags a negative headcount.
type FlockMetrics struct {
	CurrentSize int  `json:"current_size"`
	Deficit     bool `json:"deficit"`
}

// RevenuePoint is the revenue of one calendar day.
type RevenuePoint struct {
	Date  time.Time       `json:"date"`
	Total decimal.Decimal `json:"total"`
}

// EggPoint is the egg count of one calendar day.
type EggPoint struct {
	Date time.Time `json:"date"`
	Eggs int       `json:"eggs"`
}

// MarketWatch compares our dozen price with the supermarket.
type MarketWatch struct {
	MarketPrice decimal.Decimal `json:"market_price"`
	OurPrice    decimal.Decimal `json:"our_price"`
	Delta       decimal.Decimal `json:"delta"`
}

// TableIssue reports a table that could not be folded into the view.
type TableIssue struct {
	Table   Table  `json:"table"`
	Message string `json:"message"`
}
