package models

import "time"

// DashboardSnapshot is the archived form of a dashboard pass stored in MongoDB.
// It is derived data: every field can be rebuilt from the ledgers.
type DashboardSnapshot struct {
	Date           time.Time `bson:"date" json:"date"`
	TotalEggs      int       `bson:"total_eggs" json:"total_eggs"`
	AvgEggsPerDay  *float64  `bson:"avg_eggs_per_day,omitempty" json:"avg_eggs_per_day,omitempty"`
	TotalRevenue   float64   `bson:"total_revenue" json:"total_revenue"`
	PendingRevenue float64   `bson:"pending_revenue" json:"pending_revenue"`
	FlockSize      int       `bson:"flock_size" json:"flock_size"`
	Issues         []string  `bson:"issues,omitempty" json:"issues,omitempty"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
}
