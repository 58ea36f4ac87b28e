package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used when writing ledger rows.
const DateLayout = "2006-01-02"

// SaleStatus tracks whether a sale has been settled.
type SaleStatus string

const (
	SalePaid    SaleStatus = "Paid"
	SalePending SaleStatus = "Pending"
)

// FlockAction is the direction of a headcount change.
type FlockAction string

const (
	FlockAdd    FlockAction = "Add"
	FlockRemove FlockAction = "Remove"
)

// DailyLogEntry captures one day of egg collection and feed usage.
type DailyLogEntry struct {
	Date           time.Time `json:"date"`
	EggsCollected  int       `json:"eggs_collected"`
	FeedBagsOpened int       `json:"feed_bags_opened"`
	Notes          string    `json:"notes,omitempty"`
}

// SaleEntry captures one sale of eggs to a customer.
type SaleEntry struct {
	Date       time.Time       `json:"date"`
	Customer   string          `json:"customer"`
	DozensSold int             `json:"dozens_sold"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     SaleStatus      `json:"status"`
}

// FlockEvent records birds entering or leaving the farm.
type FlockEvent struct {
	Date     time.Time   `json:"date"`
	Action   FlockAction `json:"action"`
	Quantity int         `json:"quantity"`
	Reason   string      `json:"reason,omitempty"`
}

var (
	ErrMissingDate        = errors.New("date is required")
	ErrNegativeEggs       = errors.New("eggs collected must not be negative")
	ErrNegativeFeed       = errors.New("feed bags opened must not be negative")
	ErrEmptyCustomer      = errors.New("customer is required")
	ErrInvalidDozens      = errors.New("dozens sold must be at least 1")
	ErrNegativePrice      = errors.New("total price must not be negative")
	ErrUnknownSaleStatus  = errors.New("unknown sale status")
	ErrUnknownFlockAction = errors.New("unknown flock action")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
)

// ParseFlockAction maps a free-form action label onto an action. Labels are
// matched by substring so the historical form labels ("Add Birds (+)") still
// resolve.
func ParseFlockAction(raw string) (FlockAction, bool) {
	switch {
	case strings.Contains(raw, string(FlockAdd)):
		return FlockAdd, true
	case strings.Contains(raw, string(FlockRemove)):
		return FlockRemove, true
	default:
		return FlockAction(raw), false
	}
}

// Form labels offered for flock actions.
const (
	FormLabelAdd    = "Add Birds (+)"
	FormLabelRemove = "Remove Birds (-)"
)

// ParseFormFlockAction accepts only the exact action names and form labels.
// Submitted entries go through it; ledger rows use ParseFlockAction.
func ParseFormFlockAction(raw string) (FlockAction, bool) {
	switch strings.TrimSpace(raw) {
	case string(FlockAdd), FormLabelAdd:
		return FlockAdd, true
	case string(FlockRemove), FormLabelRemove:
		return FlockRemove, true
	default:
		return FlockAction(raw), false
	}
}

// ParseSaleStatus maps a status label case-insensitively.
func ParseSaleStatus(raw string) (SaleStatus, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "paid":
		return SalePaid, true
	case "pending":
		return SalePending, true
	default:
		return SaleStatus(raw), false
	}
}

// Validate applies the bounds enforced by the entry form.
func (e DailyLogEntry) Validate() error {
	if e.Date.IsZero() {
		return ErrMissingDate
	}
	if e.EggsCollected < 0 {
		return ErrNegativeEggs
	}
	if e.FeedBagsOpened < 0 {
		return ErrNegativeFeed
	}
	return nil
}

// Row returns the values in Daily_Log column order.
func (e DailyLogEntry) Row() []interface{} {
	return []interface{}{e.Date.Format(DateLayout), e.EggsCollected, e.FeedBagsOpened, e.Notes}
}

// Validate applies the bounds enforced by the sales form.
func (s SaleEntry) Validate() error {
	if s.Date.IsZero() {
		return ErrMissingDate
	}
	if strings.TrimSpace(s.Customer) == "" {
		return ErrEmptyCustomer
	}
	if s.DozensSold < 1 {
		return ErrInvalidDozens
	}
	if s.TotalPrice.IsNegative() {
		return ErrNegativePrice
	}
	if s.Status != SalePaid && s.Status != SalePending {
		return fmt.Errorf("%w: %q", ErrUnknownSaleStatus, s.Status)
	}
	return nil
}

// Row returns the values in Sales column order.
func (s SaleEntry) Row() []interface{} {
	return []interface{}{s.Date.Format(DateLayout), s.Customer, s.DozensSold, s.TotalPrice.StringFixed(2), string(s.Status)}
}

// Validate rejects unknown actions so they never reach the ledger.
func (f FlockEvent) Validate() error {
	if f.Date.IsZero() {
		return ErrMissingDate
	}
	if f.Action != FlockAdd && f.Action != FlockRemove {
		return fmt.Errorf("%w: %q", ErrUnknownFlockAction, f.Action)
	}
	if f.Quantity < 1 {
		return ErrInvalidQuantity
	}
	return nil
}

// Row returns the values in Flock column order.
func (f FlockEvent) Row() []interface{} {
	return []interface{}{f.Date.Format(DateLayout), string(f.Action), f.Quantity, f.Reason}
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
