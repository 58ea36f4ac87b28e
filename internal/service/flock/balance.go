// Package flock folds the Flock ledger into the current headcount.
package flock

import (
	"fmt"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

// Balance returns sum(Add) - sum(Remove) over every event. The result may be
// negative; an event with any other action aborts the fold.
func Balance(events []models.FlockEvent) (int, error) {
	size := 0
	for _, event := range events {
		switch event.Action {
		case models.FlockAdd:
			size += event.Quantity
		case models.FlockRemove:
			size -= event.Quantity
		default:
			return 0, fmt.Errorf("%w %q on %s", models.ErrUnknownFlockAction, event.Action, event.Date.Format(models.DateLayout))
		}
	}
	return size, nil
}

// Summarize folds the ledger and flags a negative headcount for display.
func Summarize(events []models.FlockEvent) (models.FlockMetrics, error) {
	size, err := Balance(events)
	if err != nil {
		return models.FlockMetrics{}, err
	}
	return models.FlockMetrics{CurrentSize: size, Deficit: size < 0}, nil
}
