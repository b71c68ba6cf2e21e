package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"appointments/internal/domain"
)

// BusyAggregator merges active bookings and live holds into one set of
// occupied intervals.
type BusyAggregator struct {
	bookings BookingIntervals
	holds    HoldIntervals
}

func NewBusyAggregator(bookings BookingIntervals, holds HoldIntervals) *BusyAggregator {
	return &BusyAggregator{bookings: bookings, holds: holds}
}

// BusyIntervals returns every active booking and every hold live at now that
// intersects [from, to), ordered by start.
func (a *BusyAggregator) BusyIntervals(ctx context.Context, providerID int64, from, to, now time.Time) ([]domain.Interval, error) {
	booked, err := a.bookings.ActiveIntervals(ctx, providerID, from, to)
	if err != nil {
		return nil, fmt.Errorf("active bookings: %w", err)
	}
	held, err := a.holds.LiveIntervals(ctx, providerID, from, to, now)
	if err != nil {
		return nil, fmt.Errorf("live holds: %w", err)
	}

	busy := make([]domain.Interval, 0, len(booked)+len(held))
	busy = append(busy, booked...)
	busy = append(busy, held...)
	sort.SliceStable(busy, func(i, j int) bool { return busy[i].Start.Before(busy[j].Start) })
	return busy, nil
}
