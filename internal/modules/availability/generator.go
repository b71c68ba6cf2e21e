package availability

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"appointments/internal/domain"
	"appointments/internal/pkg/clock"
	"appointments/internal/pkg/logger"
)

const DefaultStep = 30 * time.Minute

// Generator expands working hours into candidate slots and marks each one
// against the busy set.
type Generator struct {
	hours  WorkingHoursStore
	busy   *BusyAggregator
	clock  clock.Clock
	reaper ExpiryReaper
	step   time.Duration
	loc    *time.Location
	log    *zap.Logger
}

type Option func(*Generator)

// WithStep sets the cursor advance between candidate slot starts.
func WithStep(d time.Duration) Option {
	return func(g *Generator) {
		if d > 0 {
			g.step = d
		}
	}
}

// WithLocation sets the zone calendar days and working hours are read in.
func WithLocation(loc *time.Location) Option {
	return func(g *Generator) {
		if loc != nil {
			g.loc = loc
		}
	}
}

func WithReaper(r ExpiryReaper) Option {
	return func(g *Generator) { g.reaper = r }
}

func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = logger.OrNop(l) }
}

func NewGenerator(hours WorkingHoursStore, busy *BusyAggregator, clk clock.Clock, opts ...Option) *Generator {
	g := &Generator{
		hours: hours,
		busy:  busy,
		clock: clk,
		step:  DefaultStep,
		loc:   time.UTC,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Generator) Location() *time.Location { return g.loc }

// Generate lists slots for the calendar days from..to inclusive. Slots
// starting before the from instant are skipped, so passing a from with a
// time of day hides the part of that day already gone.
func (g *Generator) Generate(ctx context.Context, providerID int64, service *domain.Service, from, to time.Time) ([]domain.Slot, error) {
	from, to = from.In(g.loc), to.In(g.loc)
	firstDay, lastDay := startOfDay(from), startOfDay(to)
	if lastDay.Before(firstDay) {
		return nil, domain.ErrInvalidRange
	}
	duration := service.Duration()
	if duration <= 0 {
		return nil, domain.ErrNonPositiveDuration
	}

	schedule, err := g.hours.WindowsFor(ctx, providerID)
	if err != nil {
		return nil, fmt.Errorf("working hours: %w", err)
	}
	slots := []domain.Slot{}
	if schedule.IsEmpty() {
		return slots, nil
	}

	now := g.clock.Now()
	if g.reaper != nil {
		g.reaper.MaybePurge(ctx, now)
	}

	searchEnd := nextDay(lastDay)
	busy, err := g.busy.BusyIntervals(ctx, providerID, firstDay, searchEnd, now)
	if err != nil {
		return nil, err
	}

	for day := firstDay; day.Before(searchEnd); day = nextDay(day) {
		for _, w := range schedule.For(day) {
			window := w.On(day)
			for start := window.Start; start.Before(window.End); start = start.Add(g.step) {
				end := start.Add(duration)
				if end.After(window.End) || end.After(searchEnd) {
					break
				}
				if start.Before(from) {
					continue
				}
				candidate := domain.Interval{Start: start, End: end}
				slots = append(slots, domain.Slot{
					Start:     start,
					End:       end,
					Available: !candidate.OverlapsAny(busy),
				})
			}
		}
	}

	sort.SliceStable(slots, func(i, j int) bool { return slots[i].Start.Before(slots[j].Start) })

	g.log.Debug("slots generated",
		zap.Int64("provider_id", providerID),
		zap.Int64("service_id", service.ID),
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("count", len(slots)),
		zap.Int("busy", len(busy)))

	return slots, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func nextDay(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, day.Location())
}
