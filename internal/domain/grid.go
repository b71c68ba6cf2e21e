package domain

import "time"

// SlotGrid is the lattice slot starts must sit on.
type SlotGrid struct {
	Step     time.Duration
	Location *time.Location
}

func DefaultGrid() SlotGrid {
	return SlotGrid{Step: 30 * time.Minute, Location: time.UTC}
}

// Aligned reports whether t falls on a grid line: its minute of the hour is
// a multiple of the step and it has no seconds.
func (g SlotGrid) Aligned(t time.Time) bool {
	loc := g.Location
	if loc == nil {
		loc = time.UTC
	}
	local := t.In(loc)
	if local.Second() != 0 || local.Nanosecond() != 0 {
		return false
	}
	stepMinutes := g.stepMinutes()
	if stepMinutes <= 0 {
		return true
	}
	return local.Minute()%stepMinutes == 0
}

// ValidateStart checks a requested booking or hold start: the service must
// have a positive length, the start must be strictly after now and on the grid.
func (g SlotGrid) ValidateStart(service *Service, start, now time.Time) error {
	if service.Duration() <= 0 {
		return ErrNonPositiveDuration
	}
	if !start.After(now) {
		return ErrStartInPast
	}
	if !g.Aligned(start) {
		return ErrStartMisaligned.withMessage("Start time must align to %d-minute increments.", g.stepMinutes())
	}
	return nil
}

// ValidateDuration checks a service length: positive and a whole number of
// grid steps, so every slot of the service starts and ends on the grid.
func (g SlotGrid) ValidateDuration(minutes int) error {
	if minutes <= 0 {
		return ErrNonPositiveDuration
	}
	if step := g.stepMinutes(); step > 0 && minutes%step != 0 {
		return ErrDurationMisaligned.withMessage("Duration must be a multiple of %d minutes.", step)
	}
	return nil
}

func (g SlotGrid) stepMinutes() int {
	return int(g.Step / time.Minute)
}
