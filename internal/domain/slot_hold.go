package domain

import "time"

// SlotHold is a short-lived exclusive reservation of a slot pending confirmation.
// It is never updated: it is either consumed by a booking, released, or reaped.
// The (provider_id, start_time) unique index is what serializes concurrent creators.
type SlotHold struct {
	ID         int64     `json:"id" gorm:"primaryKey"`
	ProviderID int64     `json:"provider_id" gorm:"not null;uniqueIndex:idx_slot_holds_provider_start,priority:1"`
	ServiceID  int64     `json:"service_id" gorm:"not null"`
	UserID     int64     `json:"user_id" gorm:"not null;index"`
	StartTime  time.Time `json:"start_time" gorm:"not null;uniqueIndex:idx_slot_holds_provider_start,priority:2"`
	EndTime    time.Time `json:"end_time" gorm:"not null"`
	ExpiresAt  time.Time `json:"expires_at" gorm:"not null;index"`
	CreatedAt  time.Time `json:"created_at"`
}

func (SlotHold) TableName() string { return "slot_holds" }

// IsExpired reports whether the hold is dead at now. A hold expiring exactly at
// now is already expired.
func (h *SlotHold) IsExpired(now time.Time) bool {
	return !h.ExpiresAt.After(now)
}

func (h *SlotHold) Interval() Interval { return Interval{Start: h.StartTime, End: h.EndTime} }

// Slot is a candidate window produced by the slot generator.
type Slot struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Available bool      `json:"available"`
}
