package domain

import "time"

type BookingStatus string

const (
	BookingActive    BookingStatus = "active"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is a confirmed appointment. EndTime is always StartTime plus the
// service duration; the only mutation after creation is active -> cancelled.
type Booking struct {
	ID          int64         `json:"id" gorm:"primaryKey"`
	ProviderID  int64         `json:"provider_id" gorm:"not null;index:idx_bookings_provider_window,priority:1"`
	ServiceID   int64         `json:"service_id" gorm:"not null"`
	UserID      int64         `json:"user_id" gorm:"not null;index"`
	StartTime   time.Time     `json:"start_time" gorm:"not null;index:idx_bookings_provider_window,priority:2"`
	EndTime     time.Time     `json:"end_time" gorm:"not null"`
	Status      BookingStatus `json:"status" gorm:"size:16;not null;default:active"`
	CreatedAt   time.Time     `json:"created_at"`
	CancelledAt *time.Time    `json:"cancelled_at,omitempty"`

	Provider *Provider `json:"provider,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
	Service  *Service  `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	User     *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (Booking) TableName() string { return "bookings" }

func (b *Booking) IsActive() bool { return b.Status == BookingActive }

func (b *Booking) Interval() Interval { return Interval{Start: b.StartTime, End: b.EndTime} }
