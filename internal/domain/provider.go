package domain

import "time"

type Provider struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	WorkingHours []WorkingHours `json:"working_hours,omitempty" gorm:"foreignKey:ProviderID;constraint:OnDelete:CASCADE"`
}

func (Provider) TableName() string { return "providers" }

// Service is a bookable offering with a fixed length.
type Service struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name" gorm:"size:255;not null"`
	DurationMinutes int       `json:"duration_minutes" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func (Service) TableName() string { return "services" }

func (s *Service) Duration() time.Duration {
	return time.Duration(s.DurationMinutes) * time.Minute
}
