package hold

import "time"

type CreateHoldDTO struct {
	ProviderID    int64  `json:"providerId" validate:"required,gt=0"`
	ServiceID     int64  `json:"serviceId" validate:"required,gt=0"`
	StartDateTime string `json:"startDateTime" validate:"required"`
}

type HoldCreatedResponse struct {
	ID        int64     `json:"id"`
	ExpiresAt time.Time `json:"expiresAt"`
}
