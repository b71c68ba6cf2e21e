package booking

import (
	"time"

	"appointments/internal/domain"
)

// BookingRequestDTO either confirms a hold (HoldID) or books directly
// (ProviderID, ServiceID, StartDateTime).
type BookingRequestDTO struct {
	HoldID        int64  `json:"holdId" validate:"omitempty,gt=0"`
	ProviderID    int64  `json:"providerId" validate:"omitempty,gt=0"`
	ServiceID     int64  `json:"serviceId" validate:"omitempty,gt=0"`
	StartDateTime string `json:"startDateTime"`
}

// missingFields reports which fields a direct booking still needs.
func (r BookingRequestDTO) missingFields() map[string]string {
	if r.HoldID > 0 {
		return nil
	}
	errs := map[string]string{}
	if r.ProviderID == 0 {
		errs["providerId"] = "required"
	}
	if r.ServiceID == 0 {
		errs["serviceId"] = "required"
	}
	if r.StartDateTime == "" {
		errs["startDateTime"] = "required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

type RefView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRefView struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type BookingView struct {
	ID            int64        `json:"id"`
	Status        string       `json:"status"`
	StartDateTime time.Time    `json:"startDateTime"`
	EndDateTime   time.Time    `json:"endDateTime"`
	CreatedAt     time.Time    `json:"createdAt"`
	CancelledAt   *time.Time   `json:"cancelledAt"`
	Service       *RefView     `json:"service"`
	Provider      *RefView     `json:"provider"`
	User          *UserRefView `json:"user"`
}

func toView(b *domain.Booking) BookingView {
	v := BookingView{
		ID:            b.ID,
		Status:        string(b.Status),
		StartDateTime: b.StartTime.UTC(),
		EndDateTime:   b.EndTime.UTC(),
		CreatedAt:     b.CreatedAt.UTC(),
		CancelledAt:   b.CancelledAt,
	}
	if b.Service != nil {
		v.Service = &RefView{ID: b.Service.ID, Name: b.Service.Name}
	}
	if b.Provider != nil {
		v.Provider = &RefView{ID: b.Provider.ID, Name: b.Provider.Name}
	}
	if b.User != nil {
		v.User = &UserRefView{ID: b.User.ID, Email: b.User.Email}
	}
	return v
}

func toViews(list []domain.Booking) []BookingView {
	out := make([]BookingView, 0, len(list))
	for i := range list {
		out = append(out, toView(&list[i]))
	}
	return out
}
