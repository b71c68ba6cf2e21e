package catalog

import "appointments/internal/domain"

var weekdayNames = [7]string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

type WorkingHoursView struct {
	Weekday   int    `json:"weekday"`
	Day       string `json:"day"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
}

type ProviderView struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	WorkingHours []WorkingHoursView `json:"workingHours,omitempty"`
}

type ServiceRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,gt=0"`
}

// UpdateServiceRequest is a partial update; nil fields are left as they are.
type UpdateServiceRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	DurationMinutes *int    `json:"durationMinutes" validate:"omitempty,gt=0"`
}

type ServiceView struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
}

func toProviderView(p *domain.Provider, withHours bool) ProviderView {
	v := ProviderView{ID: p.ID, Name: p.Name}
	if !withHours {
		return v
	}
	v.WorkingHours = make([]WorkingHoursView, 0, len(p.WorkingHours))
	for _, wh := range p.WorkingHours {
		day := ""
		if wh.Weekday >= 0 && wh.Weekday < len(weekdayNames) {
			day = weekdayNames[wh.Weekday]
		}
		v.WorkingHours = append(v.WorkingHours, WorkingHoursView{
			Weekday:   wh.Weekday,
			Day:       day,
			StartTime: wh.StartTime,
			EndTime:   wh.EndTime,
		})
	}
	return v
}

func toServiceView(s *domain.Service) ServiceView {
	return ServiceView{ID: s.ID, Name: s.Name, DurationMinutes: s.DurationMinutes}
}

func toServiceViews(list []domain.Service) []ServiceView {
	out := make([]ServiceView, 0, len(list))
	for i := range list {
		out = append(out, toServiceView(&list[i]))
	}
	return out
}
