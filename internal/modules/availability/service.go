package availability

import (
	"context"
	"errors"
	"strings"
	"time"

	"appointments/internal/domain"
	"appointments/internal/pkg/clock"
	"appointments/internal/repository"
)

const (
	dateLayout   = "2006-01-02"
	defaultRange = 30 // days after from when to is omitted
)

type SlotsQuery struct {
	ProviderID int64
	ServiceID  int64
	From       string
	To         string
}

type SlotsResult struct {
	ProviderID int64         `json:"providerId"`
	ServiceID  int64         `json:"serviceId"`
	From       string        `json:"from"`
	To         string        `json:"to"`
	Slots      []domain.Slot `json:"slots"`
}

type Service struct {
	providers ProviderRepository
	services  ServiceRepository
	gen       *Generator
	clock     clock.Clock
}

func NewService(providers ProviderRepository, services ServiceRepository, gen *Generator, clk clock.Clock) *Service {
	return &Service{providers: providers, services: services, gen: gen, clock: clk}
}

// ProviderSlots resolves the query dates and generates slots. When the range
// starts today, slots that already started are left out.
func (s *Service) ProviderSlots(ctx context.Context, actor *domain.User, q SlotsQuery) (*SlotsResult, error) {
	provider, err := s.providers.GetByID(ctx, q.ProviderID)
	if err != nil {
		return nil, notFound(err, domain.ErrProviderNotFound)
	}
	if err := actor.CheckProviderScope(provider.ID); err != nil {
		return nil, err
	}
	service, err := s.services.GetByID(ctx, q.ServiceID)
	if err != nil {
		return nil, notFound(err, domain.ErrServiceNotFound)
	}

	loc := s.gen.Location()
	now := s.clock.Now().In(loc)
	today := startOfDay(now)

	from := today
	if v := strings.TrimSpace(q.From); v != "" {
		if from, err = time.ParseInLocation(dateLayout, v, loc); err != nil {
			return nil, domain.ErrInvalidDate
		}
	}
	to := from.AddDate(0, 0, defaultRange)
	if v := strings.TrimSpace(q.To); v != "" {
		if to, err = time.ParseInLocation(dateLayout, v, loc); err != nil {
			return nil, domain.ErrInvalidDate
		}
	}

	fromInstant := from
	if from.Equal(today) {
		fromInstant = now
	}

	slots, err := s.gen.Generate(ctx, provider.ID, service, fromInstant, to)
	if err != nil {
		return nil, err
	}

	return &SlotsResult{
		ProviderID: provider.ID,
		ServiceID:  service.ID,
		From:       from.Format(dateLayout),
		To:         to.Format(dateLayout),
		Slots:      slots,
	}, nil
}

func notFound(err, sentinel error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return sentinel
	}
	return err
}
