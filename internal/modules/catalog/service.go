package catalog

import (
	"context"
	"errors"
	"strings"

	"appointments/internal/domain"
	"appointments/internal/repository"
)

type ProviderRepository interface {
	List(ctx context.Context) ([]domain.Provider, error)
	GetByID(ctx context.Context, id int64) (*domain.Provider, error)
}

type ServiceRepository interface {
	List(ctx context.Context) ([]domain.Service, error)
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	Create(ctx context.Context, s *domain.Service) error
	Update(ctx context.Context, s *domain.Service) error
	Delete(ctx context.Context, id int64) error
}

// Service answers lookups of providers and services and lets admins manage
// the service list.
type Service struct {
	providers ProviderRepository
	services  ServiceRepository
	grid      domain.SlotGrid
}

type Option func(*Service)

// WithGrid sets the grid service durations must be a multiple of.
func WithGrid(g domain.SlotGrid) Option {
	return func(s *Service) { s.grid = g }
}

func NewService(providers ProviderRepository, services ServiceRepository, opts ...Option) *Service {
	s := &Service{providers: providers, services: services, grid: domain.DefaultGrid()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListProviders(ctx context.Context) ([]domain.Provider, error) {
	return s.providers.List(ctx)
}

// GetProvider returns the provider with its weekly working hours.
func (s *Service) GetProvider(ctx context.Context, id int64) (*domain.Provider, error) {
	p, err := s.providers.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, domain.ErrProviderNotFound
	}
	return p, err
}

// OwnProvider resolves the provider a staff user is linked to.
func (s *Service) OwnProvider(ctx context.Context, actor *domain.User) (*domain.Provider, error) {
	if actor == nil || actor.Role != domain.RoleProvider {
		return nil, domain.ErrProviderRoleRequired
	}
	if actor.ProviderID == nil {
		return nil, domain.ErrNoAssignedProvider
	}
	return s.GetProvider(ctx, *actor.ProviderID)
}

func (s *Service) ListServices(ctx context.Context) ([]domain.Service, error) {
	return s.services.List(ctx)
}

func (s *Service) CreateService(ctx context.Context, req ServiceRequest) (*domain.Service, error) {
	if err := s.grid.ValidateDuration(req.DurationMinutes); err != nil {
		return nil, err
	}
	svc := &domain.Service{Name: strings.TrimSpace(req.Name), DurationMinutes: req.DurationMinutes}
	if err := s.services.Create(ctx, svc); err != nil {
		return nil, err
	}
	return svc, nil
}

// UpdateService applies the fields present in req.
func (s *Service) UpdateService(ctx context.Context, id int64, req UpdateServiceRequest) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		return nil, serviceNotFound(err)
	}
	if req.Name != nil {
		svc.Name = strings.TrimSpace(*req.Name)
	}
	if req.DurationMinutes != nil {
		if err := s.grid.ValidateDuration(*req.DurationMinutes); err != nil {
			return nil, err
		}
		svc.DurationMinutes = *req.DurationMinutes
	}
	if err := s.services.Update(ctx, svc); err != nil {
		return nil, serviceNotFound(err)
	}
	return svc, nil
}

func (s *Service) DeleteService(ctx context.Context, id int64) error {
	err := s.services.Delete(ctx, id)
	if errors.Is(err, repository.ErrInUse) {
		return domain.ErrServiceInUse
	}
	return serviceNotFound(err)
}

func serviceNotFound(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return domain.ErrServiceNotFound
	}
	return err
}
