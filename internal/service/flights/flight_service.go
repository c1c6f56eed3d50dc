package flights

import (
	"context"

	"github.com/skylinehq/flightbooking/internal/domain"
)

type FlightUseCase interface {
	GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error)
}

// Reader is the remote flight lookup this service fronts.
type Reader interface {
	GetFlight(ctx context.Context, flightID int64) (*domain.FlightDetail, error)
}

type Cache interface {
	GetFlight(ctx context.Context, flightID int64) (*domain.FlightDetail, error)
	SetFlight(ctx context.Context, flight *domain.FlightDetail) error
}

// FlightService serves read-only flight detail for the front door with a
// short-TTL cache in front of the remote service. The booking create path
// never goes through here: capacity checks and pricing always read live.
type FlightService struct {
	flights Reader
	cache   Cache
}

func NewFlightService(flights Reader, cache Cache) *FlightService {
	return &FlightService{flights: flights, cache: cache}
}

func (s *FlightService) GetByID(ctx context.Context, id int64) (*domain.FlightDetail, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlight(ctx, id); err == nil && cached != nil {
			return cached, nil
		}
	}

	flight, err := s.flights.GetFlight(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlight(ctx, flight)
	}
	return flight, nil
}

var _ FlightUseCase = (*FlightService)(nil)
