package booking

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/skylinehq/flightbooking/internal/domain"
	"github.com/skylinehq/flightbooking/internal/kafka"
	"github.com/skylinehq/flightbooking/internal/repository"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	PayBooking(ctx context.Context, input PayBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
	SweepExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

// FlightClient is the remote flight inventory boundary. The local store and
// the remote service are not jointly transactional; the engine reconciles
// them by ordering remote calls against the open local transaction.
type FlightClient interface {
	GetFlight(ctx context.Context, flightID int64) (*domain.FlightDetail, error)
	DecrementSeats(ctx context.Context, flightID int64, seats int) error
	ReleaseSeats(ctx context.Context, flightID int64, seats int) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings      repository.BookingRepository
	flights       FlightClient
	producer      Producer
	bookingTopic  string
	paymentWindow time.Duration
	now           func() time.Time
	log           *zap.Logger
}

type CreateBookingInput struct {
	UserID    int64 `json:"user_id"`
	FlightID  int64 `json:"flight_id"`
	NoOfSeats int   `json:"no_of_seats"`
}

type PayBookingInput struct {
	BookingID int64
	TotalCost int64
	UserID    int64
}

type BookingServiceOption func(*BookingService)

// WithClock overrides the time source used for the payment window.
func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights FlightClient,
	producer Producer,
	bookingTopic string,
	paymentWindow time.Duration,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:      bookings,
		flights:       flights,
		producer:      producer,
		bookingTopic:  bookingTopic,
		paymentWindow: paymentWindow,
		now:           time.Now,
		log:           log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves seats on the remote flight and persists the booking
// in one logical step. The remote decrement happens after the insert is
// staged but before commit, so a failed decrement is undone by local
// rollback alone.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.NoOfSeats <= 0 {
		return nil, domain.ErrInvalidSeatCount
	}

	tx, err := s.bookings.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	flight, err := s.flights.GetFlight(ctx, input.FlightID)
	if err != nil {
		return nil, err
	}
	if input.NoOfSeats > flight.TotalSeats {
		return nil, domain.ErrInsufficientSeats
	}

	booking := &domain.Booking{
		UserID:    input.UserID,
		FlightID:  input.FlightID,
		NoOfSeats: input.NoOfSeats,
		TotalCost: int64(input.NoOfSeats) * flight.Price,
		Status:    domain.BookingStatusInitiated,
	}
	if err := s.bookings.Insert(ctx, tx, booking); err != nil {
		return nil, err
	}

	if err := s.flights.DecrementSeats(ctx, input.FlightID, input.NoOfSeats); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

// PayBooking confirms a booking created within the payment window. No remote
// call happens on success: seats were already decremented at creation time.
// An expired booking is handed to the cancellation path, which runs its own
// transaction and remote seat release.
func (s *BookingService) PayBooking(ctx context.Context, input PayBookingInput) (*domain.Booking, error) {
	tx, err := s.bookings.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.bookings.GetByID(ctx, tx, input.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingExpired
	}
	if booking.Status == domain.BookingStatusBooked {
		// Replayed payment on a confirmed booking: no second charge, no
		// second seat decrement.
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return booking, nil
	}

	if s.now().Sub(booking.CreatedAt) > s.paymentWindow {
		// Release the row lock before the cancellation path opens its own
		// transaction.
		_ = tx.Rollback(ctx)
		if _, err := s.CancelBooking(ctx, input.BookingID); err != nil {
			return nil, err
		}
		return nil, domain.ErrBookingExpired
	}

	if input.TotalCost != booking.TotalCost {
		return nil, domain.ErrAmountMismatch
	}
	if input.UserID != booking.UserID {
		return nil, domain.ErrOwnershipMismatch
	}

	if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, domain.BookingStatusBooked); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusBooked
	s.publish(ctx, "booking_booked", booking)
	return booking, nil
}

// CancelBooking releases the booking's seats on the remote flight and marks
// it cancelled. Cancelling an already cancelled booking is a no-op success.
// Any failure leaves the booking in its prior state for a later retry.
func (s *BookingService) CancelBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	tx, err := s.bookings.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	booking, err := s.bookings.GetByID(ctx, tx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Status == domain.BookingStatusCancelled {
		if err := tx.Commit(ctx); err != nil {
			return nil, err
		}
		return booking, nil
	}

	if err := s.flights.ReleaseSeats(ctx, booking.FlightID, booking.NoOfSeats); err != nil {
		return nil, err
	}
	if err := s.bookings.UpdateStatus(ctx, tx, booking.ID, domain.BookingStatusCancelled); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	booking.Status = domain.BookingStatusCancelled
	s.publish(ctx, "booking_cancelled", booking)
	return booking, nil
}

// SweepExpired cancels every unpaid booking created strictly before cutoff in
// one conditional update. It reconciles local state only: swept bookings do
// not return their seats to remote inventory.
func (s *BookingService) SweepExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	cancelled, err := s.bookings.CancelOlderThan(ctx, cutoff,
		domain.BookingStatusBooked, domain.BookingStatusCancelled)
	if err != nil {
		return 0, err
	}
	for i := range cancelled {
		s.publish(ctx, "booking_expired", &cancelled[i])
	}
	return int64(len(cancelled)), nil
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		BookingID: booking.ID,
		UserID:    booking.UserID,
		FlightID:  booking.FlightID,
		NoOfSeats: booking.NoOfSeats,
		TotalCost: booking.TotalCost,
		Status:    string(booking.Status),
		CreatedAt: booking.CreatedAt,
	}
	key := strconv.FormatInt(booking.ID, 10)
	if err := s.producer.Publish(ctx, s.bookingTopic, key, event); err != nil {
		s.log.Warn("publish booking event failed",
			zap.String("type", eventType), zap.Int64("booking_id", booking.ID), zap.Error(err))
	}
}

var _ BookingUseCase = (*BookingService)(nil)
