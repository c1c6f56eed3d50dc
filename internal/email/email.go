package email

import (
	"context"

	"github.com/skylinehq/flightbooking/internal/kafka"
	"go.uber.org/zap"
)

type Sender struct {
	log *zap.Logger
}

func NewSender(log *zap.Logger) *Sender {
	return &Sender{log: log}
}

// Send delivers a booking notification for a consumed event. Delivery is a
// stub: the event is logged with everything a mail template needs.
func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	s.log.Info("sending booking notification",
		zap.String("type", event.Type),
		zap.Int64("booking_id", event.BookingID),
		zap.Int64("user_id", event.UserID),
		zap.Int64("flight_id", event.FlightID),
		zap.Int("no_of_seats", event.NoOfSeats),
		zap.Int64("total_cost", event.TotalCost),
	)
	return nil
}
