package domain

import "time"

type BookingStatus string

const (
	BookingStatusInitiated BookingStatus = "initiated"
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusBooked    BookingStatus = "booked"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking links a user to a flight with a seat count and the cost fixed at
// creation time. TotalCost is never recomputed after insert.
type Booking struct {
	ID        int64
	UserID    int64
	FlightID  int64
	NoOfSeats int
	TotalCost int64
	Status    BookingStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}
