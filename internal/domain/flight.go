package domain

// FlightDetail is what the remote flight service reports for a single flight.
// TotalSeats is the number of seats currently open for sale.
type FlightDetail struct {
	ID         int64
	TotalSeats int
	Price      int64
}
