package flightclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/skylinehq/flightbooking/internal/domain"
	"go.uber.org/zap"
)

// Client talks to the remote flight inventory service. Every transport or
// status failure surfaces as domain.ErrFlightServiceUnavailable so the
// lifecycle engine can treat the upstream uniformly.
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

func New(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		log:     log,
	}
}

type flightPayload struct {
	TotalSeats int   `json:"totalSeats"`
	Price      int64 `json:"price"`
}

type flightEnvelope struct {
	Data flightPayload `json:"data"`
}

// seatsRequest is the wire contract of PATCH /seats: a missing Dec means
// decrement, Dec set to zero means release.
type seatsRequest struct {
	Seats int  `json:"seats"`
	Dec   *int `json:"dec,omitempty"`
}

func (c *Client) GetFlight(ctx context.Context, flightID int64) (*domain.FlightDetail, error) {
	url := fmt.Sprintf("%s/api/v1/flights/%d", c.baseURL, flightID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build flight request: %w", err)
	}

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("flight detail request failed", zap.Int64("flight_id", flightID), zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrFlightServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: flight service returned %d", domain.ErrFlightServiceUnavailable, res.StatusCode)
	}

	var envelope flightEnvelope
	if err := json.NewDecoder(res.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode flight detail: %v", domain.ErrFlightServiceUnavailable, err)
	}

	return &domain.FlightDetail{
		ID:         flightID,
		TotalSeats: envelope.Data.TotalSeats,
		Price:      envelope.Data.Price,
	}, nil
}

// DecrementSeats removes seats from the flight's open inventory.
func (c *Client) DecrementSeats(ctx context.Context, flightID int64, seats int) error {
	return c.patchSeats(ctx, flightID, seatsRequest{Seats: seats})
}

// ReleaseSeats returns previously reserved seats to the flight's inventory.
func (c *Client) ReleaseSeats(ctx context.Context, flightID int64, seats int) error {
	release := 0
	return c.patchSeats(ctx, flightID, seatsRequest{Seats: seats, Dec: &release})
}

func (c *Client) patchSeats(ctx context.Context, flightID int64, body seatsRequest) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal seats request: %w", err)
	}

	url := fmt.Sprintf("%s/api/v1/flights/%d/seats", c.baseURL, flightID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build seats request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("seat update request failed", zap.Int64("flight_id", flightID), zap.Error(err))
		return fmt.Errorf("%w: %v", domain.ErrFlightServiceUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: flight service returned %d", domain.ErrFlightServiceUnavailable, res.StatusCode)
	}
	return nil
}
