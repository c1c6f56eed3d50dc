package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skylinehq/flightbooking/api"
	"github.com/skylinehq/flightbooking/config"
	"github.com/skylinehq/flightbooking/internal/service/booking"
	"github.com/skylinehq/flightbooking/internal/service/flights"
	"go.uber.org/zap"
)

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails.
func Run(
	ctx context.Context,
	cfg *config.Config,
	bookingSvc booking.BookingUseCase,
	flightSvc flights.FlightUseCase,
	dedupe api.PaymentDeduper,
	log *zap.Logger,
) error {
	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	keyTTL := time.Duration(cfg.Booking.PaymentKeyTTLSeconds) * time.Second
	api.NewBookingHandler(bookingSvc, dedupe, keyTTL).Register(v1.Group("/bookings"))
	api.NewFlightHandler(flightSvc).Register(v1.Group("/flights"))

	srv := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	log.Info("http server started", zap.String("address", cfg.HTTP.Address))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
