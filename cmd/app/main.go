package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/skylinehq/flightbooking/config"
	"github.com/skylinehq/flightbooking/internal/bootstrap"
	"github.com/skylinehq/flightbooking/internal/cache"
	"github.com/skylinehq/flightbooking/internal/flightclient"
	"github.com/skylinehq/flightbooking/internal/kafka"
	"github.com/skylinehq/flightbooking/internal/repository"
	"github.com/skylinehq/flightbooking/internal/service/booking"
	"github.com/skylinehq/flightbooking/internal/service/flights"
	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		logger.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightCacheTTLSeconds)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightClient := flightclient.New(
		cfg.FlightService.BaseURL,
		time.Duration(cfg.FlightService.TimeoutSeconds)*time.Second,
		logger,
	)
	bookingRepo := repository.NewBookingRepository(pool)
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightClient,
		producer,
		cfg.Kafka.BookingEventsTopic,
		time.Duration(cfg.Booking.PaymentWindowSeconds)*time.Second,
		logger,
	)
	flightService := flights.NewFlightService(flightClient, redisCache)

	if err := bootstrap.Run(ctx, cfg, bookingService, flightService, redisCache, logger); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
