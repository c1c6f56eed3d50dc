package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/skylinehq/flightbooking/config"
	"github.com/skylinehq/flightbooking/internal/email"
	"github.com/skylinehq/flightbooking/internal/flightclient"
	"github.com/skylinehq/flightbooking/internal/kafka"
	"github.com/skylinehq/flightbooking/internal/repository"
	"github.com/skylinehq/flightbooking/internal/service/booking"
	"github.com/skylinehq/flightbooking/internal/sweeper"
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

	producer := kafka.NewProducer(cfg.Kafka.Brokers)
	defer producer.Close()

	flightClient := flightclient.New(
		cfg.FlightService.BaseURL,
		time.Duration(cfg.FlightService.TimeoutSeconds)*time.Second,
		logger,
	)
	bookingRepo := repository.NewBookingRepository(pool)
	paymentWindow := time.Duration(cfg.Booking.PaymentWindowSeconds) * time.Second
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightClient,
		producer,
		cfg.Kafka.BookingEventsTopic,
		paymentWindow,
		logger,
	)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic)
	defer consumer.Close()

	emailSender := email.NewSender(logger)

	go func() {
		if err := consumer.Consume(ctx, func(ctx context.Context, msg kafkaGo.Message) error {
			var event kafka.BookingEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				logger.Warn("decode booking event", zap.Error(err))
				return nil
			}
			return emailSender.Send(ctx, event)
		}); err != nil {
			logger.Info("consumer stopped", zap.Error(err))
		}
	}()

	expiry := sweeper.New(
		bookingService,
		time.Duration(cfg.Worker.SweepIntervalSeconds)*time.Second,
		paymentWindow,
		logger,
	)
	expiry.Run(ctx)
}
