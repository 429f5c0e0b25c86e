package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudjet/airbooking/api"
	"github.com/cloudjet/airbooking/config"
	"github.com/cloudjet/airbooking/internal/amqp"
	"github.com/cloudjet/airbooking/internal/bootstrap"
	"github.com/cloudjet/airbooking/internal/cache"
	"github.com/cloudjet/airbooking/internal/kafka"
	"github.com/cloudjet/airbooking/internal/repository"
	"github.com/cloudjet/airbooking/internal/service/booking"
	"github.com/cloudjet/airbooking/internal/service/discount"
	"github.com/cloudjet/airbooking/internal/service/flights"
	"github.com/cloudjet/airbooking/internal/service/payment"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type eventProducer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
	Close() error
}

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		logger.WithError(err).Fatal("load config")
	}
	if level, err := logrus.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(level)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("parse postgres config")
	}
	if cfg.Database.MaxConns > 0 {
		poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.WithError(err).Fatal("connect postgres")
	}
	defer pool.Close()

	searchDB, err := sqlx.Connect("pgx", cfg.Database.DSN())
	if err != nil {
		logger.WithError(err).Fatal("connect postgres (search)")
	}
	defer searchDB.Close()

	checks := map[string]api.HealthCheck{"postgres": pool.Ping}

	var (
		searchCache flights.SearchCache
		invalidator discount.Invalidator
	)
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.SearchCacheTTL)*time.Second)
		defer redisCache.Close()
		searchCache, invalidator = redisCache, redisCache
		checks["redis"] = redisCache.Ping
	}

	producer := newEventProducer(cfg, logger)
	if producer != nil {
		defer producer.Close()
	}
	if kp, ok := producer.(*kafka.Producer); ok {
		checks["kafka"] = kp.CheckConnection
	}

	var (
		bookingProducer booking.Producer
		paymentOpts     = []payment.PaymentServiceOption{payment.WithLogger(logger)}
	)
	if producer != nil {
		bookingProducer = producer
		paymentOpts = append(paymentOpts, payment.WithEvents(producer, cfg.Kafka.PaymentTopic))
	}

	bookingService := booking.NewBookingService(
		repository.NewStore(pool),
		repository.NewBookingRepository(pool),
		bookingProducer,
		cfg.Kafka.BookingTopic,
		booking.WithNotificationsTopic(cfg.Kafka.NotificationsTopic),
		booking.WithLogger(logger),
	)
	paymentService := payment.NewPaymentService(
		repository.NewPaymentRepository(pool),
		payment.Settings{
			ApplicationID:    cfg.Payment.ApplicationID,
			PrivateKey:       cfg.Payment.PrivateKey,
			StrictSignature:  cfg.Payment.StrictSignature,
			DefaultOrderName: cfg.Payment.DefaultOrderName,
		},
		paymentOpts...,
	)
	flightService := flights.NewFlightService(repository.NewSearchRepository(searchDB), searchCache, logger)
	discountService := discount.NewDiscountService(repository.NewDiscountRepository(pool), invalidator, logger)

	router := api.NewRouter(api.RouterConfig{
		JWTSecret:      cfg.Auth.JWTSecret,
		AllowedOrigins: cfg.HTTP.AllowedOrigins,
		SwaggerDir:     cfg.HTTP.SwaggerDir,
		Checks:         checks,
	}, api.Services{
		Bookings:  bookingService,
		Payments:  paymentService,
		Flights:   flightService,
		Discounts: discountService,
	}, logger)

	if err := bootstrap.Run(ctx, cfg, router, logger); err != nil {
		logger.WithError(err).Fatal("server error")
	}
}

// newEventProducer returns nil when events are disabled.
func newEventProducer(cfg *config.Config, logger logrus.FieldLogger) eventProducer {
	switch cfg.Events.Driver {
	case "kafka":
		return kafka.NewProducer(cfg.Kafka.Brokers, logger)
	case "amqp":
		return amqp.NewPublisher(cfg.AMQP.URL, logger)
	case "none":
		return nil
	default:
		logger.WithField("driver", cfg.Events.Driver).Warn("unknown events driver, events disabled")
		return nil
	}
}
