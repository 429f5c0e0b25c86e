package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cloudjet/airbooking/config"
	"github.com/cloudjet/airbooking/internal/amqp"
	"github.com/cloudjet/airbooking/internal/email"
	"github.com/cloudjet/airbooking/internal/kafka"
	"github.com/sirupsen/logrus"
)

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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(logger)
	topics := notificationTopics(cfg)
	log := logger.WithFields(logrus.Fields{"driver": cfg.Events.Driver, "topics": topics})

	switch cfg.Events.Driver {
	case "kafka":
		consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, topics...)
		defer consumer.Close()
		log.Info("worker started")
		err = consumer.Consume(ctx, sender.Handle)
	case "amqp":
		consumer := amqp.NewConsumer(cfg.AMQP.URL, logger, topics...)
		log.Info("worker started")
		err = consumer.Consume(ctx, sender.Handle)
	default:
		log.Warn("events disabled, nothing to consume")
		<-ctx.Done()
	}

	if err != nil && ctx.Err() == nil {
		logger.WithError(err).Fatal("consumer stopped")
	}
	logger.Info("worker stopped")
}

// notificationTopics prefers the dedicated notifications topic over the raw
// booking topic so each booking is mailed once.
func notificationTopics(cfg *config.Config) []string {
	bookingTopic := cfg.Kafka.NotificationsTopic
	if bookingTopic == "" {
		bookingTopic = cfg.Kafka.BookingTopic
	}
	return []string{bookingTopic, cfg.Kafka.PaymentTopic}
}
