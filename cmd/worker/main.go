// Worker consumes auth events from Kafka and pushes them to Loki.
// Requires KAFKA_BROKERS and LOKI_URL; AUTH_EVENTS_KAFKA_TOPIC and KAFKA_GROUP_ID have defaults.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"tasktracker/backend/internal/config"
	"tasktracker/backend/internal/logger"
	"tasktracker/backend/internal/telemetry/loki"
)

const (
	serviceName = "tasktracker-worker"
	pushTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info", serviceName).Fatal("config", zap.Error(err))
	}
	log := logger.New(cfg.Env, cfg.LogLevel, serviceName)
	defer func() { _ = log.Sync() }()

	brokers := cfg.KafkaBrokersList()
	if len(brokers) == 0 {
		log.Fatal("KAFKA_BROKERS is required")
	}
	sink, err := loki.NewClient(cfg.LokiURL)
	if err != nil {
		log.Fatal("loki client", zap.Error(err))
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        brokers,
		Topic:          cfg.AuthEventsTopic,
		GroupID:        cfg.KafkaGroupID,
		MinBytes:       1,
		MaxBytes:       10e6,
		MaxWait:        time.Second,
		CommitInterval: time.Second,
	})
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("consuming auth events",
		zap.String("topic", cfg.AuthEventsTopic),
		zap.String("group", cfg.KafkaGroupID),
		zap.String("loki", cfg.LokiURL))

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("worker stopped")
				return
			}
			log.Warn("kafka read", zap.Error(err))
			continue
		}

		pushCtx, cancel := context.WithTimeout(ctx, pushTimeout)
		if err := sink.PushEventJSON(pushCtx, msg.Value); err != nil {
			log.Error("loki push", zap.Error(err), zap.Int64("offset", msg.Offset), zap.Int("partition", msg.Partition))
		}
		cancel()
	}
}
