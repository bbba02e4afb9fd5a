package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/oktavandi/tasknest/config"
	"github.com/oktavandi/tasknest/internal/application"
	"github.com/oktavandi/tasknest/pkg/helpers"
)

// Consumes the task event stream and logs each event. A downstream
// integration (notifications, analytics) would hang off this loop.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-events", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQEventQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	// Prefetch for fair dispatch
	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQEventQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQEventQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev application.TaskEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				logger.WithError(err).Warn("bad event message")
				_ = msg.Nack(false, false)
				continue
			}
			logger.WithFields(map[string]interface{}{
				"type":    ev.Type,
				"user_id": ev.UserID,
				"task_id": ev.TaskID,
				"at":      ev.At,
			}).Info("task event")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("events worker listening on queue=%s", cfg.RabbitMQEventQueue)
	<-stop
	logger.Info("shutting down...")
	select {
	case <-done:
	case <-time.After(2 * time.Second):
	}
}
