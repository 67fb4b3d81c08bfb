package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/invix-studio/quick-billing/internal/postgres"
	"github.com/invix-studio/quick-billing/internal/reports/consumer"
	"github.com/invix-studio/quick-billing/internal/reports/repository"
	"github.com/invix-studio/quick-billing/pkg/logger"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("reports-worker starting...")

	logger.New(logger.Options{
		Service: "reports-worker",
		Env:     getEnv("ENV", "dev"),
		Level:   getEnv("LOG_LEVEL", "info"),
	})

	kafkaBrokers := getEnv("KAFKA_BROKERS", "localhost:9092")

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		log.Fatalf("Invalid DB_PORT: %v", err)
	}

	db, err := postgres.Connect(&postgres.Credentials{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "pos"),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := postgres.RunMigrations(db, getEnv("MIGRATIONS_PATH", "./migrations")); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	salesConsumer := consumer.NewConsumer(repository.NewRepository(db), kafkaBrokers)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		salesConsumer.Run(ctx)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down reports worker...")
	cancel()
	salesConsumer.Close()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		log.Println("Consumer stopped cleanly")
	case <-time.After(5 * time.Second):
		log.Println("Consumer shutdown timed out")
	}
}
