package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"

	_ "github.com/jackc/pgx/v5/stdlib"

	"liveclass-service/internal/config"
	"liveclass-service/internal/notifier"
	"liveclass-service/internal/repository"
)

func main() {
	godotenv.Load(".env.dev")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	db, err := sqlx.Connect("pgx", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Notification worker connected to the database.")

	repo := repository.NewPostgresDeviceTokenRepository(db)

	if err := notifier.Start(cfg.NatsURL, repo); err != nil {
		log.Fatalf("Failed to start worker: %v", err)
	}

	log.Println("Notification worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down notification worker...")
}
