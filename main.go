package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/linguabot/internal/bot"
	"github.com/example/linguabot/internal/database"
	"github.com/example/linguabot/internal/scheduler"
)

func main() {
	// Load .env if present; real environment variables win
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := database.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	b, err := bot.New()
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	// Reminders and the nightly reconciliation pass
	sched := scheduler.New(b)
	sched.Start()
	defer sched.Stop()

	done := make(chan struct{})

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v\n", sig)
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := b.Stop(shutdownCtx); err != nil {
			log.Printf("Error during shutdown: %v", err)
		}

		close(done)
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	go func() {
		if err := b.Start(ctx); err != nil && err != context.Canceled {
			log.Printf("Bot error: %v", err)
		}
	}()

	<-done
	log.Println("Bot stopped successfully")
}
