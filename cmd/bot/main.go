package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/user/weekly-report-bot/internal/bot"
	"github.com/user/weekly-report-bot/internal/db"
	"github.com/user/weekly-report-bot/internal/dialog"
	"github.com/user/weekly-report-bot/internal/server"
	"github.com/user/weekly-report-bot/internal/sheets"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	telegramToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	if telegramToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	store, cleanup := newReportStore()
	defer cleanup()

	b, err := bot.New(telegramToken, store)
	if err != nil {
		log.Fatalf("Error creating bot: %v", err)
	}

	server.SetSessionSource(b.SessionCount)

	addr := os.Getenv("HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	srv := server.New(addr, b)
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatalf("Error starting HTTP server: %v", err)
		}
	}()

	// With a webhook configured, Telegram pushes updates to the HTTP
	// server; otherwise fall back to long polling.
	if os.Getenv("TELEGRAM_WEBHOOK_URL") == "" {
		log.Println("Starting bot in long polling mode...")
		b.Start()
	} else {
		log.Println("Starting bot in webhook mode...")
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down bot...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error shutting down HTTP server: %v", err)
	}
	b.Stop()
	log.Println("Bot stopped")
}

// newReportStore picks the storage backend: Postgres when DATABASE_URL
// is set, Google Sheets otherwise.
func newReportStore() (dialog.ReportStore, func()) {
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		manager, err := db.NewManager(dbURL)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := manager.InitSchema(ctx); err != nil {
			log.Fatalf("Failed to initialize database schema: %v", err)
		}

		log.Println("Using PostgreSQL report store")
		return db.NewStore(manager), func() { manager.Close() }
	}

	sheetID := os.Getenv("GOOGLE_SHEETS_SPREADSHEET_ID")
	if sheetID == "" {
		log.Fatal("GOOGLE_SHEETS_SPREADSHEET_ID is required when DATABASE_URL is not set")
	}

	configPath := os.Getenv("API_CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/api.yaml"
	}

	client, err := sheets.NewClient(configPath, sheetID)
	if err != nil {
		log.Fatalf("Failed to create Sheets client: %v", err)
	}

	log.Println("Using Google Sheets report store")
	return client, func() {}
}
