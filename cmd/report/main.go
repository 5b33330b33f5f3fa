package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"subtracker/internal/config"
	"subtracker/internal/export"
	"subtracker/internal/log"
	gsheet "subtracker/internal/sheets/google"
	"subtracker/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	days := flag.Int("days", 30, "expiry window in days for the table report")
	months := flag.Int("months", 6, "number of months in the trend report")
	trend := flag.Bool("trend", false, "print the monthly expense trend table")
	xlsxPath := flag.String("xlsx", "", "write a full xlsx report to this path")
	backup := flag.Bool("backup", false, "back the subscription list up to Google Sheets")
	flag.Parse()

	logger := log.New(log.DefaultConfig()).WithComponent(log.ComponentExport)
	log.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	ctx := context.Background()
	snap, err := repo.LoadSnapshot(ctx, time.Now())
	if err != nil {
		logger.Error("Failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if skipped := snap.SkippedRecords(); len(skipped) > 0 {
		logger.Warn("Some records have unusable dates and are skipped from date math", "ids", skipped)
	}

	export.RenderExpiringTable(os.Stdout, snap, *days)
	if *trend {
		export.RenderTrendTable(os.Stdout, snap, *months)
	}

	if *xlsxPath != "" {
		if err := export.WriteWorkbook(*xlsxPath, snap, *months); err != nil {
			logger.Error("Failed to write xlsx report", "path", *xlsxPath, "error", err)
			os.Exit(1)
		}
		logger.Info("Wrote xlsx report", "path", *xlsxPath)
	}

	if *backup {
		if cfg.GoogleSpreadsheetID == "" {
			logger.Error("Backup requested but GOOGLE_SPREADSHEET_ID is not set")
			os.Exit(1)
		}
		client, err := gsheet.NewClient(ctx, cfg.GoogleSpreadsheetID, cfg.GoogleSheetName)
		if err != nil {
			logger.Error("Failed to initialize Google Sheets client", "error", err)
			os.Exit(1)
		}
		rows, err := client.WriteBackup(ctx, snap)
		if err != nil {
			logger.Error("Backup failed", "error", err)
			os.Exit(1)
		}
		logger.Info("Backup complete", "rows", rows, "sheet", cfg.GoogleSheetName)
	}
}
