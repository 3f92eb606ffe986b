package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/jobtrawl/jobtrawl/internal/adapters/ingest"
	"github.com/jobtrawl/jobtrawl/internal/config"
	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/jobtrawl/jobtrawl/internal/di"
	"github.com/jobtrawl/jobtrawl/internal/export"
)

var exportMode = flag.Bool("export", false, "Dump stored applications to the configured export file and exit")

func main() {
	flag.Parse()

	// Load API keys and DSNs from a local .env if present
	_ = godotenv.Load()

	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	var entrypoint interface{} = run
	if *exportMode {
		entrypoint = runExport
	}

	// Run the application
	if err := container.Invoke(entrypoint); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	cfg *config.Config,
	logger *zap.Logger,
	tracker *core.TrackerService,
	mailbox core.MailboxSource,
	llmClient core.LLMClient,
	cache core.ExtractionCache,
	repo core.ApplicationRepository,
) error {
	defer logger.Sync()

	interval, err := cfg.GetDuration("sync.interval")
	if err != nil {
		return fmt.Errorf("invalid sync interval: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start the SMTP ingest listener if enabled
	var smtpIngest *ingest.SMTPIngest
	if cfg.GetBool("ingest.enabled") {
		smtpIngest = ingest.NewSMTPIngest(tracker, cfg.GetString("ingest.listen_address"), logger)
		if err := smtpIngest.Start(); err != nil {
			logger.Error("Failed to start SMTP ingest", zap.Error(err))
			return err
		}
	}

	// Periodic mailbox sync, when a mailbox source is configured
	syncDone := make(chan struct{})
	if mailbox != nil {
		go func() {
			defer close(syncDone)
			runSync(ctx, tracker, logger)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					runSync(ctx, tracker, logger)
				case <-ctx.Done():
					return
				}
			}
		}()
	} else {
		close(syncDone)
		if smtpIngest == nil {
			return fmt.Errorf("no mailbox source configured and SMTP ingest disabled; nothing to do")
		}
		logger.Info("No mailbox source configured, running in ingest-only mode")
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	cancel()
	<-syncDone

	if smtpIngest != nil {
		if err := smtpIngest.Stop(); err != nil {
			logger.Error("Failed to stop SMTP ingest", zap.Error(err))
		}
	}

	// Close any resources that need closing
	if closer, ok := llmClient.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close LLM client", zap.Error(err))
		}
	}
	if stopper, ok := cache.(interface{ Stop() }); ok {
		stopper.Stop()
	}
	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close repository", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}

// runExport dumps one user's stored applications to the configured export
// file and exits
func runExport(
	cfg *config.Config,
	logger *zap.Logger,
	repo core.ApplicationRepository,
) error {
	defer logger.Sync()

	userID := cfg.GetString("sync.user_id")
	apps, err := repo.ListByUser(context.Background(), userID)
	if err != nil {
		return fmt.Errorf("list applications: %w", err)
	}

	format := cfg.GetString("export.format")
	file := cfg.GetString("export.file")

	switch format {
	case "csv":
		if err := export.NewCSVExporter(file).Export(apps); err != nil {
			return err
		}
	case "xlsx":
		if err := export.ExportToExcel(apps, file); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}

	logger.Info("Exported applications",
		zap.String("user_id", userID),
		zap.Int("count", len(apps)),
		zap.String("format", format),
		zap.String("file", file))

	if closer, ok := repo.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close repository", zap.Error(err))
		}
	}
	return nil
}

func runSync(ctx context.Context, tracker *core.TrackerService, logger *zap.Logger) {
	stats, err := tracker.Sync(ctx)
	if err != nil {
		logger.Error("Mailbox sync failed", zap.Error(err))
		return
	}
	logger.Info("Sync run complete",
		zap.String("run_id", stats.RunID),
		zap.Int("messages_seen", stats.MessagesSeen),
		zap.Int("extracted", stats.Extracted),
		zap.Int("duplicates_skipped", stats.DuplicatesSkipped),
		zap.Int("failures", stats.Failures))
}
