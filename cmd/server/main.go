// Package main is the entry point for the Lightwave LED server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lightwaveos/lightwave-go/internal/api"
	"github.com/lightwaveos/lightwave-go/internal/config"
	"github.com/lightwaveos/lightwave-go/internal/database"
	"github.com/lightwaveos/lightwave-go/internal/database/models"
	"github.com/lightwaveos/lightwave-go/internal/database/repositories"
	"github.com/lightwaveos/lightwave-go/internal/render"
	"github.com/lightwaveos/lightwave-go/internal/services/output"
	"github.com/lightwaveos/lightwave-go/internal/services/preset"
	"github.com/lightwaveos/lightwave-go/internal/services/pubsub"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Print startup banner
	printBanner(cfg)

	// Connect to database
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close() }()

	// Auto-migrate database schema
	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&models.Preset{},
		&models.Sequence{},
		&models.SequenceStep{},
		&models.Setting{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	// Select the output sink
	sink := openSink(cfg)

	// Create the frame scheduler
	scheduler := render.NewScheduler(render.SchedulerConfig{
		FrameRate:        cfg.FrameRate,
		ChaseDelayFrames: cfg.ChaseDelayFrames,
	}, sink)

	// Services
	ps := pubsub.New()
	presetRepo := repositories.NewPresetRepository(db)
	settingRepo := repositories.NewSettingRepository(db)
	seqRepo := repositories.NewSequenceRepository(db)
	presetService := preset.NewService(presetRepo, settingRepo, scheduler, ps)
	player := preset.NewPlayer(seqRepo, presetService, ps)

	// Restore the last applied state before the first frame renders
	if restored, err := presetService.RestoreLastState(context.Background()); err != nil {
		log.Printf("Warning: failed to restore last state: %v", err)
	} else if restored {
		log.Println("💾 Restored last render state")
	}

	scheduler.Start()

	// API server
	apiServer := api.NewServer(scheduler, presetService, player, seqRepo, ps)
	api.Version = Version
	apiServer.AttachPreview(cfg.PreviewRateHz)
	router := apiServer.Router(cfg.CORSOrigin, cfg.IsDevelopment())

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Persist the visible state for the next boot
	if err := presetService.PersistLastState(context.Background(), scheduler.CaptureState()); err != nil {
		log.Printf("Warning: failed to persist last state: %v", err)
	}

	// Cleanup services in reverse order
	player.Stop()
	scheduler.Stop()
	if closer, ok := sink.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			log.Printf("Warning: output close error: %v", err)
		}
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// openSink selects the frame output per configuration. Hardware failures fall
// back to the null sink so the control surface stays reachable.
func openSink(cfg *config.Config) render.Sink {
	switch cfg.OutputDriver {
	case "spi":
		sink, err := output.NewSPISink(output.SPIConfig{Device: cfg.SPIDevice})
		if err != nil {
			log.Printf("Warning: SPI output unavailable (%v), frames will be discarded", err)
			return output.NullSink{}
		}
		return sink
	case "artnet":
		sink, err := output.NewArtNetSink(output.ArtNetConfig{
			BroadcastAddr: cfg.ArtNetAddr,
			Port:          cfg.ArtNetPort,
			StartUniverse: 1,
		})
		if err != nil {
			log.Printf("Warning: Art-Net output unavailable (%v), frames will be discarded", err)
			return output.NullSink{}
		}
		return sink
	default:
		log.Println("No output driver configured, frames will be discarded")
		return output.NullSink{}
	}
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  Lightwave LED Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Frame rate:  %d fps\n", cfg.FrameRate)
	fmt.Printf("  Output:      %s\n", cfg.OutputDriver)
	fmt.Println("============================================")
}
