package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"trainloop/api/rest/routes"
	"trainloop/config"
	"trainloop/core/models"
	"trainloop/core/monitoring"
	"trainloop/core/registry"
	"trainloop/core/repository"
	"trainloop/core/trainer"
	"trainloop/storage"

	"github.com/gorilla/mux"
)

func main() {
	cfg := config.Load()

	// Initialize database
	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Database connected successfully")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize trainer client
	trainerClient := trainer.NewClient(cfg.TrainerURL, cfg.TrainerTimeout)

	// Initialize poller; each applied refresh writes through to the database
	jobRepo := repository.NewJobRepository(db)
	poller := monitoring.NewPoller(trainerClient, cfg.PollInterval, func(jobs []models.Job) {
		for _, job := range jobs {
			if err := jobRepo.UpsertJob(ctx, job); err != nil {
				log.Printf("WARNING: failed to persist pipeline %s: %v", job.ID, err)
			}
		}
	})
	go poller.Start(ctx)
	defer poller.Stop()

	// Initialize model registry
	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize artifact store: %v", err)
	}
	reg := registry.New(repository.NewModelRepository(db), blobs)

	sweeper, err := registry.NewSweeper(reg, cfg.SweepSchedule)
	if err != nil {
		log.Fatalf("Failed to configure registry sweep: %v", err)
	}
	if err := sweeper.Start(ctx); err != nil {
		log.Fatalf("Failed to start registry sweep: %v", err)
	}
	defer sweeper.Stop()

	// Setup routes
	r := mux.NewRouter()
	routes.SetupRoutes(r, db, trainerClient, poller, reg)

	// Health check endpoint
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	// Start server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Starting server on port %s", cfg.ServerPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := server.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}

func newBlobStore(ctx context.Context, cfg *config.Config) (registry.BlobStore, error) {
	if cfg.ArtifactBackend == "s3" {
		return storage.NewS3Store(ctx, cfg.ArtifactBucket, cfg.ArtifactPrefix)
	}
	return storage.NewFSStore(cfg.ArtifactRoot)
}
