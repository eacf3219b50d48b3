package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"interview-rag-be/internal/bootstrap"
	"interview-rag-be/internal/config"
	"interview-rag-be/internal/migrations"
	"interview-rag-be/internal/server"
	"interview-rag-be/internal/tracer"
	"interview-rag-be/pkg/database"
)

func main() {
	// 0. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer()
	defer shutdownTracer(context.Background())

	// 1. Load Configuration
	cfg := config.Load()
	isProd := cfg.App.Environment == "production"

	// 2. Initialize Database
	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(cfg.Database.Connection, migrations.FS); err != nil {
			log.Panicf("Migration failed: %v", err)
		}
	}
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection, isProd)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Consume(ctx); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()
	if container.NotificationService != nil {
		if err := container.NotificationService.Start(ctx); err != nil {
			log.Printf("Notification service not started: %v", err)
		}
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		done := make(chan struct{})
		go func() {
			_ = srv.Shutdown()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			log.Println("Shutdown timed out")
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}
