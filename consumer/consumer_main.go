package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tnqbao/gau-bucket-list/config"
	"github.com/tnqbao/gau-bucket-list/consumer/worker"
	infraPkg "github.com/tnqbao/gau-bucket-list/infra"
)

func main() {
	err := godotenv.Load("../staging.env")
	if err != nil {
		log.Println("No .env file found, continuing with environment variables")
	}

	cfg := config.NewConfig()
	if !cfg.EnvConfig.Activity.Enabled {
		log.Fatalf("Activity consumer requires ACTIVITY_ENABLED=true")
	}

	infra := infraPkg.InitInfra(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	itemConsumer := worker.NewItemConsumer(infra.RabbitMQ.Channel, infra, infra.Activity)
	if err := itemConsumer.Start(ctx); err != nil {
		infra.Logger.ErrorWithContextf(ctx, err, "Failed to start Item consumer: %v", err)
		log.Fatalf("Failed to start Item consumer: %v", err)
	}

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	infra.Logger.InfoWithContextf(ctx, "Shutting down consumer...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	select {
	case <-itemConsumer.Done():
	case <-shutdownCtx.Done():
		log.Println("Item consumer did not drain before the shutdown deadline")
	}
	if err := infra.Close(shutdownCtx); err != nil {
		log.Printf("Failed to release infra cleanly: %v", err)
	}

	log.Println("Consumer exited properly")
}
