package main

import (
	"context"
	"log"
	"os"

	"github.com/Logicampgrid/FacebookPost-sub000/internal/app"
	"github.com/Logicampgrid/FacebookPost-sub000/internal/config"
)

func main() {
	cfg := config.MustLoad()

	ctx := context.Background()

	application, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if err := application.Run(ctx); err != nil {
		log.Printf("application error: %v", err)
		os.Exit(1)
	}
}
