package main

import (
	"context"
	"log"

	"github.com/dmitrijs2005/clouddb/internal/server"
	"github.com/dmitrijs2005/clouddb/internal/server/config"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app := server.NewApp(cfg)

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
