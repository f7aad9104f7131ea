package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/filevault/internal/server"
	"github.com/dmitrijs2005/filevault/internal/server/config"
)

func main() {

	// a missing .env is fine; the config layer has its own defaults
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)
}
