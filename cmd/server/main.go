package main

import (
	"context"
	"log"

	server "github.com/docvault-app/docvault/internal/server"
	"github.com/docvault-app/docvault/internal/server/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}

	app.Run(context.Background())
}
