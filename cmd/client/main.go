package main

import (
	"context"
	"log"

	"github.com/docvault-app/docvault/internal/client/cli"
	"github.com/docvault-app/docvault/internal/client/config"
)

func main() {
	cfg := config.LoadConfig()

	app, err := cli.NewApp(cfg)
	if err != nil {
		log.Fatalf("error initializing app: %v", err)
	}

	app.Run(context.Background())
}
