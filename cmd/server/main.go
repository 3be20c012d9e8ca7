// Command server runs the zentasks HTTP API and its gRPC health service.
package main

import (
	"context"
	"log"

	"github.com/bannakon/zentasks/internal/server"
	"github.com/bannakon/zentasks/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("server init: %v", err)
	}

	app.Run(ctx)
}
