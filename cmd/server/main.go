package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Monterolautaro/rentadoor-docvault/internal/server"
	"github.com/Monterolautaro/rentadoor-docvault/internal/server/config"
)

func main() {
	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.LoadConfig()

	app := server.NewApp(cfg)
	if err := app.Run(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "server error: %v\n", err)
		os.Exit(1)
	}
}
