package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bikebed/internal/buildinfo"
	"github.com/dmitrijs2005/bikebed/internal/logging"
	"github.com/dmitrijs2005/bikebed/internal/server"
	"github.com/dmitrijs2005/bikebed/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		log.Fatalf("%v", err)
	}
}
