package main

import (
	"context"
	"log"
	"os"

	"github.com/dkhrutsky/mdskeeper/internal/app"
	"github.com/dkhrutsky/mdskeeper/internal/config"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stderr)

	ctx := context.Background()

	a, err := app.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	a.Run(ctx)

}
