package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/app"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/config"
)

func main() {
	configDir := flag.String("config", ".", "directory holding "+config.FileName)
	flag.Parse()

	settings, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, settings); err != nil {
		log.Fatalf("%v", err)
	}
}
