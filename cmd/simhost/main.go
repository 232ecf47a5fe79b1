package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"botpool/pkg/logger"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config (defaults apply when empty)")
	flag.Parse()

	app := NewApplication(*configPath)

	if err := app.Initialize(); err != nil {
		logger.Fatalf("simhost initialization failed: %v", err)
	}

	app.Start()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.Infof("received exit signal: %v", sig)

	app.Shutdown(10 * time.Second)
	logger.Info("simhost exited")
}
