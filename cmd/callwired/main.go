package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/danmuck/callwire/internal/config"
	"github.com/danmuck/callwire/internal/observability"
)

func main() {
	configPath := flag.String("config", "", "path to callwired TOML config (built-in defaults when empty)")
	flag.Parse()

	logger := observability.InitLogger("callwired")

	cfg := config.DefaultDaemonConfig()
	if *configPath != "" {
		loaded, err := config.LoadDaemonConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "callwired: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	d, err := newDaemon(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "callwired: %v\n", err)
		os.Exit(1)
	}
	if err := d.run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "callwired: %v\n", err)
		os.Exit(1)
	}
}
