package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kitchen-nadal/kitchen/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override kitchen config path (optional)")
	env := flag.String("env", "", "API environment: dev or prod (optional, overrides KITCHEN_ENV)")
	refreshSeconds := flag.Int("refresh", 0, "refresh interval in seconds (optional, defaults to 60s)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath, Env: *env}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshEvery = refresh
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "kitchen: %v\n", err)
		return 1
	}
	return 0
}
