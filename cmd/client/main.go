package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"SocialSphere/internal/cli/commands"
	"SocialSphere/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// env + flags
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	// Ctrl+C отменяет текущий запрос к API
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("SocialSphere CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
