package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	codexcmd "github.com/lorekeep/chronicle/internal/cmd/codex"
	"github.com/lorekeep/chronicle/internal/platform/config"
)

// main starts the codex MCP server on stdio.
func main() {
	cfg, err := codexcmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		config.Exitf("parse flags: %v", err)
	}
	log.SetPrefix("[CODEX] ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := codexcmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve codex: %v", err)
	}
}
