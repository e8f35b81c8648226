package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	manageablecmd "github.com/louisbranch/manageable/internal/cmd/manageable"
)

func main() {
	cfg, err := manageablecmd.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("parse flags: %v", err)
	}
	log.SetPrefix("[MANAGEABLE] ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := manageablecmd.Run(ctx, cfg); err != nil {
		log.Fatalf("failed to serve: %v", err)
	}
}
