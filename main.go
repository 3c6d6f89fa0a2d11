package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"sjsage522/orgcrawler/commands"
)

func main() {
	// Cancel the crawl on shutdown signals; shards already written are kept
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.ExecuteContext(ctx)
}
