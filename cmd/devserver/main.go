package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"

	"github.com/flashdeck/flashdeck-go/internal/devserver"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

func main() {
	addr := flag.String("addr", ":5001", "listen address")
	dsn := flag.String("dsn", "flashdeck.db", "sqlite database path")
	secret := flag.String("secret", "dev-secret", "token signing secret")
	flag.Parse()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	ctx := context.Background()

	store, err := devserver.OpenStore(ctx, *dsn)
	if err != nil {
		logger.Error(ctx, "opening store failed", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	srv := devserver.NewServer(store, *secret, logger)
	logger.Info(ctx, "dev server listening", "addr", *addr)
	if err := http.ListenAndServe(*addr, srv.Router()); err != nil {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
