package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/repositories/decks"
	"github.com/flashdeck/flashdeck-go/internal/client/session"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

// rejectingGateway answers every request with a fixed non-success status.
type rejectingGateway struct {
	status int
}

func (g rejectingGateway) Send(_ context.Context, _ *gateway.Request) (*gateway.Response, error) {
	return &gateway.Response{Status: g.status}, nil
}

func newRejectingApp(status int) *App {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	gw := rejectingGateway{status: status}
	sess := session.New(gw, logger)
	return &App{log: logger, sess: sess, decks: decks.New(gw, sess, logger)}
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var out []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		out = append(out, strings.TrimSpace(fmt.Sprintln(args...)))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &out
}

func TestListDecksRejectedListing(t *testing.T) {
	a := newRejectingApp(400)
	out := capturePrintln(t)

	err := a.ListDecks(context.Background(), nil)
	require.NoError(t, err)
	assert.Contains(t, *out, "No results.")
}

func TestShowDeckRemoteMiss(t *testing.T) {
	a := newRejectingApp(404)
	out := capturePrintln(t)

	err := a.ShowDeck(context.Background(), []string{"ghost"})
	require.NoError(t, err)
	assert.Contains(t, *out, "No such deck.")
}
