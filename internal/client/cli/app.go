package cli

import (
	"bufio"
	"context"
	"log/slog"
	"net/http"
	"os"

	"github.com/flashdeck/flashdeck-go/internal/client/config"
	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/repositories/cards"
	"github.com/flashdeck/flashdeck-go/internal/client/repositories/decks"
	"github.com/flashdeck/flashdeck-go/internal/client/session"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

// App wires the client stack together for the interactive CLI.
type App struct {
	config *config.Config
	log    logging.Logger
	sess   *session.Session
	decks  *decks.Repository
	cards  *cards.Repository
	reader *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	gw := gateway.NewHTTPGateway(c.BaseURL, &http.Client{Timeout: c.HTTPTimeout}, logger)
	sess := session.New(gw, logger)

	return &App{
		config: c,
		log:    logger,
		sess:   sess,
		decks:  decks.New(gw, sess, logger),
		cards:  cards.New(gw, sess, logger),
		reader: bufio.NewReader(os.Stdin),
	}, nil
}

// Run restores a previously issued token, when one is configured, and starts
// the REPL.
func (a *App) Run(ctx context.Context) {
	if a.config.AccessToken != "" {
		if !a.sess.Restore(ctx, a.config.AccessToken) {
			printlnFn("Stored token is expired or invalid, please log in again.")
		}
	}
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}

func (a *App) isLoggedIn() bool {
	return a.sess.IsAuthenticated()
}

func (a *App) status() string {
	if u := a.sess.CurrentUser(); u != nil {
		return "(" + u.UserName + ")"
	}
	return ""
}
