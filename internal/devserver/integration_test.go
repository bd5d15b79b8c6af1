package devserver_test

import (
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/models"
	"github.com/flashdeck/flashdeck-go/internal/client/repositories/cards"
	"github.com/flashdeck/flashdeck-go/internal/client/repositories/decks"
	"github.com/flashdeck/flashdeck-go/internal/client/session"
	"github.com/flashdeck/flashdeck-go/internal/devserver"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

type clientStack struct {
	sess  *session.Session
	decks *decks.Repository
	cards *cards.Repository
}

// newStack runs the full client data-access layer against a live dev server.
func newStack(t *testing.T) *clientStack {
	t.Helper()

	store, err := devserver.OpenStore(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv := httptest.NewServer(devserver.NewServer(store, "test-secret", logger).Router())
	t.Cleanup(srv.Close)

	gw := gateway.NewHTTPGateway(srv.URL, srv.Client(), logger)
	sess := session.New(gw, logger)
	return &clientStack{
		sess:  sess,
		decks: decks.New(gw, sess, logger),
		cards: cards.New(gw, sess, logger),
	}
}

func TestEndToEndStudyFlow(t *testing.T) {
	ctx := context.Background()
	c := newStack(t)

	ok, err := c.sess.Register(ctx, "alice", "s3cret", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, c.sess.IsAuthenticated())
	user := c.sess.CurrentUser()
	require.NotNil(t, user)

	deck := models.NewDeck()
	deck.Name = "Spanish"
	deck.Description = "greetings"
	deck.Tags = []string{"language"}
	created, err := c.decks.AddDeck(ctx, deck, nil)
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	// the session user's deck-id list followed the mutation
	require.Contains(t, c.sess.CurrentUser().DeckIDs, created.ID)

	card := models.NewCard()
	card.Question = "hello?"
	card.Answer = "hola"
	createdCard, err := c.cards.AddCard(ctx, created.ID, card, nil)
	require.NoError(t, err)

	list, err := c.cards.GetCards(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.cards.AnswerCard(ctx, created.ID, createdCard.ID, true))

	got, err := c.cards.GetCard(ctx, created.ID, createdCard.ID)
	require.NoError(t, err)
	assert.Contains(t, got.TimeToRepeat, user.ID)

	fresh, err := c.decks.GetDeck(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, fresh)
}

func TestEndToEndOptimisticEdit(t *testing.T) {
	ctx := context.Background()
	c := newStack(t)

	ok, err := c.sess.Register(ctx, "alice", "s3cret", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	deck := models.NewDeck()
	deck.Name = "Spanish"
	created, err := c.decks.AddDeck(ctx, deck, nil)
	require.NoError(t, err)

	_, err = c.decks.GetMyDecks(ctx)
	require.NoError(t, err)

	edited := created.Clone()
	edited.Name = "Spanish A1"
	edited.Tags = []string{"beginner"}
	c.decks.UpdateDeck(ctx, edited, nil)

	// the local copy changed immediately
	local, err := c.decks.GetDeck(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Spanish A1", local.Name)

	// and the backend converged
	c.decks.Reset()
	remote, err := c.decks.GetDeck(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, remote)
	assert.Equal(t, "Spanish A1", remote.Name)
	assert.Equal(t, []string{"beginner"}, remote.Tags)
}

func TestEndToEndLogoutResets(t *testing.T) {
	ctx := context.Background()
	c := newStack(t)

	ok, err := c.sess.Register(ctx, "alice", "s3cret", "s3cret")
	require.NoError(t, err)
	require.True(t, ok)

	deck := models.NewDeck()
	deck.Name = "Spanish"
	_, err = c.decks.AddDeck(ctx, deck, nil)
	require.NoError(t, err)

	mine, err := c.decks.GetMyDecks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	c.sess.Logout()
	c.decks.Reset()
	c.cards.Reset()

	assert.False(t, c.sess.IsAuthenticated())
	assert.Nil(t, c.sess.CurrentUser())

	// anonymous "my decks" comes back empty: the backend rejects the call
	mine, err = c.decks.GetMyDecks(ctx)
	require.NoError(t, err)
	assert.Empty(t, mine)
}
