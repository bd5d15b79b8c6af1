package cards

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/models"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

// fakeGateway returns scripted responses and records every request it saw.
type fakeGateway struct {
	handler  func(req *gateway.Request) (*gateway.Response, error)
	requests []*gateway.Request
}

func (f *fakeGateway) Send(_ context.Context, req *gateway.Request) (*gateway.Response, error) {
	f.requests = append(f.requests, req)
	return f.handler(req)
}

type stubCredentials struct{}

func (stubCredentials) AttachCredentials(req *gateway.Request) bool {
	req.SetHeader("Authorization", "Bearer test")
	return true
}

func jsonBody(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func okJSON(t *testing.T, v any) (*gateway.Response, error) {
	return &gateway.Response{Status: http.StatusOK, Body: jsonBody(t, v)}, nil
}

func newTestRepo(gw *fakeGateway) (*Repository, *time.Time) {
	r := New(gw, stubCredentials{}, testLogger())
	current := time.Now()
	r.now = func() time.Time { return current }
	return r, &current
}

func someCard(id, question string) *models.Card {
	c := models.NewCard()
	c.ID = id
	c.Question = question
	c.Answer = "answer"
	return c
}

func TestGetCardFetchesWithoutCaching(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return okJSON(t, someCard("c1", "hello?"))
	}}
	r, _ := newTestRepo(gw)

	card, err := r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Equal(t, "/api/v1/decks/d1/cards/c1", gw.requests[0].Path)

	_, err = r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	assert.Len(t, gw.requests, 2)
}

func TestGetCardServedFromDeckScope(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return okJSON(t, []*models.Card{someCard("c1", "hello?")})
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)

	card, err := r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Len(t, gw.requests, 1)
}

func TestGetCardsCachingPerDeck(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return okJSON(t, []*models.Card{someCard("c1", "hello?")})
	}}
	r, now := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/decks/d1/cards", gw.requests[0].Path)

	_, err = r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, gw.requests, 1)

	// other decks have their own deadline and scope
	_, err = r.GetCards(context.Background(), "d2")
	require.NoError(t, err)
	assert.Len(t, gw.requests, 2)

	*now = now.Add(cardsTTL + time.Second)
	_, err = r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, gw.requests, 3)
}

func TestGetCardsRejected(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return &gateway.Response{Status: http.StatusNotFound}, nil
	}}
	r, _ := newTestRepo(gw)

	cards, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Empty(t, cards)
	assert.False(t, r.ContainsDeck("d1"))
}

func TestAnswerCardReplacesCachedCard(t *testing.T) {
	answered := someCard("c1", "hello?")
	answered.TimeToRepeat["u1"] = time.Now().Add(24 * time.Hour).UTC()

	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{someCard("c1", "hello?")})
		}
		assert.Equal(t, "/api/v1/decks/d1/cards/c1", req.Path)
		assert.Equal(t, "application/json", req.ContentType)
		assert.Equal(t, "true", string(req.Body))
		return okJSON(t, answered)
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	require.NoError(t, r.AnswerCard(context.Background(), "d1", "c1", true))

	card, err := r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	assert.Contains(t, card.TimeToRepeat, "u1")
}

func TestAnswerCardRejectedLeavesCache(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{someCard("c1", "hello?")})
		}
		return &gateway.Response{Status: http.StatusNotFound}, nil
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	require.NoError(t, r.AnswerCard(context.Background(), "d1", "c1", false))

	card, err := r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	assert.Empty(t, card.TimeToRepeat)
}

func TestAddCardConfirmed(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{someCard("c1", "hello?")})
		}
		assert.Contains(t, req.ContentType, "multipart/form-data")
		return &gateway.Response{Status: http.StatusCreated,
			Body: jsonBody(t, someCard("c2", "bye?"))}, nil
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	created, err := r.AddCard(context.Background(), "d1", someCard("", "bye?"), nil)
	require.NoError(t, err)
	assert.Equal(t, "c2", created.ID)
	assert.Equal(t, 1, notifications)

	card, err := r.GetCard(context.Background(), "d1", "c2")
	require.NoError(t, err)
	require.NotNil(t, card)
	assert.Len(t, gw.requests, 2) // served from the cached scope
}

func TestAddCardUncachedDeckSkipsNotification(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return &gateway.Response{Status: http.StatusCreated,
			Body: jsonBody(t, someCard("c2", "bye?"))}, nil
	}}
	r, _ := newTestRepo(gw)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	created, err := r.AddCard(context.Background(), "d1", someCard("", "bye?"), nil)
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, 0, notifications)
}

func TestAddCardRejected(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return &gateway.Response{Status: http.StatusBadRequest}, nil
	}}
	r, _ := newTestRepo(gw)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	created, err := r.AddCard(context.Background(), "d1", someCard("", "bye?"), nil)
	assert.ErrorIs(t, err, ErrRejected)
	assert.Nil(t, created)
	assert.Equal(t, 0, notifications)
}

func TestUpdateCardOptimistic(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{someCard("c1", "hello?")})
		}
		return &gateway.Response{Status: http.StatusNoContent}, nil
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	edited := someCard("c1", "hello there?")
	r.UpdateCard(context.Background(), "d1", edited, nil)
	assert.Equal(t, 1, notifications)

	card, err := r.GetCard(context.Background(), "d1", "c1")
	require.NoError(t, err)
	assert.Equal(t, "hello there?", card.Question)

	var patches []*gateway.Request
	for _, req := range gw.requests {
		if req.Method == http.MethodPatch || strings.Contains(req.Path, "update-") {
			patches = append(patches, req)
		}
	}
	require.Len(t, patches, 1)
	assert.Equal(t, "application/json-patch+json", patches[0].ContentType)
	assert.JSONEq(t, `[{"op":"replace","path":"/question","value":"hello there?"}]`, string(patches[0].Body))
}

func imageCalls(requests []*gateway.Request) []*gateway.Request {
	var calls []*gateway.Request
	for _, req := range requests {
		if strings.HasSuffix(req.Path, "/update-image") {
			calls = append(calls, req)
		}
	}
	return calls
}

func TestUpdateCardChangedImage(t *testing.T) {
	prior := someCard("c1", "hello?")
	prior.ImagePath = "/images/old.png"
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{prior})
		}
		return &gateway.Response{Status: http.StatusNoContent}, nil
	}}
	r, _ := newTestRepo(gw)
	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	edited := someCard("c1", "hello?")
	edited.ImagePath = "cover.png"
	img := &models.Asset{Name: "cover.png", Content: []byte{0x89, 0x50}}
	r.UpdateCard(context.Background(), "d1", edited, img)

	calls := imageCalls(gw.requests)
	require.Len(t, calls, 1)
	assert.Equal(t, "/api/v1/decks/d1/cards/c1/update-image", calls[0].Path)
	assert.Contains(t, calls[0].ContentType, "multipart/form-data")
}

func TestUpdateCardUnchangedImageSuppressed(t *testing.T) {
	prior := someCard("c1", "hello?")
	prior.ImagePath = "/images/old.png"
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{prior})
		}
		return &gateway.Response{Status: http.StatusNoContent}, nil
	}}
	r, _ := newTestRepo(gw)
	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	// an asset is supplied but the reference did not change: no image call
	edited := someCard("c1", "hello?")
	edited.ImagePath = prior.ImagePath
	img := &models.Asset{Name: "cover.png", Content: []byte{0x89, 0x50}}
	r.UpdateCard(context.Background(), "d1", edited, img)

	assert.Empty(t, imageCalls(gw.requests))
}

func TestUpdateCardUnknownPriorAborts(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return &gateway.Response{Status: http.StatusNotFound}, nil
	}}
	r, _ := newTestRepo(gw)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	r.UpdateCard(context.Background(), "d1", someCard("ghost", "X"), nil)
	assert.Equal(t, 0, notifications)
	assert.Len(t, gw.requests, 1)
}

func TestRemoveCard(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		if req.Method == http.MethodGet {
			return okJSON(t, []*models.Card{someCard("c1", "hello?")})
		}
		return &gateway.Response{Status: http.StatusNoContent}, nil
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)

	notifications := 0
	r.Subscribe(func() { notifications++ })

	r.RemoveCard(context.Background(), "d1", "c1")
	assert.Equal(t, 1, notifications)

	last := gw.requests[len(gw.requests)-1]
	assert.Equal(t, http.MethodDelete, last.Method)
	assert.Equal(t, "/api/v1/decks/d1/cards/c1", last.Path)

	cards, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Empty(t, cards)
}

func TestContainsDeck(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return okJSON(t, []*models.Card{someCard("c1", "hello?")})
	}}
	r, now := newTestRepo(gw)

	assert.False(t, r.ContainsDeck("d1"))

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.True(t, r.ContainsDeck("d1"))

	*now = now.Add(cardsTTL + time.Second)
	assert.False(t, r.ContainsDeck("d1"))
}

func TestReset(t *testing.T) {
	gw := &fakeGateway{handler: func(req *gateway.Request) (*gateway.Response, error) {
		return okJSON(t, []*models.Card{someCard("c1", "hello?")})
	}}
	r, _ := newTestRepo(gw)

	_, err := r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	require.Len(t, gw.requests, 1)

	r.Reset()
	assert.False(t, r.ContainsDeck("d1"))

	_, err = r.GetCards(context.Background(), "d1")
	require.NoError(t, err)
	assert.Len(t, gw.requests, 2)
}
