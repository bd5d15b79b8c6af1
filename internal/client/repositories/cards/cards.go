package cards

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flashdeck/flashdeck-go/internal/client/api"
	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/models"
	"github.com/flashdeck/flashdeck-go/internal/client/notify"
	"github.com/flashdeck/flashdeck-go/internal/client/patch"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

// ErrRejected reports a non-success status on a confirmed write.
var ErrRejected = errors.New("request rejected by server")

const cardsTTL = 4 * time.Minute

// CredentialSource attaches bearer credentials to outgoing requests.
// The auth session satisfies it.
type CredentialSource interface {
	AttachCredentials(req *gateway.Request) bool
}

// Repository caches cards per deck and keeps them synchronized with the
// backend through the gateway. Construct one per process and share it.
type Repository struct {
	gw   gateway.Gateway
	sess CredentialSource
	log  logging.Logger
	now  func() time.Time

	mu          sync.Mutex
	cards       map[string]map[string]*models.Card
	nextRefresh map[string]time.Time

	hub notify.Hub
}

// New returns an empty card cache.
func New(gw gateway.Gateway, sess CredentialSource, log logging.Logger) *Repository {
	return &Repository{
		gw:          gw,
		sess:        sess,
		log:         log,
		now:         time.Now,
		cards:       map[string]map[string]*models.Card{},
		nextRefresh: map[string]time.Time{},
	}
}

// GetCard returns the cached card when present, otherwise fetches it.
// A confirmed remote miss returns (nil, nil). The fetched card is not
// cached; point reads are refreshed only through list-level invalidation.
func (r *Repository) GetCard(ctx context.Context, deckID, cardID string) (*models.Card, error) {
	r.mu.Lock()
	cached := r.cards[deckID][cardID]
	r.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	resp, err := r.gw.Send(ctx, &gateway.Request{Method: http.MethodGet, Path: api.CardByID(deckID, cardID)})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, nil
	}

	var card models.Card
	if err := json.Unmarshal(resp.Body, &card); err != nil {
		return nil, fmt.Errorf("decoding card: %w", err)
	}
	return &card, nil
}

// GetCards returns the deck's full card list, serving from cache within the
// 4-minute deadline. A non-success status returns an empty list.
func (r *Repository) GetCards(ctx context.Context, deckID string) ([]*models.Card, error) {
	r.mu.Lock()
	next, ok := r.nextRefresh[deckID]
	if !ok || !r.now().Before(next) {
		r.nextRefresh[deckID] = r.now().Add(cardsTTL)
		delete(r.cards, deckID)
	}
	if byID, ok := r.cards[deckID]; ok {
		cards := make([]*models.Card, 0, len(byID))
		for _, c := range byID {
			cards = append(cards, c)
		}
		r.mu.Unlock()
		return cards, nil
	}
	r.mu.Unlock()

	resp, err := r.gw.Send(ctx, &gateway.Request{Method: http.MethodGet, Path: api.Cards(deckID)})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return []*models.Card{}, nil
	}

	var cards []*models.Card
	if err := json.Unmarshal(resp.Body, &cards); err != nil {
		return nil, fmt.Errorf("decoding cards: %w", err)
	}

	byID := make(map[string]*models.Card, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
	}
	r.mu.Lock()
	r.cards[deckID] = byID
	r.mu.Unlock()
	return cards, nil
}

// AnswerCard reports a study answer for the card. On a 200 the backend
// returns the rescheduled card, which replaces the cached one when the
// deck's list is cached. Any other status leaves the cache unchanged.
func (r *Repository) AnswerCard(ctx context.Context, deckID, cardID string, isRight bool) error {
	body, err := json.Marshal(isRight)
	if err != nil {
		return err
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.CardByID(deckID, cardID),
		ContentType: "application/json",
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		return err
	}
	if resp.Status != http.StatusOK {
		return nil
	}

	var card models.Card
	if err := json.Unmarshal(resp.Body, &card); err != nil {
		return fmt.Errorf("decoding answered card: %w", err)
	}

	r.mu.Lock()
	if byID, ok := r.cards[deckID]; ok {
		byID[card.ID] = &card
	}
	r.mu.Unlock()
	return nil
}

// AddCard is a confirmed write: it uploads the card fields (and the optional
// image) as a multipart form and touches the cache only after a 201. The
// created card joins the deck's scope when that scope is cached, and only
// then are subscribers notified. Any other outcome leaves the cache
// untouched; the returned error is the caller's to surface.
func (r *Repository) AddCard(ctx context.Context, deckID string, card *models.Card, img *models.Asset) (*models.Card, error) {
	fields := []gateway.Field{
		{Name: "question", Value: card.Question},
		{Name: "answer", Value: card.Answer},
	}
	body, contentType, err := gateway.EncodeMultipart(fields, img)
	if err != nil {
		return nil, err
	}

	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.Cards(deckID),
		ContentType: contentType,
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusCreated {
		return nil, fmt.Errorf("add card: %w (status %d)", ErrRejected, resp.Status)
	}

	var created models.Card
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("decoding created card: %w", err)
	}

	r.mu.Lock()
	byID, cachedDeck := r.cards[deckID]
	if cachedDeck {
		byID[created.ID] = &created
	}
	r.mu.Unlock()
	if cachedDeck {
		r.hub.Publish()
	}
	return &created, nil
}

// UpdateCard is an optimistic write. It resolves the prior version first and
// aborts silently when none exists. When the deck's list is cached the new
// version replaces the old and subscribers are notified before any remote
// call. A field patch and an image update follow as independent calls whose
// failures are logged and dropped, never rolled back into the cache.
func (r *Repository) UpdateCard(ctx context.Context, deckID string, card *models.Card, img *models.Asset) {
	old, err := r.GetCard(ctx, deckID, card.ID)
	if err != nil {
		r.log.Warn(ctx, "update card: prior version unavailable", "deck", deckID, "card", card.ID, "error", err)
		return
	}
	if old == nil {
		return
	}

	r.mu.Lock()
	byID, cachedDeck := r.cards[deckID]
	if cachedDeck {
		byID[card.ID] = card
	}
	r.mu.Unlock()
	if cachedDeck {
		r.hub.Publish()
	}

	r.patchFields(ctx, deckID, card, old)
	r.updateImage(ctx, deckID, card, old, img)
}

// RemoveCard is an optimistic write: the card leaves the cache, subscribers
// are notified, and the remote delete is fire-and-forget.
func (r *Repository) RemoveCard(ctx context.Context, deckID, cardID string) {
	r.mu.Lock()
	if byID, ok := r.cards[deckID]; ok {
		delete(byID, cardID)
	}
	r.mu.Unlock()
	r.hub.Publish()

	req := &gateway.Request{Method: http.MethodDelete, Path: api.CardByID(deckID, cardID)}
	r.sess.AttachCredentials(req)
	if _, err := r.gw.Send(ctx, req); err != nil {
		r.log.Warn(ctx, "remove card: remote delete failed", "deck", deckID, "card", cardID, "error", err)
	}
}

// ContainsDeck reports whether the deck's card list is cached and still
// fresh.
func (r *Repository) ContainsDeck(deckID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	next, ok := r.nextRefresh[deckID]
	if !ok || !r.now().Before(next) {
		return false
	}
	_, cached := r.cards[deckID]
	return cached
}

// Reset clears every cached map and every freshness deadline. Used on
// session teardown.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cards = map[string]map[string]*models.Card{}
	r.nextRefresh = map[string]time.Time{}
}

// Subscribe registers callback for card-change notifications.
func (r *Repository) Subscribe(callback func()) int {
	return r.hub.Subscribe(callback)
}

// Unsubscribe removes a subscription; unknown ids fail with
// notify.ErrUnknownSubscription.
func (r *Repository) Unsubscribe(id int) error {
	return r.hub.Unsubscribe(id)
}

func (r *Repository) patchFields(ctx context.Context, deckID string, card, old *models.Card) {
	builder := &patch.CardPatcher{}
	if old.Question != card.Question {
		builder.PatchQuestion(card.Question)
	}
	if old.Answer != card.Answer {
		builder.PatchAnswer(card.Answer)
	}
	ops := builder.Build()
	if len(ops) == 0 {
		return
	}

	body, err := json.Marshal(ops)
	if err != nil {
		r.log.Warn(ctx, "update card: encoding patch failed", "card", card.ID, "error", err)
		return
	}
	req := &gateway.Request{
		Method:      http.MethodPatch,
		Path:        api.CardByID(deckID, card.ID),
		ContentType: "application/json-patch+json",
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "update card: field patch failed", "card", card.ID, "error", err)
		return
	}
	if resp.Status != http.StatusNoContent {
		r.log.Warn(ctx, "update card: field patch not confirmed", "card", card.ID, "status", resp.Status)
	}
}

func (r *Repository) updateImage(ctx context.Context, deckID string, card, old *models.Card, img *models.Asset) {
	if img == nil || old.ImagePath == card.ImagePath {
		return
	}

	body, contentType, err := gateway.EncodeMultipart(nil, img)
	if err != nil {
		r.log.Warn(ctx, "update card: encoding image failed", "card", card.ID, "error", err)
		return
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.CardUpdateImage(deckID, card.ID),
		ContentType: contentType,
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "update card: image update failed", "card", card.ID, "error", err)
		return
	}
	if resp.Status != http.StatusNoContent {
		r.log.Warn(ctx, "update card: image update not confirmed", "card", card.ID, "status", resp.Status)
	}
}
