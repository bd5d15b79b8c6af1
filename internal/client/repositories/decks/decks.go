package decks

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
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

const (
	pagesTTL   = 2 * time.Minute
	myDecksTTL = 4 * time.Minute
)

// UserCache is the slice of the auth session the deck cache depends on:
// credentials for outgoing requests and the user's deck-id list, which deck
// mutations keep in step through explicit wholesale updates.
type UserCache interface {
	CurrentUser() *models.User
	UpdateLocalUser(user *models.User)
	AttachCredentials(req *gateway.Request) bool
}

// Repository caches decks locally and keeps them synchronized with the
// backend through the gateway. Construct one per process and share it.
type Repository struct {
	gw   gateway.Gateway
	sess UserCache
	log  logging.Logger
	now  func() time.Time

	mu                 sync.Mutex
	pages              map[string]*models.DeckPage
	myDecks            map[string]*models.Deck
	nextPagesRefresh   time.Time
	nextMyDecksRefresh time.Time

	hub notify.Hub
}

// New returns an empty deck cache.
func New(gw gateway.Gateway, sess UserCache, log logging.Logger) *Repository {
	return &Repository{
		gw:      gw,
		sess:    sess,
		log:     log,
		now:     time.Now,
		pages:   map[string]*models.DeckPage{},
		myDecks: map[string]*models.Deck{},
	}
}

// GetDeck returns the cached deck when present, otherwise fetches it by id.
// A confirmed remote miss returns (nil, nil). The fetched deck is not cached;
// point reads are refreshed only through list-level invalidation.
func (r *Repository) GetDeck(ctx context.Context, id string) (*models.Deck, error) {
	r.mu.Lock()
	cached := r.myDecks[id]
	r.mu.Unlock()
	if cached != nil {
		return cached, nil
	}

	resp, err := r.gw.Send(ctx, &gateway.Request{Method: http.MethodGet, Path: api.DeckByID(id)})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, nil
	}

	var deck models.Deck
	if err := json.Unmarshal(resp.Body, &deck); err != nil {
		return nil, fmt.Errorf("decoding deck: %w", err)
	}
	return &deck, nil
}

// PageKey is the cache key and query string for one paginated listing.
// Distinct query parameter combinations cache independently.
func PageKey(pageNumber, pageSize int, otherQueryParams string) string {
	return fmt.Sprintf("?pageNumber=%d&pageSize=%d&%s", pageNumber, pageSize, otherQueryParams)
}

// GetDecksPage returns the cached page for the exact parameter combination,
// refetching after the 2-minute deadline. A non-success status returns
// (nil, nil) with nothing cached.
func (r *Repository) GetDecksPage(ctx context.Context, pageNumber, pageSize int, otherQueryParams string) (*models.DeckPage, error) {
	key := PageKey(pageNumber, pageSize, otherQueryParams)

	r.mu.Lock()
	if !r.now().Before(r.nextPagesRefresh) {
		r.nextPagesRefresh = r.now().Add(pagesTTL)
		r.pages = map[string]*models.DeckPage{}
	}
	if page, ok := r.pages[key]; ok {
		r.mu.Unlock()
		return page, nil
	}
	r.mu.Unlock()

	resp, err := r.gw.Send(ctx, &gateway.Request{Method: http.MethodGet, Path: api.Decks() + key})
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return nil, nil
	}

	var page models.DeckPage
	if err := json.Unmarshal(resp.Body, &page); err != nil {
		return nil, fmt.Errorf("decoding deck page: %w", err)
	}

	r.mu.Lock()
	r.pages[key] = &page
	r.mu.Unlock()
	return &page, nil
}

// GetMyDecks returns the authenticated user's decks, serving from cache
// within the 4-minute deadline. A non-success status returns an empty list.
func (r *Repository) GetMyDecks(ctx context.Context) ([]*models.Deck, error) {
	r.mu.Lock()
	if !r.now().Before(r.nextMyDecksRefresh) {
		r.nextMyDecksRefresh = r.now().Add(myDecksTTL)
		r.myDecks = map[string]*models.Deck{}
	}
	if len(r.myDecks) > 0 {
		decks := make([]*models.Deck, 0, len(r.myDecks))
		for _, d := range r.myDecks {
			decks = append(decks, d)
		}
		r.mu.Unlock()
		return decks, nil
	}
	r.mu.Unlock()

	req := &gateway.Request{Method: http.MethodGet, Path: api.MyDecks()}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusOK {
		return []*models.Deck{}, nil
	}

	var decks []*models.Deck
	if err := json.Unmarshal(resp.Body, &decks); err != nil {
		return nil, fmt.Errorf("decoding decks: %w", err)
	}

	r.mu.Lock()
	for _, d := range decks {
		r.myDecks[d.ID] = d
	}
	r.mu.Unlock()
	return decks, nil
}

// AddDeck is a confirmed write: it uploads the deck fields (and the optional
// image) as a multipart form and touches the cache only after a 201. The
// created deck, carrying its server-assigned id, joins the "my decks" scope
// when that scope is populated, the session user's deck-id list grows, and
// subscribers are notified. Any other outcome leaves the cache untouched and
// fires no notification; the returned error is the caller's to surface.
func (r *Repository) AddDeck(ctx context.Context, deck *models.Deck, img *models.Asset) (*models.Deck, error) {
	fields := []gateway.Field{
		{Name: "name", Value: deck.Name},
		{Name: "description", Value: deck.Description},
	}
	for _, tag := range deck.Tags {
		fields = append(fields, gateway.Field{Name: "tags[]", Value: tag})
	}
	body, contentType, err := gateway.EncodeMultipart(fields, img)
	if err != nil {
		return nil, err
	}

	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.Decks(),
		ContentType: contentType,
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.Status != http.StatusCreated {
		return nil, fmt.Errorf("add deck: %w (status %d)", ErrRejected, resp.Status)
	}

	var created models.Deck
	if err := json.Unmarshal(resp.Body, &created); err != nil {
		return nil, fmt.Errorf("decoding created deck: %w", err)
	}

	r.mu.Lock()
	if len(r.myDecks) != 0 {
		r.myDecks[created.ID] = &created
	}
	r.mu.Unlock()

	if user := r.sess.CurrentUser(); user != nil {
		updated := user.Clone()
		updated.DeckIDs = append(updated.DeckIDs, created.ID)
		r.sess.UpdateLocalUser(updated)
	}

	r.notify()
	return &created, nil
}

// UpdateDeck is an optimistic write. It resolves the prior version first and
// aborts silently when none exists. The cache then takes the new version and
// subscribers are notified before any remote call. Three independent calls
// follow — a field patch, a tag replacement and an image update — each issued
// only when its piece actually changed; their failures are logged and
// dropped, never rolled back into the cache.
func (r *Repository) UpdateDeck(ctx context.Context, deck *models.Deck, img *models.Asset) {
	old, err := r.GetDeck(ctx, deck.ID)
	if err != nil {
		r.log.Warn(ctx, "update deck: prior version unavailable", "deck", deck.ID, "error", err)
		return
	}
	if old == nil {
		return
	}

	r.mu.Lock()
	if len(r.myDecks) != 0 {
		r.myDecks[deck.ID] = deck
	}
	r.mu.Unlock()
	r.notify()

	r.patchFields(ctx, deck, old)
	r.replaceTags(ctx, deck, old)
	r.updateImage(ctx, deck, old, img)
}

// RemoveDeck is an optimistic write: the deck leaves the user's deck-id list
// and the cache, subscribers are notified, and the remote delete is
// fire-and-forget.
func (r *Repository) RemoveDeck(ctx context.Context, deckID string) {
	if user := r.sess.CurrentUser(); user != nil {
		updated := user.Clone()
		updated.DeckIDs = slices.DeleteFunc(updated.DeckIDs, func(id string) bool {
			return id == deckID
		})
		r.sess.UpdateLocalUser(updated)
	}

	r.mu.Lock()
	delete(r.myDecks, deckID)
	r.mu.Unlock()
	r.notify()

	req := &gateway.Request{Method: http.MethodDelete, Path: api.DeckByID(deckID)}
	r.sess.AttachCredentials(req)
	if _, err := r.gw.Send(ctx, req); err != nil {
		r.log.Warn(ctx, "remove deck: remote delete failed", "deck", deckID, "error", err)
	}
}

// Reset clears every cached map and every freshness deadline. Used on
// session teardown.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pages = map[string]*models.DeckPage{}
	r.myDecks = map[string]*models.Deck{}
	r.nextPagesRefresh = time.Time{}
	r.nextMyDecksRefresh = time.Time{}
}

// Subscribe registers callback for deck-change notifications.
func (r *Repository) Subscribe(callback func()) int {
	return r.hub.Subscribe(callback)
}

// Unsubscribe removes a subscription; unknown ids fail with
// notify.ErrUnknownSubscription.
func (r *Repository) Unsubscribe(id int) error {
	return r.hub.Unsubscribe(id)
}

// notify evicts the whole paginated-listing cache before publishing: a
// mutated deck may change any filtered or sorted listing, and a guaranteed
// refetch beats a possibly-stale page.
func (r *Repository) notify() {
	r.mu.Lock()
	r.pages = map[string]*models.DeckPage{}
	r.mu.Unlock()
	r.hub.Publish()
}

func (r *Repository) patchFields(ctx context.Context, deck, old *models.Deck) {
	builder := &patch.DeckPatcher{}
	if old.Name != deck.Name {
		builder.PatchName(deck.Name)
	}
	if old.Description != deck.Description {
		builder.PatchDescription(deck.Description)
	}
	ops := builder.Build()
	if len(ops) == 0 {
		return
	}

	body, err := json.Marshal(ops)
	if err != nil {
		r.log.Warn(ctx, "update deck: encoding patch failed", "deck", deck.ID, "error", err)
		return
	}
	req := &gateway.Request{
		Method:      http.MethodPatch,
		Path:        api.DeckByID(deck.ID),
		ContentType: "application/json-patch+json",
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "update deck: field patch failed", "deck", deck.ID, "error", err)
		return
	}
	if resp.Status != http.StatusNoContent {
		r.log.Warn(ctx, "update deck: field patch not confirmed", "deck", deck.ID, "status", resp.Status)
	}
}

func (r *Repository) replaceTags(ctx context.Context, deck, old *models.Deck) {
	if slices.Equal(old.Tags, deck.Tags) {
		return
	}

	body, err := json.Marshal(deck.Tags)
	if err != nil {
		r.log.Warn(ctx, "update deck: encoding tags failed", "deck", deck.ID, "error", err)
		return
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.DeckUpdateTags(deck.ID),
		ContentType: "application/json-patch+json",
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "update deck: tag replacement failed", "deck", deck.ID, "error", err)
		return
	}
	if resp.Status != http.StatusNoContent {
		r.log.Warn(ctx, "update deck: tag replacement not confirmed", "deck", deck.ID, "status", resp.Status)
	}
}

func (r *Repository) updateImage(ctx context.Context, deck, old *models.Deck, img *models.Asset) {
	if img == nil || old.ImagePath == deck.ImagePath {
		return
	}

	body, contentType, err := gateway.EncodeMultipart(nil, img)
	if err != nil {
		r.log.Warn(ctx, "update deck: encoding image failed", "deck", deck.ID, "error", err)
		return
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.DeckUpdateImage(deck.ID),
		ContentType: contentType,
		Body:        body,
	}
	r.sess.AttachCredentials(req)

	resp, err := r.gw.Send(ctx, req)
	if err != nil {
		r.log.Warn(ctx, "update deck: image update failed", "deck", deck.ID, "error", err)
		return
	}
	if resp.Status != http.StatusNoContent {
		r.log.Warn(ctx, "update deck: image update not confirmed", "deck", deck.ID, "status", resp.Status)
	}
}
