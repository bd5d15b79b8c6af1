// Package devserver is a self-contained flashdeck backend for local
// development and integration tests. It speaks the same REST contract the
// client repositories expect, backed by an embedded sqlite database.
package devserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/flashdeck/flashdeck-go/internal/logging"
)

const tokenTTL = time.Hour

type ctxKey int

const userIDKey ctxKey = 0

// Server handles the versioned REST API.
type Server struct {
	store  *Store
	secret string
	log    logging.Logger
	now    func() time.Time
}

// NewServer wires a server around the given store. secret signs the issued
// access tokens.
func NewServer(store *Store, secret string, log logging.Logger) *Server {
	return &Server{store: store, secret: secret, log: log, now: time.Now}
}

// Router builds the chi router for the API.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", s.handleLogin)
		r.Post("/auth/register", s.handleRegister)

		r.Get("/users/{id}", s.handleGetUser)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/users/update-username", s.handleUpdateUserName)
			r.Post("/users/update-password", s.handleUpdatePassword)
		})

		r.Get("/decks", s.handleListDecks)
		r.Get("/decks/{deckID}", s.handleGetDeck)
		r.Get("/decks/{deckID}/cards", s.handleListCards)
		r.Get("/decks/{deckID}/cards/{cardID}", s.handleGetCard)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/decks/my", s.handleMyDecks)
			r.Post("/decks", s.handleAddDeck)
			r.Patch("/decks/{deckID}", s.handlePatchDeck)
			r.Post("/decks/{deckID}/update-tags", s.handleUpdateDeckTags)
			r.Post("/decks/{deckID}/update-image", s.handleUpdateDeckImage)
			r.Delete("/decks/{deckID}", s.handleRemoveDeck)

			r.Post("/decks/{deckID}/cards", s.handleAddCard)
			r.Post("/decks/{deckID}/cards/{cardID}", s.handleAnswerCard)
			r.Patch("/decks/{deckID}/cards/{cardID}", s.handlePatchCard)
			r.Post("/decks/{deckID}/cards/{cardID}/update-image", s.handleUpdateCardImage)
			r.Delete("/decks/{deckID}/cards/{cardID}", s.handleRemoveCard)
		})
	})
	return r
}

// requireAuth validates the bearer token and stores the subject user id in
// the request context.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		userID, err := parseToken(raw, s.secret)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestUserID(r *http.Request) string {
	id, _ := r.Context().Value(userIDKey).(string)
	return id
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(context.Background(), "encoding response failed", "error", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	w.WriteHeader(http.StatusInternalServerError)
}
