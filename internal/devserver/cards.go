package devserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// repeatInterval is the delay before a correctly answered card comes up again.
const repeatInterval = 24 * time.Hour

func (s *Server) handleListCards(w http.ResponseWriter, r *http.Request) {
	deckID := chi.URLParam(r, "deckID")
	if _, err := s.store.GetDeck(r.Context(), deckID); err != nil {
		if errors.Is(err, ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.serverError(w, r, err)
		return
	}
	cards, err := s.store.ListCards(r.Context(), deckID)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, cards)
}

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCard(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	question := r.FormValue("question")
	answer := r.FormValue("answer")
	if question == "" || answer == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	imagePath, err := storeImage(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	c := &Card{
		ID:           uuid.NewString(),
		DeckID:       d.ID,
		Question:     question,
		Answer:       answer,
		ImagePath:    imagePath,
		TimeToRepeat: map[string]time.Time{},
	}
	if err := s.store.CreateCard(r.Context(), c); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, c)
}

// handleAnswerCard records a study answer: a correct one pushes the card's
// per-user repeat time out by repeatInterval and bumps the deck's studied
// counter, a wrong one makes the card due immediately. The rescheduled card
// is returned.
func (s *Server) handleAnswerCard(w http.ResponseWriter, r *http.Request) {
	c, err := s.store.GetCard(r.Context(), chi.URLParam(r, "deckID"), chi.URLParam(r, "cardID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	var isRight bool
	if err := json.NewDecoder(r.Body).Decode(&isRight); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	userID := requestUserID(r)
	now := s.now().UTC()
	if isRight {
		c.TimeToRepeat[userID] = now.Add(repeatInterval)
	} else {
		c.TimeToRepeat[userID] = now
	}
	if err := s.store.SaveCard(r.Context(), c); err != nil {
		s.serverError(w, r, err)
		return
	}

	if isRight {
		d, err := s.store.GetDeck(r.Context(), c.DeckID)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		d.CardsCountStudied[userID]++
		if err := s.store.SaveDeck(r.Context(), d); err != nil {
			s.serverError(w, r, err)
			return
		}
	}
	s.writeJSON(w, http.StatusOK, c)
}

func (s *Server) handlePatchCard(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	c, err := s.store.GetCard(r.Context(), d.ID, chi.URLParam(r, "cardID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	ops, err := decodePatch(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	for _, op := range ops {
		switch op.Path {
		case "/question":
			c.Question = op.Value
		case "/answer":
			c.Answer = op.Value
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	if err := s.store.SaveCard(r.Context(), c); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateCardImage(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	c, err := s.store.GetCard(r.Context(), d.ID, chi.URLParam(r, "cardID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	imagePath, err := storeImage(r)
	if err != nil || imagePath == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	c.ImagePath = imagePath
	if err := s.store.SaveCard(r.Context(), c); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveCard(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	if err := s.store.DeleteCard(r.Context(), d.ID, chi.URLParam(r, "cardID")); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
