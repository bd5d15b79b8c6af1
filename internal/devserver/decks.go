package devserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// patchOp is one json-patch operation. Only "replace" is supported.
type patchOp struct {
	Op    string `json:"op"`
	Path  string `json:"path"`
	Value string `json:"value"`
}

func decodePatch(r *http.Request) ([]patchOp, error) {
	var ops []patchOp
	if err := json.NewDecoder(r.Body).Decode(&ops); err != nil {
		return nil, err
	}
	for _, op := range ops {
		if op.Op != "replace" {
			return nil, fmt.Errorf("unsupported patch op %q", op.Op)
		}
	}
	return ops, nil
}

// storeImage registers an uploaded "image" form file and returns its path.
// The dev server keeps no blob storage, only the path the client round-trips.
func storeImage(r *http.Request) (string, error) {
	_, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return "/images/" + uuid.NewString() + "-" + header.Filename, nil
}

func queryInt(r *http.Request, name string, def int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 1 {
		return def
	}
	return v
}

func (s *Server) handleListDecks(w http.ResponseWriter, r *http.Request) {
	pageNumber := queryInt(r, "pageNumber", 1)
	pageSize := queryInt(r, "pageSize", 10)
	search := r.URL.Query().Get("search")

	decks, total, err := s.store.ListDecks(r.Context(), search, (pageNumber-1)*pageSize, pageSize)
	if err != nil {
		s.serverError(w, r, err)
		return
	}

	totalPages := (total + pageSize - 1) / pageSize
	s.writeJSON(w, http.StatusOK, &DeckPage{
		CurrentPage: pageNumber,
		TotalPages:  totalPages,
		PageSize:    pageSize,
		TotalCount:  total,
		HasPrevious: pageNumber > 1,
		HasNext:     pageNumber < totalPages,
		Items:       decks,
	})
}

func (s *Server) handleMyDecks(w http.ResponseWriter, r *http.Request) {
	decks, err := s.store.ListDecksByAuthor(r.Context(), requestUserID(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, decks)
}

func (s *Server) handleGetDeck(w http.ResponseWriter, r *http.Request) {
	d, err := s.store.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleAddDeck(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	name := r.FormValue("name")
	if name == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	imagePath, err := storeImage(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	tags := r.MultipartForm.Value["tags[]"]
	if tags == nil {
		tags = []string{}
	}

	d := &Deck{
		ID:                uuid.NewString(),
		AuthorID:          requestUserID(r),
		Name:              name,
		Description:       r.FormValue("description"),
		ImagePath:         imagePath,
		Tags:              tags,
		CardsCountStudied: map[string]int{},
	}
	if err := s.store.CreateDeck(r.Context(), d); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, d)
}

// ownedDeck loads the deck and checks the caller is its author. It writes the
// failure status itself and returns nil when the caller may not proceed.
func (s *Server) ownedDeck(w http.ResponseWriter, r *http.Request) *Deck {
	d, err := s.store.GetDeck(r.Context(), chi.URLParam(r, "deckID"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	if err != nil {
		s.serverError(w, r, err)
		return nil
	}
	if d.AuthorID != requestUserID(r) {
		w.WriteHeader(http.StatusForbidden)
		return nil
	}
	return d
}

func (s *Server) handlePatchDeck(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	ops, err := decodePatch(r)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	for _, op := range ops {
		switch op.Path {
		case "/name":
			d.Name = op.Value
		case "/description":
			d.Description = op.Value
		default:
			w.WriteHeader(http.StatusBadRequest)
			return
		}
	}
	if err := s.store.SaveDeck(r.Context(), d); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateDeckTags(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	var tags []string
	if err := json.NewDecoder(r.Body).Decode(&tags); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if tags == nil {
		tags = []string{}
	}
	d.Tags = tags
	if err := s.store.SaveDeck(r.Context(), d); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdateDeckImage(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
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
	d.ImagePath = imagePath
	if err := s.store.SaveDeck(r.Context(), d); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRemoveDeck(w http.ResponseWriter, r *http.Request) {
	d := s.ownedDeck(w, r)
	if d == nil {
		return
	}
	if err := s.store.DeleteDeck(r.Context(), d.ID); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
