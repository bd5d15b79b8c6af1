package devserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleGetUser(w http.ResponseWriter, r *http.Request) {
	u, err := s.store.GetUserByID(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, u)
}

// handleUpdateUserName expects the new name as a bare JSON string.
func (s *Server) handleUpdateUserName(w http.ResponseWriter, r *http.Request) {
	var name string
	if err := json.NewDecoder(r.Body).Decode(&name); err != nil || name == "" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := s.store.GetUserByName(r.Context(), name); !errors.Is(err, ErrNotFound) {
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusConflict)
		return
	}
	if err := s.store.UpdateUserName(r.Context(), requestUserID(r), name); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	oldPassword := r.FormValue("oldPassword")
	newPassword := r.FormValue("newPassword")
	confirm := r.FormValue("newPasswordConfirm")

	if newPassword == "" || newPassword != confirm {
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	u, err := s.store.GetUserByID(r.Context(), requestUserID(r))
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	ok, err := verifyPassword(u.passHash, oldPassword)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if err := s.store.UpdateUserPassword(r.Context(), u.ID, hash); err != nil {
		s.serverError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
