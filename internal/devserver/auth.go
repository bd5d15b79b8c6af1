package devserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
)

const maxFormMemory = 10 << 20

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

func (s *Server) issueFor(w http.ResponseWriter, r *http.Request, u *User) {
	token, err := issueToken(u.ID, u.UserName, s.secret, tokenTTL)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, tokenResponse{AccessToken: token})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	userName := r.FormValue("userName")
	password := r.FormValue("password")

	u, err := s.store.GetUserByName(r.Context(), userName)
	if errors.Is(err, ErrNotFound) {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	ok, err := verifyPassword(u.passHash, password)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	s.issueFor(w, r, u)
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormMemory); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	userName := r.FormValue("userName")
	password := r.FormValue("password")
	confirm := r.FormValue("passwordConfirm")

	if userName == "" || password == "" || password != confirm {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if _, err := s.store.GetUserByName(r.Context(), userName); !errors.Is(err, ErrNotFound) {
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusConflict)
		return
	}

	hash, err := hashPassword(password)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	u := &User{ID: uuid.NewString(), UserName: userName, DeckIDs: []string{}}
	if err := s.store.CreateUser(r.Context(), u, hash); err != nil {
		s.serverError(w, r, err)
		return
	}
	s.issueFor(w, r, u)
}
