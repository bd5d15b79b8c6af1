// Package session owns the bearer token and the current user for the
// client-side data-access layer.
//
// The token is held in memory with a deadline of exp−nbf seconds from the
// moment it is received; IsAuthenticated checks presence against that local
// deadline only and performs no remote validation. Entity caches obtain
// credentials through AttachCredentials rather than seeing the token itself.
//
// Logout does not reset the deck and card caches; that orchestration belongs
// to the caller owning all three.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/flashdeck/flashdeck-go/internal/client/api"
	"github.com/flashdeck/flashdeck-go/internal/client/gateway"
	"github.com/flashdeck/flashdeck-go/internal/client/models"
	"github.com/flashdeck/flashdeck-go/internal/client/notify"
	"github.com/flashdeck/flashdeck-go/internal/logging"
)

// Session tracks authentication state: Anonymous until a successful login or
// register, back to Anonymous on logout or when the local token deadline
// passes. Failed logins leave the state untouched.
type Session struct {
	gw  gateway.Gateway
	log logging.Logger
	now func() time.Time

	mu          sync.Mutex
	token       string
	tokenExpiry time.Time
	user        *models.User

	hub notify.Hub
}

// New returns an anonymous session backed by gw.
func New(gw gateway.Gateway, log logging.Logger) *Session {
	return &Session{gw: gw, log: log, now: time.Now}
}

type tokenResponse struct {
	AccessToken string `json:"accessToken"`
}

// currentToken returns the stored token, or "" once its local deadline passed.
func (s *Session) currentToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" || !s.now().Before(s.tokenExpiry) {
		return ""
	}
	return s.token
}

// IsAuthenticated reports whether a live token is held. It does not verify
// the signature or consult the backend.
func (s *Session) IsAuthenticated() bool {
	return s.currentToken() != ""
}

// CurrentUser returns the last resolved user, or nil when anonymous.
// Callers must treat the result as read-only.
func (s *Session) CurrentUser() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// AttachCredentials adds the bearer header to req when a live token is held
// and reports whether it did.
func (s *Session) AttachCredentials(req *gateway.Request) bool {
	token := s.currentToken()
	if token == "" {
		return false
	}
	req.SetHeader("Authorization", "Bearer "+token)
	return true
}

// Login submits credentials as a multipart form. On 200 it decodes the
// returned token's claims, stores the token for exp−nbf seconds, resolves the
// user by subject id and notifies subscribers. Any other status returns
// (false, nil) and leaves the session anonymous.
func (s *Session) Login(ctx context.Context, userName, password string) (bool, error) {
	fields := []gateway.Field{
		{Name: "userName", Value: userName},
		{Name: "password", Value: password},
	}
	return s.authenticate(ctx, api.AuthLogin(), fields)
}

// Register creates an account and, on 200, establishes a session exactly as
// Login does.
func (s *Session) Register(ctx context.Context, userName, password, passwordConfirm string) (bool, error) {
	fields := []gateway.Field{
		{Name: "userName", Value: userName},
		{Name: "password", Value: password},
		{Name: "passwordConfirm", Value: passwordConfirm},
	}
	return s.authenticate(ctx, api.AuthRegister(), fields)
}

func (s *Session) authenticate(ctx context.Context, path string, fields []gateway.Field) (bool, error) {
	body, contentType, err := gateway.EncodeMultipart(fields, nil)
	if err != nil {
		return false, err
	}

	resp, err := s.gw.Send(ctx, &gateway.Request{
		Method:      http.MethodPost,
		Path:        path,
		ContentType: contentType,
		Body:        body,
	})
	if err != nil {
		return false, err
	}
	if resp.Status != http.StatusOK {
		return false, nil
	}

	var tr tokenResponse
	if err := json.Unmarshal(resp.Body, &tr); err != nil {
		return false, fmt.Errorf("decoding token response: %w", err)
	}
	return s.adoptToken(ctx, tr.AccessToken)
}

// Restore adopts a previously issued token (for example one persisted by the
// caller across runs), resolving the user from its subject claim. It reports
// whether the token was usable.
func (s *Session) Restore(ctx context.Context, token string) bool {
	ok, err := s.adoptToken(ctx, token)
	if err != nil {
		s.log.Warn(ctx, "session restore failed", "error", err)
		return false
	}
	return ok
}

func (s *Session) adoptToken(ctx context.Context, token string) (bool, error) {
	claims, err := ParseClaims(token)
	if err != nil {
		return false, err
	}

	lifetime := claims.ExpiresAt.Sub(claims.NotBefore.Time)

	s.mu.Lock()
	s.token = token
	s.tokenExpiry = s.now().Add(lifetime)
	s.mu.Unlock()

	s.resolveUser(ctx, claims.Subject)
	return true, nil
}

// resolveUser fetches the user by id and replaces the local user wholesale.
// A miss or transport failure resolves to nil; the session stays
// authenticated either way, claims are enough for that.
func (s *Session) resolveUser(ctx context.Context, id string) {
	var user *models.User

	resp, err := s.gw.Send(ctx, &gateway.Request{Method: http.MethodGet, Path: api.UserByID(id)})
	if err != nil {
		s.log.Warn(ctx, "resolving user failed", "id", id, "error", err)
	} else if resp.Status == http.StatusOK {
		var u models.User
		if err := json.Unmarshal(resp.Body, &u); err != nil {
			s.log.Warn(ctx, "decoding user failed", "id", id, "error", err)
		} else {
			user = &u
		}
	}

	s.UpdateLocalUser(user)
}

// UpdateLocalUser replaces the cached user wholesale and notifies
// subscribers. The deck cache uses it to keep the user's deck-id list in
// step with deck mutations; caches never share the User by reference.
func (s *Session) UpdateLocalUser(user *models.User) {
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	s.hub.Publish()
}

// Logout drops the token, clears the user and notifies subscribers.
func (s *Session) Logout() {
	s.mu.Lock()
	s.token = ""
	s.tokenExpiry = time.Time{}
	s.mu.Unlock()
	s.UpdateLocalUser(nil)
}

// UpdateUserName is a confirmed write: the local user changes only on a 204
// response. When no user is cached or the name is unchanged it reports
// success without a remote call.
func (s *Session) UpdateUserName(ctx context.Context, userName string) (bool, error) {
	current := s.CurrentUser()
	if current == nil || current.UserName == userName {
		return true, nil
	}

	body, err := json.Marshal(userName)
	if err != nil {
		return false, err
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.UpdateUserName(),
		ContentType: "application/json-patch+json",
		Body:        body,
	}
	s.AttachCredentials(req)

	resp, err := s.gw.Send(ctx, req)
	if err != nil {
		return false, err
	}
	if resp.Status != http.StatusNoContent {
		return false, nil
	}

	updated := current.Clone()
	updated.UserName = userName
	s.UpdateLocalUser(updated)
	return true, nil
}

// UpdatePassword is a pure pass-through: no local state changes regardless
// of the outcome.
func (s *Session) UpdatePassword(ctx context.Context, oldPassword, newPassword, newPasswordConfirm string) (bool, error) {
	fields := []gateway.Field{
		{Name: "oldPassword", Value: oldPassword},
		{Name: "newPassword", Value: newPassword},
		{Name: "newPasswordConfirm", Value: newPasswordConfirm},
	}
	body, contentType, err := gateway.EncodeMultipart(fields, nil)
	if err != nil {
		return false, err
	}
	req := &gateway.Request{
		Method:      http.MethodPost,
		Path:        api.UpdatePassword(),
		ContentType: contentType,
		Body:        body,
	}
	s.AttachCredentials(req)

	resp, err := s.gw.Send(ctx, req)
	if err != nil {
		return false, err
	}
	return resp.Status == http.StatusNoContent, nil
}

// Subscribe registers callback for user-change notifications.
func (s *Session) Subscribe(callback func()) int {
	return s.hub.Subscribe(callback)
}

// Unsubscribe removes a subscription; unknown ids fail with
// notify.ErrUnknownSubscription.
func (s *Session) Unsubscribe(id int) error {
	return s.hub.Unsubscribe(id)
}
