// Package session carries the request-scoped login state in a signed,
// encrypted cookie. The state is a typed structure of named fields rather
// than a free-form dictionary; mutations mark the session dirty and the
// bootstrap middleware flushes the cookie before the first response write.
package session

import (
	"context"
	"net/http"

	"github.com/gorilla/securecookie"

	"github.com/gnuboard/goboard/utils"
)

// Data is the full session state. Fields that may legitimately be absent are
// pointers.
type Data struct {
	MemberID string
	IsMobile *bool
	Token    string
}

// Session wraps Data with change tracking.
type Session struct {
	data  Data
	dirty bool
}

// MemberID returns the logged-in member id, empty for anonymous callers.
func (s *Session) MemberID() string { return s.data.MemberID }

// SetMemberID records a validated member id.
func (s *Session) SetMemberID(id string) {
	s.data.MemberID = id
	s.dirty = true
}

// Token returns the session token issued by the token endpoint.
func (s *Session) Token() string { return s.data.Token }

// SetToken stores a freshly generated session token.
func (s *Session) SetToken(token string) {
	s.data.Token = token
	s.dirty = true
}

// IsMobile reports the forced device choice; ok is false when no choice has
// been made.
func (s *Session) IsMobile() (mobile bool, ok bool) {
	if s.data.IsMobile == nil {
		return false, false
	}
	return *s.data.IsMobile, true
}

// SetIsMobile forces the device choice.
func (s *Session) SetIsMobile(mobile bool) {
	s.data.IsMobile = &mobile
	s.dirty = true
}

// Clear drops all session state.
func (s *Session) Clear() {
	s.data = Data{}
	s.dirty = true
}

// Dirty reports whether the session changed during this request.
func (s *Session) Dirty() bool { return s.dirty }

// Manager encodes sessions into a named cookie. Hash and block keys are
// derived from the configured session secret.
type Manager struct {
	codec      *securecookie.SecureCookie
	cookieName string
	domain     string
}

// NewManager builds a Manager for the given cookie name, domain and secret.
func NewManager(cookieName, domain, secret string) *Manager {
	hashKey := utils.HashByteSecret([]byte(secret + ":hash"))
	blockKey := utils.HashByteSecret([]byte(secret + ":block"))
	return &Manager{
		codec:      securecookie.New(hashKey, blockKey),
		cookieName: cookieName,
		domain:     domain,
	}
}

// Load decodes the session cookie from the request. A missing or undecodable
// cookie yields a fresh anonymous session.
func (m *Manager) Load(r *http.Request) *Session {
	s := &Session{}
	cookie, err := r.Cookie(m.cookieName)
	if err != nil {
		return s
	}
	if err = m.codec.Decode(m.cookieName, cookie.Value, &s.data); err != nil {
		// Stale or forged cookie: start over anonymous.
		return &Session{}
	}
	return s
}

// Save encodes the session state into the response cookie. An emptied
// session still writes a cookie so stale client state is replaced.
func (m *Manager) Save(w http.ResponseWriter, s *Session) error {
	encoded, err := m.codec.Encode(m.cookieName, s.data)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    encoded,
		Path:     "/",
		Domain:   m.domain,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

type contextKey string

const sessionKey = contextKey("goboard/session")

// ToContext attaches the request session for handlers downstream of the
// bootstrap middleware.
func ToContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the request session. Handlers reached without the
// bootstrap middleware get a throwaway anonymous session.
func FromContext(ctx context.Context) *Session {
	if s, ok := ctx.Value(sessionKey).(*Session); ok {
		return s
	}
	return &Session{}
}
