package session_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnuboard/goboard/service/session"
)

func TestSessionRoundTrip(t *testing.T) {
	mgr := session.NewManager("session", "", "test-secret")

	sess := &session.Session{}
	sess.SetMemberID("admin")
	sess.SetIsMobile(true)
	sess.SetToken("tok123")

	rec := httptest.NewRecorder()
	require.NoError(t, mgr.Save(rec, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}

	loaded := mgr.Load(req)
	assert.Equal(t, "admin", loaded.MemberID())
	assert.Equal(t, "tok123", loaded.Token())
	mobile, ok := loaded.IsMobile()
	assert.True(t, ok)
	assert.True(t, mobile)
	assert.False(t, loaded.Dirty())
}

func TestSessionForgedCookieIsAnonymous(t *testing.T) {
	mgr := session.NewManager("session", "", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "forged-value"})

	loaded := mgr.Load(req)
	assert.Empty(t, loaded.MemberID())
}

func TestSessionDifferentSecretRejected(t *testing.T) {
	issuer := session.NewManager("session", "", "secret-one")
	verifier := session.NewManager("session", "", "secret-two")

	sess := &session.Session{}
	sess.SetMemberID("admin")

	rec := httptest.NewRecorder()
	require.NoError(t, issuer.Save(rec, sess))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		req.AddCookie(cookie)
	}

	loaded := verifier.Load(req)
	assert.Empty(t, loaded.MemberID())
}

func TestSessionClear(t *testing.T) {
	sess := &session.Session{}
	sess.SetMemberID("admin")
	sess.SetToken("tok")
	sess.Clear()

	assert.Empty(t, sess.MemberID())
	assert.Empty(t, sess.Token())
	_, ok := sess.IsMobile()
	assert.False(t, ok)
	assert.True(t, sess.Dirty())
}

func TestMissingCookieYieldsFreshSession(t *testing.T) {
	mgr := session.NewManager("session", "", "test-secret")
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	loaded := mgr.Load(req)
	assert.Empty(t, loaded.MemberID())
	assert.False(t, loaded.Dirty())
}
