package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/models"
	"github.com/gnuboard/goboard/service/handlers"
	"github.com/gnuboard/goboard/service/session"
	"github.com/gnuboard/goboard/utils"
)

const (
	testSecret   = "test-session-secret"
	testPassword = "password123"
)

type testEnv struct {
	settings *config.Settings
	db       *gorm.DB
	server   *handlers.BoardServer
	router   http.Handler
	sessions *session.Manager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	settings := &config.Settings{
		DBEngine:          database.EngineSQLite,
		DBName:            filepath.Join(t.TempDir(), "test.db"),
		DBTablePrefix:     "g6_",
		SessionCookieName: "session",
		SessionSecretKey:  testSecret,
		IsResponsive:      false,
		CSRFDisabled:      true,
	}

	db, err := database.Connect(settings)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.Config{}, &models.Member{}, &models.Group{}, &models.Board{},
		&models.Content{}, &models.QaConfig{}, &models.FaqMaster{},
		&models.Point{}, &models.Visit{}, &models.VisitSum{},
	))

	server := handlers.NewBoardServer(settings, db)

	return &testEnv{
		settings: settings,
		db:       db,
		server:   server,
		router:   server.SetupRouter(),
		sessions: session.NewManager(settings.SessionCookieName, "", testSecret),
	}
}

func (e *testEnv) seedConfig(t *testing.T, mutate func(*models.Config)) {
	t.Helper()
	cfg := models.Config{
		ID:         1,
		Title:      "test board",
		Admin:      "admin",
		LoginPoint: 100,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	require.NoError(t, e.db.Create(&cfg).Error)
}

func (e *testEnv) seedMember(t *testing.T, memberID string, mutate func(*models.Member)) *models.Member {
	t.Helper()
	hash, err := utils.NewBCrypt().Hash(context.Background(), []byte(testPassword))
	require.NoError(t, err)

	member := models.Member{
		MemberID:     memberID,
		PasswordHash: string(hash),
		Name:         memberID,
		Nick:         memberID,
		Level:        2,
		TodayLogin:   time.Now().AddDate(0, 0, -1),
	}
	if mutate != nil {
		mutate(&member)
	}
	require.NoError(t, e.db.Create(&member).Error)

	// Reload so timestamps match what the middleware will read.
	var stored models.Member
	require.NoError(t, e.db.First(&stored, "member_id = ?", memberID).Error)
	return &stored
}

func (e *testEnv) sessionCookie(t *testing.T, memberID string) *http.Cookie {
	t.Helper()
	sess := &session.Session{}
	sess.SetMemberID(memberID)

	rec := httptest.NewRecorder()
	require.NoError(t, e.sessions.Save(rec, sess))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies)
	return cookies[0]
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func responseCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

// sessionFromResponse decodes the session cookie set on the response, nil
// when none was set.
func (e *testEnv) sessionFromResponse(rec *httptest.ResponseRecorder) *session.Session {
	cookie := responseCookie(rec, "session")
	if cookie == nil {
		return nil
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	return e.sessions.Load(req)
}

func (e *testEnv) pointCount(t *testing.T) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(&models.Point{}).Count(&count).Error)
	return count
}
