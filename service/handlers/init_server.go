package handlers

import (
	"sync/atomic"

	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/service/repository"
	"github.com/gnuboard/goboard/service/session"
	"github.com/gnuboard/goboard/utils"
)

// Deps bundles everything that only exists once the database is reachable.
// Before installation the bundle is absent and every non-installer request is
// redirected to the installer by the bootstrap middleware.
type Deps struct {
	DB      *gorm.DB
	Configs repository.ConfigRepository
	Members repository.MemberRepository
	Points  repository.PointRepository
	Visits  repository.VisitRepository
	Boards  repository.BoardRepository
}

// BoardServer carries the request handlers and the bootstrap middleware.
type BoardServer struct {
	settings *config.Settings
	sessions *session.Manager
	hasher   *utils.BCrypt

	// Swapped in once, at startup or right after a successful
	// installation.
	deps atomic.Pointer[Deps]
}

// NewBoardServer builds the server. db may be nil while the system is
// uninstalled.
func NewBoardServer(settings *config.Settings, db *gorm.DB) *BoardServer {
	s := &BoardServer{
		settings: settings,
		sessions: session.NewManager(settings.SessionCookieName, settings.CookieDomain, settings.SessionSecretKey),
		hasher:   utils.NewBCrypt(),
	}
	if db != nil {
		s.AttachDB(db)
	}
	return s
}

// AttachDB wires the repositories over the given connection. Called at
// startup and again by the installer once the schema exists.
func (s *BoardServer) AttachDB(db *gorm.DB) {
	s.deps.Store(&Deps{
		DB:      db,
		Configs: repository.NewConfigRepository(db),
		Members: repository.NewMemberRepository(db),
		Points:  repository.NewPointRepository(db),
		Visits:  repository.NewVisitRepository(db),
		Boards:  repository.NewBoardRepository(db),
	})
}

// Deps returns the current dependency bundle, nil while uninstalled.
func (s *BoardServer) Deps() *Deps {
	return s.deps.Load()
}

// Settings returns the immutable process settings.
func (s *BoardServer) Settings() *config.Settings {
	return s.settings
}

// Sessions returns the session manager.
func (s *BoardServer) Sessions() *session.Manager {
	return s.sessions
}
