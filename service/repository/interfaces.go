package repository

import (
	"context"
	"time"

	"github.com/gnuboard/goboard/models"
)

// ConfigRepository handles the singleton site configuration row.
type ConfigRepository interface {
	// Get retrieves the configuration row. A missing row or missing table
	// means the system is not installed yet.
	Get(ctx context.Context) (*models.Config, error)
	// Save creates or updates the configuration row.
	Save(ctx context.Context, cfg *models.Config) error
}

// MemberRepository handles database operations for Member entities.
type MemberRepository interface {
	// GetByMemberID retrieves a member by the public member id.
	GetByMemberID(ctx context.Context, memberID string) (*models.Member, error)
	// Save creates or updates a member record.
	Save(ctx context.Context, member *models.Member) error
	// UpdateLoginStamp records a successful login's timestamp and IP.
	UpdateLoginStamp(ctx context.Context, member *models.Member, at time.Time, ip string) error
}

// PointRepository handles the point award ledger.
type PointRepository interface {
	// Award inserts a ledger row and bumps the member's balance. A zero
	// amount or an already-awarded (relTable, relID, relAction) cause is a
	// no-op.
	Award(ctx context.Context, memberID string, amount int, content, relTable, relID, relAction string) error
	// BalanceOf returns the member's current point balance.
	BalanceOf(ctx context.Context, memberID string) (int, error)
}

// VisitRepository handles visitor records.
type VisitRepository interface {
	// Record appends a visit row.
	Record(ctx context.Context, visit *models.Visit) error
	// CountForDay returns the number of visits recorded for the given day.
	CountForDay(ctx context.Context, day time.Time) (int64, error)
	// SummarizeDay upserts the per-day aggregate row for the given day.
	SummarizeDay(ctx context.Context, day time.Time) error
}

// BoardRepository handles board definitions.
type BoardRepository interface {
	// GetByTable retrieves a board by its table identifier.
	GetByTable(ctx context.Context, boardTable string) (*models.Board, error)
	// List returns all boards.
	List(ctx context.Context) ([]*models.Board, error)
}
