package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/models"
	"github.com/gnuboard/goboard/service/repository"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	settings := &config.Settings{
		DBEngine:      database.EngineSQLite,
		DBName:        filepath.Join(t.TempDir(), "test.db"),
		DBTablePrefix: "g6_",
	}
	db, err := database.Connect(settings)
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Config{}, &models.Member{}, &models.Group{}, &models.Board{},
		&models.Content{}, &models.QaConfig{}, &models.FaqMaster{},
		&models.Point{}, &models.Visit{}, &models.VisitSum{},
	))
	return db
}

func TestConfigRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewConfigRepository(db)

	_, err := repo.Get(ctx)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.Save(ctx, &models.Config{Title: "test board", Admin: "admin"}))

	cfg, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test board", cfg.Title)
	assert.Equal(t, 1, cfg.ID)
}

func TestMemberRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewMemberRepository(db)

	member := &models.Member{MemberID: "alice", Name: "Alice", Level: 2}
	require.NoError(t, repo.Save(ctx, member))
	require.NotZero(t, member.ID)

	loaded, err := repo.GetByMemberID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "Alice", loaded.Name)

	_, err = repo.GetByMemberID(ctx, "nobody")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	stamp := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLoginStamp(ctx, loaded, stamp, "10.1.2.3"))

	reloaded, err := repo.GetByMemberID(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "10.1.2.3", reloaded.LoginIP)
	assert.Equal(t, stamp.Format("2006-01-02"), reloaded.TodayLogin.Format("2006-01-02"))
}

func TestPointAward(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	members := repository.NewMemberRepository(db)
	points := repository.NewPointRepository(db)

	require.NoError(t, members.Save(ctx, &models.Member{MemberID: "bob", Point: 0}))

	testCases := []struct {
		name        string
		amount      int
		relAction   string
		wantBalance int
	}{
		{
			name:        "first award bumps balance",
			amount:      100,
			relAction:   "2026-08-30",
			wantBalance: 100,
		},
		{
			name:        "same cause is a no-op",
			amount:      100,
			relAction:   "2026-08-30",
			wantBalance: 100,
		},
		{
			name:        "new cause awards again",
			amount:      50,
			relAction:   "2026-08-31",
			wantBalance: 150,
		},
		{
			name:        "zero amount is skipped",
			amount:      0,
			relAction:   "2026-09-01",
			wantBalance: 150,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := points.Award(ctx, "bob", tc.amount, "first login", "@login", "bob", tc.relAction)
			require.NoError(t, err)

			balance, err := points.BalanceOf(ctx, "bob")
			require.NoError(t, err)
			assert.Equal(t, tc.wantBalance, balance)
		})
	}
}

func TestVisitRecordAndSummarize(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	visits := repository.NewVisitRepository(db)

	day := time.Date(2026, 8, 29, 14, 30, 0, 0, time.UTC)
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		require.NoError(t, visits.Record(ctx, &models.Visit{IP: ip, Time: day}))
	}
	// A visit on another day stays out of the count.
	require.NoError(t, visits.Record(ctx, &models.Visit{IP: "10.0.0.9", Time: day.AddDate(0, 0, 1)}))

	count, err := visits.CountForDay(ctx, day)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	require.NoError(t, visits.SummarizeDay(ctx, day))
	// Upsert: a second run keeps a single row.
	require.NoError(t, visits.SummarizeDay(ctx, day))

	var sums []models.VisitSum
	require.NoError(t, db.Find(&sums).Error)
	require.Len(t, sums, 1)
	assert.Equal(t, 3, sums[0].Count)
}

func TestBoardRepository(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	repo := repository.NewBoardRepository(db)

	require.NoError(t, db.Create(&models.Board{BoardTable: "free", Subject: "Free board"}).Error)
	require.NoError(t, db.Create(&models.Board{BoardTable: "notice", Subject: "Notice"}).Error)

	board, err := repo.GetByTable(ctx, "free")
	require.NoError(t, err)
	assert.Equal(t, "Free board", board.Subject)

	boards, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, boards, 2)
	assert.Equal(t, "free", boards[0].BoardTable)
}
