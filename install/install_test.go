package install

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/models"
	"github.com/gnuboard/goboard/utils"
)

func testForm(dbPath string) *Form {
	return &Form{
		DBEngine:      database.EngineSQLite,
		DBName:        dbPath,
		DBTablePrefix: "g6_",
		AdminID:       "admin",
		AdminName:     "Administrator",
		AdminPassword: "admin-password",
		AdminEmail:    "admin@example.com",
	}
}

// drain collects every event off the channel and returns them in order.
func drain(events <-chan string) []string {
	var collected []string
	for event := range events {
		collected = append(collected, event)
	}
	return collected
}

func TestRunHappyPath(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "install.db")

	installed := false
	ins := NewInstaller(utils.NewBCrypt())
	ins.OnInstalled = func(db *gorm.DB, settings *config.Settings) {
		installed = true
	}

	events := drain(ins.Run(context.Background(), testForm(dbPath)))

	require.NotEmpty(t, events)
	require.Contains(t, events, "Database connection completed")
	require.Contains(t, events, "Database tables created")
	require.Contains(t, events, "Default configuration data inserted")
	require.Contains(t, events, "Board tables created")
	require.True(t, strings.HasPrefix(events[len(events)-1], "[success]"))
	require.True(t, installed)

	db, err := database.Connect(testForm(dbPath).settings())
	require.NoError(t, err)

	var cfg models.Config
	require.NoError(t, db.First(&cfg, "id = ?", 1).Error)
	require.Equal(t, "admin", cfg.Admin)
	require.Equal(t, "admin@example.com", cfg.AdminEmail)

	var admin models.Member
	require.NoError(t, db.First(&admin, "member_id = ?", "admin").Error)
	require.Equal(t, 10, admin.Level)
	require.NotEqual(t, "admin-password", admin.PasswordHash)

	var boardCount int64
	require.NoError(t, db.Model(&models.Board{}).Count(&boardCount).Error)
	require.EqualValues(t, len(defaultBoards), boardCount)

	for _, board := range defaultBoards {
		name := database.WriteTableName("g6_", board.BoardTable)
		require.True(t, db.Migrator().HasTable(name), "missing write table %s", name)
	}

	// Data directories come up alongside the schema.
	info, err := os.Stat("data")
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestRunTwiceDuplicatesNothing(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "install.db")

	ins := NewInstaller(utils.NewBCrypt())

	events := drain(ins.Run(context.Background(), testForm(dbPath)))
	require.True(t, strings.HasPrefix(events[len(events)-1], "[success]"))

	events = drain(ins.Run(context.Background(), testForm(dbPath)))
	require.True(t, strings.HasPrefix(events[len(events)-1], "[success]"))

	db, err := database.Connect(testForm(dbPath).settings())
	require.NoError(t, err)

	counts := map[string]int64{}
	for name, model := range map[string]any{
		"config":  &models.Config{},
		"member":  &models.Member{},
		"group":   &models.Group{},
		"qa":      &models.QaConfig{},
		"faq":     &models.FaqMaster{},
		"content": &models.Content{},
		"board":   &models.Board{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Count(&count).Error)
		counts[name] = count
	}

	require.EqualValues(t, 1, counts["config"])
	require.EqualValues(t, 1, counts["member"])
	require.EqualValues(t, 1, counts["group"])
	require.EqualValues(t, 1, counts["qa"])
	require.EqualValues(t, 1, counts["faq"])
	require.EqualValues(t, int64(len(defaultContents)), counts["content"])
	require.EqualValues(t, int64(len(defaultBoards)), counts["board"])
}

func TestRunReinstallDropsExistingTables(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "install.db")

	ins := NewInstaller(utils.NewBCrypt())
	events := drain(ins.Run(context.Background(), testForm(dbPath)))
	require.True(t, strings.HasPrefix(events[len(events)-1], "[success]"))

	// Leave a mark that a reinstall must wipe.
	db, err := database.Connect(testForm(dbPath).settings())
	require.NoError(t, err)
	require.NoError(t, db.Create(&models.Member{MemberID: "leftover"}).Error)

	form := testForm(dbPath)
	form.Reinstall = true
	events = drain(ins.Run(context.Background(), form))
	require.Contains(t, events, "Existing database tables deleted")
	require.True(t, strings.HasPrefix(events[len(events)-1], "[success]"))

	var count int64
	require.NoError(t, db.Model(&models.Member{}).Where("member_id = ?", "leftover").Count(&count).Error)
	require.Zero(t, count)
}

func TestRunFailureRemovesEnvStore(t *testing.T) {
	t.Chdir(t.TempDir())

	require.NoError(t, config.WriteEnvStore(map[string]string{"DB_ENGINE": "bogus"}))
	require.True(t, config.Installed())

	form := testForm("ignored.db")
	form.DBEngine = "bogus"

	ins := NewInstaller(utils.NewBCrypt())
	events := drain(ins.Run(context.Background(), form))

	require.NotEmpty(t, events)
	require.True(t, strings.HasPrefix(events[len(events)-1], "[error]"))
	require.False(t, config.Installed())
}
