// Package install implements the one-shot environment bootstrap: persisting
// connection parameters to the environment store, creating the schema and
// seeding the default rows, with progress reported over a streamed event
// channel.
package install

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/pitabwire/util"
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/gnuboard/goboard/config"
	"github.com/gnuboard/goboard/database"
	"github.com/gnuboard/goboard/models"
)

// Form carries the database connection parameters and initial admin
// credentials collected by the installer.
type Form struct {
	DBEngine      string
	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	DBTablePrefix string

	AdminID       string
	AdminName     string
	AdminPassword string
	AdminEmail    string

	Reinstall bool
	SkipAdmin bool
}

// settings builds the connection settings described by the form.
func (f *Form) settings() *config.Settings {
	return &config.Settings{
		DBEngine:      f.DBEngine,
		DBHost:        f.DBHost,
		DBPort:        f.DBPort,
		DBUser:        f.DBUser,
		DBPassword:    f.DBPassword,
		DBName:        f.DBName,
		DBTablePrefix: f.DBTablePrefix,
	}
}

// Hasher hashes the seeded admin password.
type Hasher interface {
	Hash(ctx context.Context, data []byte) ([]byte, error)
}

// Installer runs the installation workflow.
type Installer struct {
	hasher Hasher

	// OnInstalled, when set, receives the live connection after a
	// successful run so the running process can leave the uninstalled
	// state without a restart.
	OnInstalled func(db *gorm.DB, settings *config.Settings)
}

// NewInstaller builds an Installer using the given password hasher.
func NewInstaller(hasher Hasher) *Installer {
	return &Installer{hasher: hasher}
}

// allModels lists every schema-managed entity in creation order.
func allModels() []any {
	return []any{
		&models.Config{},
		&models.Member{},
		&models.Group{},
		&models.Board{},
		&models.Content{},
		&models.QaConfig{},
		&models.FaqMaster{},
		&models.Point{},
		&models.Visit{},
		&models.VisitSum{},
	}
}

// Run executes the installation and reports ordered milestone messages on
// the returned channel. The final event is prefixed "[success]" or
// "[error]"; on error the persisted environment store is removed so the
// system reverts to uninitialized.
func (ins *Installer) Run(ctx context.Context, form *Form) <-chan string {
	events := make(chan string, 8)

	go func() {
		defer close(events)
		log := util.Log(ctx)

		fail := func(err error) {
			log.WithError(err).Error("installation failed")
			if removeErr := config.RemoveEnvStore(); removeErr != nil {
				log.WithError(removeErr).Error("could not remove environment store")
			}
			events <- fmt.Sprintf("[error] Installation failed. %v", err)
		}

		settings := form.settings()
		db, err := database.Connect(settings)
		if err != nil {
			fail(err)
			return
		}
		if err = database.Ping(db); err != nil {
			fail(err)
			return
		}
		events <- "Database connection completed"

		if form.Reinstall {
			if err = dropSchema(db, settings.DBTablePrefix); err != nil {
				fail(err)
				return
			}
			events <- "Existing database tables deleted"
		}

		if err = db.WithContext(ctx).AutoMigrate(allModels()...); err != nil {
			fail(errors.Wrap(err, "creating tables"))
			return
		}
		events <- "Database tables created"

		if err = ins.seed(ctx, db, form); err != nil {
			fail(err)
			return
		}
		events <- "Default configuration data inserted"

		for _, board := range defaultBoards {
			if err = createWriteTable(ctx, db, settings.DBTablePrefix, board.BoardTable); err != nil {
				fail(errors.Wrapf(err, "creating write table for board %s", board.BoardTable))
				return
			}
		}
		events <- "Board tables created"

		if err = setupDataDirectory(); err != nil {
			fail(err)
			return
		}
		events <- "Data directory created"

		if ins.OnInstalled != nil {
			ins.OnInstalled(db, settings)
		}

		events <- fmt.Sprintf("[success] Congratulations. %s installation completed.", Version)
	}()

	return events
}

// seed inserts the default rows. Every step checks for the existence of its
// target first, so re-running after a partial failure duplicates nothing.
func (ins *Installer) seed(ctx context.Context, db *gorm.DB, form *Form) error {
	tx := db.WithContext(ctx)

	if err := ins.ensureConfig(tx, form); err != nil {
		return errors.Wrap(err, "seeding configuration")
	}
	if !form.SkipAdmin {
		if err := ins.ensureAdmin(ctx, tx, form); err != nil {
			return errors.Wrap(err, "seeding admin member")
		}
	}
	if err := ins.ensureContents(tx); err != nil {
		return errors.Wrap(err, "seeding contents")
	}
	if err := ins.ensureQaConfig(tx); err != nil {
		return errors.Wrap(err, "seeding qa configuration")
	}
	if err := ins.ensureFaqMaster(tx); err != nil {
		return errors.Wrap(err, "seeding faq master")
	}
	if err := ins.ensureGroup(tx); err != nil {
		return errors.Wrap(err, "seeding board group")
	}
	if err := ins.ensureBoards(tx); err != nil {
		return errors.Wrap(err, "seeding boards")
	}
	return nil
}

func (ins *Installer) ensureConfig(tx *gorm.DB, form *Form) error {
	var count int64
	if err := tx.Model(&models.Config{}).Where("id = ?", 1).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cfg := defaultConfig
	cfg.Admin = form.AdminID
	cfg.AdminEmail = form.AdminEmail
	return tx.Create(&cfg).Error
}

// ensureAdmin upserts the super admin: an existing account gets its
// credentials refreshed instead of a duplicate row.
func (ins *Installer) ensureAdmin(ctx context.Context, tx *gorm.DB, form *Form) error {
	hash, err := ins.hasher.Hash(ctx, []byte(form.AdminPassword))
	if err != nil {
		return err
	}

	var existing models.Member
	err = tx.First(&existing, "member_id = ?", form.AdminID).Error
	if err == nil {
		existing.PasswordHash = string(hash)
		existing.Name = form.AdminName
		existing.Nick = form.AdminName
		existing.Email = form.AdminEmail
		return tx.Save(&existing).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	admin := defaultAdmin
	admin.MemberID = form.AdminID
	admin.PasswordHash = string(hash)
	admin.Name = form.AdminName
	admin.Nick = form.AdminName
	admin.Email = form.AdminEmail
	return tx.Create(&admin).Error
}

func (ins *Installer) ensureContents(tx *gorm.DB) error {
	for _, content := range defaultContents {
		var count int64
		if err := tx.Model(&models.Content{}).
			Where("content_id = ?", content.ContentID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := content
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (ins *Installer) ensureQaConfig(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.QaConfig{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	row := defaultQaConfig
	return tx.Create(&row).Error
}

func (ins *Installer) ensureFaqMaster(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.FaqMaster{}).Where("id = ?", defaultFaqMaster.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	row := defaultFaqMaster
	return tx.Create(&row).Error
}

func (ins *Installer) ensureGroup(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&models.Group{}).Where("group_id = ?", defaultGroupID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	row := defaultGroup
	return tx.Create(&row).Error
}

func (ins *Installer) ensureBoards(tx *gorm.DB) error {
	for _, board := range defaultBoards {
		var count int64
		if err := tx.Model(&models.Board{}).
			Where("board_table = ?", board.BoardTable).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		row := defaultBoardData
		row.BoardTable = board.BoardTable
		row.Subject = board.Subject
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// createWriteTable materializes the dynamic per-board write table.
func createWriteTable(ctx context.Context, db *gorm.DB, prefix, boardTable string) error {
	name := database.WriteTableName(prefix, boardTable)
	if db.Migrator().HasTable(name) {
		return nil
	}
	return db.WithContext(ctx).Table(name).AutoMigrate(&models.BoardWrite{})
}

// dropSchema removes every managed table, including dynamic write tables.
func dropSchema(db *gorm.DB, prefix string) error {
	tables, err := db.Migrator().GetTables()
	if err != nil {
		return errors.Wrap(err, "listing tables")
	}
	for _, table := range tables {
		if strings.HasPrefix(table, prefix+"write_") {
			if err = db.Migrator().DropTable(table); err != nil {
				return errors.Wrapf(err, "dropping table %s", table)
			}
		}
	}
	return db.Migrator().DropTable(allModels()...)
}

// EnsureDataDirectory creates the data and cache directories when absent.
// Called at startup; unlike the install step it leaves an existing cache
// alone.
func EnsureDataDirectory() error {
	if err := os.MkdirAll(defaultDataDirectory, 0o755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}
	return errors.Wrap(os.MkdirAll(defaultCacheDirectory, 0o755), "creating cache directory")
}

// setupDataDirectory creates the data directory and resets the cache
// directory underneath it.
func setupDataDirectory() error {
	if err := os.MkdirAll(defaultDataDirectory, 0o755); err != nil {
		return errors.Wrap(err, "creating data directory")
	}
	if err := os.RemoveAll(defaultCacheDirectory); err != nil {
		return errors.Wrap(err, "clearing cache directory")
	}
	return errors.Wrap(os.MkdirAll(defaultCacheDirectory, 0o755), "creating cache directory")
}
