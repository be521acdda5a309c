// Package database opens the relational store behind the board. Engine
// selection, DSN construction and the table-prefix naming strategy all derive
// from config.Settings.
package database

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/gnuboard/goboard/config"
)

// Engine names accepted by the installer and connector.
const (
	EnginePostgres = "postgresql"
	EngineMySQL    = "mysql"
	EngineSQLite   = "sqlite"
)

var supportedEngines = map[string]bool{
	EnginePostgres: true,
	EngineMySQL:    true,
	EngineSQLite:   true,
}

// SupportedEngine reports whether the named database engine is usable.
func SupportedEngine(name string) bool {
	return supportedEngines[name]
}

// BuildDSN constructs the engine-specific connection string. For sqlite the
// database name is the file path.
func BuildDSN(s *config.Settings) string {
	switch s.DBEngine {
	case EnginePostgres:
		return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
			s.DBHost, s.DBPort, s.DBUser, s.DBPassword, s.DBName)
	case EngineMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
			s.DBUser, s.DBPassword, s.DBHost, s.DBPort, s.DBName, s.DBCharset)
	case EngineSQLite:
		return s.DBName
	default:
		return ""
	}
}

// Connect opens a gorm connection for the configured engine. Table names get
// the configured prefix and singular form, so Member maps to <prefix>member.
func Connect(s *config.Settings) (*gorm.DB, error) {
	if !SupportedEngine(s.DBEngine) {
		return nil, errors.Errorf("unsupported database engine %q", s.DBEngine)
	}

	dsn := BuildDSN(s)
	var dialector gorm.Dialector
	switch s.DBEngine {
	case EnginePostgres:
		dialector = postgres.Open(dsn)
	case EngineMySQL:
		dialector = mysql.Open(dsn)
	case EngineSQLite:
		dialector = sqlite.Open(dsn)
	}

	logLevel := logger.Silent
	if s.AppIsDebug {
		logLevel = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		NamingStrategy: schema.NamingStrategy{
			TablePrefix:   s.DBTablePrefix,
			SingularTable: true,
		},
		Logger: logger.Default.LogMode(logLevel),
	})
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s database", s.DBEngine)
	}
	return db, nil
}

// Ping verifies the underlying connection is alive.
func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return errors.Wrap(err, "acquiring connection pool")
	}
	return errors.Wrap(sqlDB.Ping(), "pinging database")
}

// WriteTableName returns the dynamic per-board write table name, including
// the configured prefix. Naming-strategy prefixing does not apply to tables
// addressed explicitly.
func WriteTableName(prefix, boardTable string) string {
	return prefix + "write_" + boardTable
}
