// Package sqlstore implements the track and preference stores on gorm.
// SQLite (pure Go) is the default dialect; MySQL is available for shared deployments.
package sqlstore

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tejashwikalptaru/tunebox/internal/domain"
)

// Supported dialects.
const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// Options selects and configures the database.
type Options struct {
	Dialect    string
	SQLitePath string
	MySQLDSN   string
	LogQueries bool
}

// Open connects to the configured database and migrates the schema.
func Open(opts Options, logger *slog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch opts.Dialect {
	case DialectSQLite:
		dialector = sqlite.Open(sqliteDSN(opts.SQLitePath))
	case DialectMySQL:
		dialector = mysql.Open(opts.MySQLDSN)
	default:
		return nil, domain.NewValidationError("dialect", opts.Dialect, "must be sqlite or mysql")
	}

	level := gormlogger.Warn
	if opts.LogQueries {
		level = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.New(slogWriter{logger: logger.With(slog.String("component", "gorm"))}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect %s database: %w", opts.Dialect, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	if opts.Dialect == DialectSQLite {
		// One writer at a time; SQLite serialises writes anyway.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	if err := db.AutoMigrate(&trackRecord{}, &preferenceRecord{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to auto migrate models: %w", err)
	}

	logger.Info("database ready", slog.String("dialect", opts.Dialect))
	return db, nil
}

// Close closes the underlying connection pool.
func Close(db *gorm.DB) error {
	if db == nil {
		return nil
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func sqliteDSN(path string) string {
	if strings.Contains(path, "?") {
		return path
	}
	return path + "?_pragma=busy_timeout(5000)"
}

// slogWriter routes gorm's printf-style logger into slog.
type slogWriter struct {
	logger *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.logger.Info(strings.TrimSpace(fmt.Sprintf(format, args...)))
}
