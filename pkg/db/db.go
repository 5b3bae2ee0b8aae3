// Database bootstrap for the persisted record types
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/choraleia/collectly/pkg/utils"
)

// Supported drivers
const (
	DriverSQLite   = "sqlite"
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

// Open connects to the configured database. mysql and postgres connections are
// opened through database/sql with the go-sql-driver and lib/pq drivers and
// then handed to gorm.
func Open(driver, dsn string) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: NewLogger(utils.GetLogger())}

	switch driver {
	case DriverSQLite, "":
		if dsn != ":memory:" && !isURI(dsn) {
			if err := os.MkdirAll(filepath.Dir(dsn), 0o700); err != nil {
				return nil, fmt.Errorf("create database dir: %w", err)
			}
		}
		return gorm.Open(sqlite.Open(dsn), gormCfg)

	case DriverMySQL:
		sqlDB, err := sql.Open("mysql", dsn)
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		return gorm.Open(mysql.New(mysql.Config{Conn: sqlDB}), gormCfg)

	case DriverPostgres:
		sqlDB, err := sql.Open("postgres", dsn)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
		return gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), gormCfg)

	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// NewLogger sends gorm warnings, errors and slow queries to l.
// Missing-record lookups are expected and stay silent.
func NewLogger(l *slog.Logger) logger.Interface {
	return logger.New(slogWriter{l: l}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

type slogWriter struct {
	l *slog.Logger
}

func (w slogWriter) Printf(format string, args ...interface{}) {
	w.l.Warn("gorm", "message", strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// AutoMigrate creates or updates all tables.
func AutoMigrate(database *gorm.DB) error {
	return database.AutoMigrate(&AIInteraction{}, &CommunicationLog{}, &OrganizationSettings{})
}

func isURI(dsn string) bool {
	return len(dsn) > 5 && dsn[:5] == "file:"
}
