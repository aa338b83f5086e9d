package sqlstore

import (
	"fmt"
	"strings"
	"time"
)

// Driver names registered by the imported database/sql drivers
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds SQL connection settings
type Config struct {
	// Driver is DriverPostgres or DriverSQLite
	Driver string
	// DSN is a Postgres URL, or a file path for SQLite
	DSN string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// PostgresConfig returns pool defaults for a Postgres database URL
func PostgresConfig(databaseURL string) Config {
	return Config{
		Driver:          DriverPostgres,
		DSN:             databaseURL,
		MaxOpenConns:    16,
		MaxIdleConns:    8,
		ConnMaxLifetime: 30 * time.Minute,
	}
}

// SQLiteConfig returns settings for a SQLite database file. SQLite allows
// one writer, so the pool is a single connection.
func SQLiteConfig(path string) Config {
	return Config{
		Driver:       DriverSQLite,
		DSN:          path,
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	}
}

func (c Config) validate() error {
	if strings.TrimSpace(c.DSN) == "" {
		return fmt.Errorf("%s: data source is required", c.Driver)
	}
	switch c.Driver {
	case DriverPostgres, DriverSQLite:
		return nil
	}
	return fmt.Errorf("unsupported sql driver %q", c.Driver)
}

// dataSource returns the driver-specific DSN
func (c Config) dataSource() string {
	if c.Driver == DriverSQLite && !strings.Contains(c.DSN, "?") {
		return c.DSN + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	}
	return c.DSN
}
