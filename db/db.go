package db

import (
	"errors"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Open connects to MySQL when mysqlDSN is set, falling back to SQLite.
// The returned handle is passed down explicitly - there is no package-level
// instance.
func Open(mysqlDSN, sqliteFile string) (*gorm.DB, error) {
	cfg := &gorm.Config{
		PrepareStmt: true,
		// Duplicate-key errors surface as gorm.ErrDuplicatedKey on both
		// drivers; the slug retry loop depends on that.
		TranslateError: true,
	}
	if mysqlDSN != "" {
		return gorm.Open(mysql.Open(mysqlDSN), cfg)
	}
	if sqliteFile != "" {
		return gorm.Open(sqlite.Open(sqliteFile), cfg)
	}
	return nil, errors.New("no database configured")
}
