// Package sqlitetest opens an in-memory sqlite database carrying the full schema,
// for repository and handler tests.
package sqlitetest

import (
	"github.com/frahmantamala/contract-portal/internal/core/datamodel"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN is an in-memory database with foreign key enforcement switched on, so the
// RESTRICT, CASCADE and SET NULL actions behave as they do in PostgreSQL.
const DSN = ":memory:?_foreign_keys=on"

// Open returns a fresh database. The pool is pinned to one connection because every
// new sqlite connection to ":memory:" is a separate, empty database.
func Open() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(DSN), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := datamodel.AutoMigrate(db); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Close releases the underlying connection.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
