package db

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"webshop/internal/model"
)

// Open returns a connected GORM DB instance for the named driver.
// Supported drivers are mysql, postgres and sqlite.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "mysql", "":
		dialector = mysql.Open(dsn)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	case "sqlite", "sqlite3":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gormLog := gormlogger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormLog, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates the webshop tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.BookCategory{},
		&model.Book{},
		&model.SoldBook{},
	); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	for _, stmt := range collationStatements(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("set collation: %w", err)
		}
	}
	return nil
}

// collationStatements switches unique name columns to a byte-wise collation
// where the dialect compares case-insensitively by default. SQLite and
// PostgreSQL already compare exactly.
func collationStatements(dialect string) []string {
	if dialect != "mysql" {
		return nil
	}
	return []string{
		"ALTER TABLE `book_categories` MODIFY `name` varchar(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}

// Reset drops every webshop table. Missing tables are ignored.
func Reset(db *gorm.DB) error {
	tables := []interface{}{
		&model.SoldBook{},
		&model.Book{},
		&model.BookCategory{},
		&model.User{},
	}
	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			return fmt.Errorf("drop table: %w", err)
		}
	}
	return nil
}
