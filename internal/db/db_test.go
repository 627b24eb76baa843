package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webshop/internal/model"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open("oracle", "whatever")
	assert.Error(t, err)
}

func TestMigrateAndReset(t *testing.T) {
	gormDB, err := Open("sqlite", filepath.Join(t.TempDir(), "webshop.db"))
	require.NoError(t, err)

	require.NoError(t, Migrate(gormDB))
	for _, table := range []interface{}{&model.User{}, &model.Book{}, &model.BookCategory{}, &model.SoldBook{}} {
		assert.True(t, gormDB.Migrator().HasTable(table))
	}

	require.NoError(t, Reset(gormDB))
	assert.False(t, gormDB.Migrator().HasTable(&model.Book{}))

	// Migrate is repeatable after a reset.
	require.NoError(t, Migrate(gormDB))
	assert.True(t, gormDB.Migrator().HasTable(&model.Book{}))
}

func TestCollationStatements(t *testing.T) {
	stmts := collationStatements("mysql")
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "`book_categories`")
	assert.Contains(t, stmts[0], "COLLATE utf8mb4_bin")

	assert.Empty(t, collationStatements("sqlite"))
	assert.Empty(t, collationStatements("postgres"))
}

func TestCategoryNamesAreCaseSensitive(t *testing.T) {
	gormDB, err := Open("sqlite", filepath.Join(t.TempDir(), "webshop.db"))
	require.NoError(t, err)
	require.NoError(t, Migrate(gormDB))

	require.NoError(t, gormDB.Create(&model.BookCategory{Name: "Horror"}).Error)
	require.NoError(t, gormDB.Create(&model.BookCategory{Name: "horror"}).Error)
	assert.ErrorIs(t, gormDB.Create(&model.BookCategory{Name: "Horror"}).Error, gorm.ErrDuplicatedKey)
}
