package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"webshop/internal/db"
	"webshop/internal/model"
)

func tempDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_busy_timeout=5000&_foreign_keys=on"
	gormDB, err := db.Open("sqlite", dsn)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return gormDB
}

func uintPtr(v uint) *uint { return &v }

func TestContainsPatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, "%King%", containsPattern("King"))
	assert.Equal(t, "%50!%!_off!!%", containsPattern("50%_off!"))
}

func TestSearchTreatsWildcardsLiterally(t *testing.T) {
	ctx := context.Background()
	books := NewBookRepository(tempDB(t))
	require.NoError(t, books.Create(ctx, &model.Book{Title: "100% Horror", Author: "A"}))
	require.NoError(t, books.Create(ctx, &model.Book{Title: "1000 Horrors", Author: "B"}))

	found, err := books.SearchByTitle(ctx, "100%")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "100% Horror", found[0].Title)

	found, err = books.SearchByAuthor(ctx, "_")
	require.NoError(t, err)
	assert.Empty(t, found)
}

func TestWithTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	s := NewStore(tempDB(t))
	boom := errors.New("boom")

	err := s.WithTransaction(ctx, func(ctx context.Context, tx Store) error {
		if err := tx.Categories().Create(ctx, &model.BookCategory{Name: "Horror"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	categories, err := s.Categories().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, categories)
}

func TestDecrementAmountStopsAtZero(t *testing.T) {
	ctx := context.Background()
	books := NewBookRepository(tempDB(t))
	book := &model.Book{Title: "Cabal", Author: "Clive Barker", Price: 10, Amount: 1}
	require.NoError(t, books.Create(ctx, book))

	ok, err := books.DecrementAmount(ctx, book.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = books.DecrementAmount(ctx, book.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := books.FindByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.Amount)
}

func TestBookCategoryQueries(t *testing.T) {
	ctx := context.Background()
	s := NewStore(tempDB(t))
	horror := &model.BookCategory{Name: "Horror"}
	require.NoError(t, s.Categories().Create(ctx, horror))

	for _, b := range []*model.Book{
		{Title: "The Shining", Author: "Stephen King", Amount: 0, CategoryID: uintPtr(horror.ID)},
		{Title: "Doctor Sleep", Author: "Stephen King", Amount: 3, CategoryID: uintPtr(horror.ID)},
		{Title: "Loose", Author: "Nobody", Amount: 2},
	} {
		require.NoError(t, s.Books().Create(ctx, b))
	}

	all, err := s.Books().ListByCategory(ctx, horror.ID)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Doctor Sleep", all[0].Title)

	available, err := s.Books().ListAvailableByCategory(ctx, horror.ID)
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "Doctor Sleep", available[0].Title)

	count, err := s.Books().CountByCategory(ctx, horror.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, s.Books().SetCategory(ctx, all[0].ID, nil))
	count, err = s.Books().CountByCategory(ctx, horror.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestCategoryReferencesAreEnforced(t *testing.T) {
	ctx := context.Background()
	s := NewStore(tempDB(t))
	horror := &model.BookCategory{Name: "Horror"}
	require.NoError(t, s.Categories().Create(ctx, horror))
	book := &model.Book{Title: "Cabal", Author: "Clive Barker", CategoryID: uintPtr(horror.ID)}
	require.NoError(t, s.Books().Create(ctx, book))

	assert.Error(t, s.Categories().Delete(ctx, horror.ID))
	_, err := s.Categories().FindByID(ctx, horror.ID)
	require.NoError(t, err)

	assert.Error(t, s.Books().Create(ctx, &model.Book{Title: "Lost", Author: "Nobody", CategoryID: uintPtr(999)}))
	assert.Error(t, s.Books().SetCategory(ctx, book.ID, uintPtr(999)))

	require.NoError(t, s.Books().SetCategory(ctx, book.ID, nil))
	require.NoError(t, s.Categories().Delete(ctx, horror.ID))
}

func TestBookColumnUpdatesReportMissingRows(t *testing.T) {
	ctx := context.Background()
	books := NewBookRepository(tempDB(t))

	assert.ErrorIs(t, books.AddAmount(ctx, 42, 1), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, books.SetAmount(ctx, 42, 1), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, books.Delete(ctx, 42), gorm.ErrRecordNotFound)
}

func TestFindByIDAndTitleIsExact(t *testing.T) {
	ctx := context.Background()
	books := NewBookRepository(tempDB(t))
	book := &model.Book{Title: "It", Author: "Stephen King"}
	require.NoError(t, books.Create(ctx, book))

	_, err := books.FindByIDAndTitle(ctx, book.ID, "it")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	got, err := books.FindByIDAndTitle(ctx, book.ID, "It")
	require.NoError(t, err)
	assert.Equal(t, book.ID, got.ID)
}

func TestCategoryNameIsUnique(t *testing.T) {
	ctx := context.Background()
	categories := NewCategoryRepository(tempDB(t))
	require.NoError(t, categories.Create(ctx, &model.BookCategory{Name: "Horror"}))

	err := categories.Create(ctx, &model.BookCategory{Name: "Horror"})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	found, err := categories.FindByName(ctx, "Horror")
	require.NoError(t, err)
	assert.Equal(t, "Horror", found.Name)

	_, err = categories.FindByName(ctx, "Fantasy")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserFindByNameReturnsAllExactMatches(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(tempDB(t))
	for _, name := range []string{"alice", "alice", "Alice", "alicia"} {
		require.NoError(t, users.Create(ctx, &model.User{Name: name, PasswordHash: "x", IsActive: true}))
	}

	found, err := users.FindByName(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Less(t, found[0].ID, found[1].ID)

	matches, err := users.SearchByName(ctx, "lic")
	require.NoError(t, err)
	assert.Len(t, matches, 4)
}

func TestRecordLogin(t *testing.T) {
	ctx := context.Background()
	users := NewUserRepository(tempDB(t))
	user := &model.User{Name: "bob", PasswordHash: "x", IsActive: true}
	require.NoError(t, users.Create(ctx, user))

	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, users.RecordLogin(ctx, user.ID, at))

	got, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, got.LastLogin)
	assert.Nil(t, got.SessionActivity)
	assert.True(t, got.LastLogin.Equal(at))

	assert.ErrorIs(t, users.RecordLogin(ctx, 999, at), gorm.ErrRecordNotFound)
}

func TestSoldBooksNewestFirst(t *testing.T) {
	ctx := context.Background()
	sales := NewSoldBookRepository(tempDB(t))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	book := &model.Book{ID: 7, Title: "Cabal", Author: "Clive Barker", Price: 12}

	require.NoError(t, sales.Create(ctx, model.NewSale(book, 1, base)))
	require.NoError(t, sales.Create(ctx, model.NewSale(book, 2, base.Add(time.Hour))))
	require.NoError(t, sales.Create(ctx, model.NewSale(book, 1, base.Add(2*time.Hour))))

	mine, err := sales.ListByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	assert.True(t, mine[0].PurchaseDate.After(mine[1].PurchaseDate))

	all, err := sales.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, uint(1), all[0].UserID)
	assert.Equal(t, uint(2), all[1].UserID)
}
