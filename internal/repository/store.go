package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
)

// Store groups the webshop repositories over one database handle.
type Store interface {
	Users() UserRepository
	Books() BookRepository
	Categories() CategoryRepository
	SoldBooks() SoldBookRepository
	// WithTransaction executes fn within a database transaction. Every
	// repository obtained from tx takes part in it.
	WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type store struct {
	db *gorm.DB
}

// NewStore creates a GORM-backed store.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Users() UserRepository          { return &userRepository{db: s.db} }
func (s *store) Books() BookRepository          { return &bookRepository{db: s.db} }
func (s *store) Categories() CategoryRepository { return &categoryRepository{db: s.db} }
func (s *store) SoldBooks() SoldBookRepository  { return &soldBookRepository{db: s.db} }

// WithTransaction executes a function within a database transaction.
func (s *store) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &store{db: tx})
	})
}

// likeEscape is the escape character used by substring searches. A backslash
// is not portable across MySQL, PostgreSQL and SQLite string literals.
const likeEscape = "!"

// containsPattern builds a LIKE pattern matching keyword anywhere in a column.
func containsPattern(keyword string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")
	return "%" + r.Replace(keyword) + "%"
}

func containsClause(column string) string {
	return column + " LIKE ? ESCAPE '" + likeEscape + "'"
}
