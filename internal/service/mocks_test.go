package service

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"webshop/internal/model"
	"webshop/internal/repository"
)

// MockStore is a mock implementation of repository.Store. Transactions run
// fn against the same mock.
type MockStore struct {
	mock.Mock
	users      *MockUserRepository
	books      *MockBookRepository
	categories *MockCategoryRepository
	soldBooks  *MockSoldBookRepository
}

func newMockStore() *MockStore {
	return &MockStore{
		users:      &MockUserRepository{},
		books:      &MockBookRepository{},
		categories: &MockCategoryRepository{},
		soldBooks:  &MockSoldBookRepository{},
	}
}

func (m *MockStore) Users() repository.UserRepository          { return m.users }
func (m *MockStore) Books() repository.BookRepository          { return m.books }
func (m *MockStore) Categories() repository.CategoryRepository { return m.categories }
func (m *MockStore) SoldBooks() repository.SoldBookRepository  { return m.soldBooks }

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Store) error) error {
	return fn(ctx, m)
}

// MockUserRepository is a mock implementation of UserRepository.
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserRepository) FindByName(ctx context.Context, name string) ([]model.User, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) List(ctx context.Context) ([]model.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) SearchByName(ctx context.Context, keyword string) ([]model.User, error) {
	args := m.Called(ctx, keyword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.User), args.Error(1)
}

func (m *MockUserRepository) RecordLogin(ctx context.Context, id uint, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

// MockBookRepository is a mock implementation of BookRepository.
type MockBookRepository struct {
	mock.Mock
}

func (m *MockBookRepository) book(args mock.Arguments) (*model.Book, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Book), args.Error(1)
}

func (m *MockBookRepository) books(args mock.Arguments) ([]model.Book, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Book), args.Error(1)
}

func (m *MockBookRepository) Create(ctx context.Context, book *model.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) Update(ctx context.Context, book *model.Book) error {
	return m.Called(ctx, book).Error(0)
}

func (m *MockBookRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookRepository) FindByID(ctx context.Context, id uint) (*model.Book, error) {
	return m.book(m.Called(ctx, id))
}

func (m *MockBookRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.Book, error) {
	return m.book(m.Called(ctx, id))
}

func (m *MockBookRepository) FindByIDAndTitle(ctx context.Context, id uint, title string) (*model.Book, error) {
	return m.book(m.Called(ctx, id, title))
}

func (m *MockBookRepository) ListByCategory(ctx context.Context, categoryID uint) ([]model.Book, error) {
	return m.books(m.Called(ctx, categoryID))
}

func (m *MockBookRepository) ListAvailableByCategory(ctx context.Context, categoryID uint) ([]model.Book, error) {
	return m.books(m.Called(ctx, categoryID))
}

func (m *MockBookRepository) SearchByTitle(ctx context.Context, keyword string) ([]model.Book, error) {
	return m.books(m.Called(ctx, keyword))
}

func (m *MockBookRepository) SearchByAuthor(ctx context.Context, keyword string) ([]model.Book, error) {
	return m.books(m.Called(ctx, keyword))
}

func (m *MockBookRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBookRepository) AddAmount(ctx context.Context, id uint, delta int) error {
	return m.Called(ctx, id, delta).Error(0)
}

func (m *MockBookRepository) SetAmount(ctx context.Context, id uint, amount int) error {
	return m.Called(ctx, id, amount).Error(0)
}

func (m *MockBookRepository) SetCategory(ctx context.Context, id uint, categoryID *uint) error {
	return m.Called(ctx, id, categoryID).Error(0)
}

func (m *MockBookRepository) DecrementAmount(ctx context.Context, id uint) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) category(args mock.Arguments) (*model.BookCategory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BookCategory), args.Error(1)
}

func (m *MockCategoryRepository) categories(args mock.Arguments) ([]model.BookCategory, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.BookCategory), args.Error(1)
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.BookCategory) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.BookCategory) error {
	return m.Called(ctx, category).Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, id uint) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.BookCategory, error) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCategoryRepository) FindByIDForUpdate(ctx context.Context, id uint) (*model.BookCategory, error) {
	return m.category(m.Called(ctx, id))
}

func (m *MockCategoryRepository) FindByName(ctx context.Context, name string) (*model.BookCategory, error) {
	return m.category(m.Called(ctx, name))
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.BookCategory, error) {
	return m.categories(m.Called(ctx))
}

func (m *MockCategoryRepository) SearchByName(ctx context.Context, keyword string) ([]model.BookCategory, error) {
	return m.categories(m.Called(ctx, keyword))
}

// MockSoldBookRepository is a mock implementation of SoldBookRepository.
type MockSoldBookRepository struct {
	mock.Mock
}

func (m *MockSoldBookRepository) Create(ctx context.Context, sale *model.SoldBook) error {
	return m.Called(ctx, sale).Error(0)
}

func (m *MockSoldBookRepository) ListByUser(ctx context.Context, userID uint) ([]model.SoldBook, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SoldBook), args.Error(1)
}

func (m *MockSoldBookRepository) List(ctx context.Context) ([]model.SoldBook, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.SoldBook), args.Error(1)
}

// memorySessions is an in-memory session.Store.
type memorySessions struct {
	mu   sync.Mutex
	last map[uint]time.Time
}

func newMemorySessions() *memorySessions {
	return &memorySessions{last: make(map[uint]time.Time)}
}

func (m *memorySessions) Begin(_ context.Context, userID uint, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.last[userID] = at
	return nil
}

func (m *memorySessions) Active(_ context.Context, userID uint, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.last[userID]
	return ok && !last.Before(since), nil
}

func (m *memorySessions) Refresh(_ context.Context, userID uint, at, since time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	last, ok := m.last[userID]
	if !ok || last.Before(since) {
		return false, nil
	}
	m.last[userID] = at
	return true, nil
}

func (m *memorySessions) End(_ context.Context, userID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.last, userID)
	return nil
}
