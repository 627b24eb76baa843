// Package seed fills an empty shop with a small starter catalog and two
// accounts. Running it again leaves existing rows alone.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"gorm.io/gorm"

	"webshop/internal/auth"
	"webshop/internal/model"
	"webshop/internal/repository"
)

//go:embed catalog.json
var defaultCatalog []byte

// BookData describes one seeded title. Category names a seeded category and
// may be empty.
type BookData struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Price    int    `json:"price"`
	Amount   int    `json:"amount"`
	Category string `json:"category"`
}

// UserData describes one seeded account.
type UserData struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Admin    bool   `json:"admin"`
}

// Data is the full seed set.
type Data struct {
	Categories []string   `json:"categories"`
	Books      []BookData `json:"books"`
	Users      []UserData `json:"users"`
}

// Result counts the rows a run created.
type Result struct {
	Categories int `json:"categories"`
	Books      int `json:"books"`
	Users      int `json:"users"`
}

// Default returns the built-in seed set.
func Default() (*Data, error) {
	var data Data
	if err := json.Unmarshal(defaultCatalog, &data); err != nil {
		return nil, fmt.Errorf("parse built-in catalog: %w", err)
	}
	return &data, nil
}

// Load reads a seed set in the same JSON layout as the built-in one.
func Load(r io.Reader) (*Data, error) {
	var data Data
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, fmt.Errorf("parse seed data: %w", err)
	}
	for _, b := range data.Books {
		if b.Title == "" || b.Price < 0 || b.Amount < 0 {
			return nil, fmt.Errorf("invalid seed book %q", b.Title)
		}
	}
	return &data, nil
}

// Fetch downloads a seed set from url.
func Fetch(ctx context.Context, url string) (*Data, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch seed data: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("seed source returned status code: %d", resp.StatusCode)
	}
	return Load(resp.Body)
}

// Source resolves a seed set from an http(s) URL, a file path, or the
// built-in catalog when source is empty.
func Source(ctx context.Context, source string) (*Data, error) {
	switch {
	case source == "":
		return Default()
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		return Fetch(ctx, source)
	default:
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open seed file: %w", err)
		}
		defer f.Close()
		return Load(f)
	}
}

// Run inserts every category, book and user of data that is not present
// yet, in one transaction. Categories match by name, books by exact title,
// users by name.
func Run(ctx context.Context, store repository.Store, data *Data) (*Result, error) {
	result := &Result{}
	err := store.WithTransaction(ctx, func(ctx context.Context, tx repository.Store) error {
		categoryIDs := make(map[string]uint, len(data.Categories))
		for _, name := range data.Categories {
			id, created, err := ensureCategory(ctx, tx, name)
			if err != nil {
				return err
			}
			categoryIDs[name] = id
			if created {
				result.Categories++
			}
		}

		for _, b := range data.Books {
			created, err := ensureBook(ctx, tx, b, categoryIDs)
			if err != nil {
				return err
			}
			if created {
				result.Books++
			}
		}

		for _, u := range data.Users {
			created, err := ensureUser(ctx, tx, u)
			if err != nil {
				return err
			}
			if created {
				result.Users++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func ensureCategory(ctx context.Context, tx repository.Store, name string) (uint, bool, error) {
	existing, err := tx.Categories().FindByName(ctx, name)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, fmt.Errorf("find category %q: %w", name, err)
	}

	category := &model.BookCategory{Name: name}
	if err := tx.Categories().Create(ctx, category); err != nil {
		return 0, false, fmt.Errorf("create category %q: %w", name, err)
	}
	return category.ID, true, nil
}

func ensureBook(ctx context.Context, tx repository.Store, b BookData, categoryIDs map[string]uint) (bool, error) {
	matches, err := tx.Books().SearchByTitle(ctx, b.Title)
	if err != nil {
		return false, fmt.Errorf("find book %q: %w", b.Title, err)
	}
	for _, m := range matches {
		if m.Title == b.Title {
			return false, nil
		}
	}

	book := &model.Book{Title: b.Title, Author: b.Author, Price: b.Price, Amount: b.Amount}
	if b.Category != "" {
		id, ok := categoryIDs[b.Category]
		if !ok {
			return false, fmt.Errorf("book %q: unknown category %q", b.Title, b.Category)
		}
		book.CategoryID = &id
	}
	if err := tx.Books().Create(ctx, book); err != nil {
		return false, fmt.Errorf("create book %q: %w", b.Title, err)
	}
	return true, nil
}

func ensureUser(ctx context.Context, tx repository.Store, u UserData) (bool, error) {
	existing, err := tx.Users().FindByName(ctx, u.Name)
	if err != nil {
		return false, fmt.Errorf("find user %q: %w", u.Name, err)
	}
	if len(existing) > 0 {
		return false, nil
	}

	hash, err := auth.HashPassword(u.Password)
	if err != nil {
		return false, fmt.Errorf("hash password for %q: %w", u.Name, err)
	}
	user := &model.User{Name: u.Name, PasswordHash: hash, IsActive: true, IsAdmin: u.Admin}
	if err := tx.Users().Create(ctx, user); err != nil {
		return false, fmt.Errorf("create user %q: %w", u.Name, err)
	}
	return true, nil
}
