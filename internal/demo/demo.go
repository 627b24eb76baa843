// Package demo replays the walkthrough scenarios of the console shop against
// a seeded database.
package demo

import (
	"context"
	"fmt"
	"io"

	apperrors "webshop/internal/errors"
	"webshop/internal/model"
	"webshop/internal/service"
)

const (
	customerName  = "Codic2021"
	adminName     = "CodicRulez"
	demoPassword  = "Codic2021"
	demoCategory  = "Test category"
	demoBookTitle = "Doctor Sleep"
)

// Runner prints each scenario step to out.
type Runner struct {
	shop *service.Shop
	out  io.Writer
}

// NewRunner creates a runner over shop.
func NewRunner(shop *service.Shop, out io.Writer) *Runner {
	return &Runner{shop: shop, out: out}
}

// Scenarios lists the scenario numbers Run accepts.
var Scenarios = []int{1, 2, 3}

// Run plays scenario n. Failing steps are reported and the scenario goes
// on; only a failed login or lookup of seeded data aborts it.
func (r *Runner) Run(ctx context.Context, n int) error {
	switch n {
	case 1:
		return r.browseAndBuy(ctx)
	case 2:
		return r.createCategoryAndMoveBook(ctx)
	case 3:
		return r.addUser(ctx)
	default:
		return fmt.Errorf("unknown scenario %d", n)
	}
}

func (r *Runner) browseAndBuy(ctx context.Context) error {
	user, err := r.login(ctx, customerName, "test user")
	if err != nil {
		return err
	}
	defer r.shop.Logout(ctx, user.ID)

	r.step("List all categories")
	categories, err := r.shop.ListCategories(ctx)
	if err != nil {
		r.fail(err)
	}
	for _, c := range categories {
		r.line(c.Name)
	}

	r.step("List horror books")
	horror, err := r.categoryByName(ctx, "Horror")
	if err != nil {
		return err
	}
	books, err := r.shop.ListBooksInCategory(ctx, horror.ID)
	if err != nil {
		r.fail(err)
	}
	for _, b := range books {
		r.line(b.Title)
	}

	for _, keyword := range []string{"DrSleep", "Sleep"} {
		r.step("List books containing " + keyword)
		matches, err := r.shop.SearchBooksByTitle(ctx, keyword)
		if err != nil {
			r.fail(err)
		}
		for _, b := range matches {
			r.line(b.Title)
		}
	}

	book, err := r.bookByTitle(ctx, demoBookTitle)
	if err != nil {
		return err
	}
	r.showAmount(ctx, book.ID)

	r.step("Buy book")
	if _, err := r.shop.BuyBook(ctx, user.ID, book.ID); err != nil {
		r.fail(err)
	} else {
		r.line("Success")
	}

	r.showAmount(ctx, book.ID)
	return nil
}

func (r *Runner) createCategoryAndMoveBook(ctx context.Context) error {
	admin, err := r.login(ctx, adminName, "an admin")
	if err != nil {
		return err
	}
	defer r.shop.Logout(ctx, admin.ID)

	r.step("Create category")
	category, err := r.shop.AddCategory(ctx, admin.ID, demoCategory)
	switch {
	case err == nil:
		r.line("Category created")
	case apperrors.Is(err, apperrors.ErrDuplicateCategory):
		r.line("Category already exists")
		if category, err = r.categoryByName(ctx, demoCategory); err != nil {
			return err
		}
	default:
		r.fail(err)
		return nil
	}

	r.step("Move book to new category")
	book, err := r.bookByTitle(ctx, demoBookTitle)
	if err != nil {
		return err
	}
	if _, err := r.shop.AddBookToCategory(ctx, admin.ID, book.ID, category.ID); err != nil {
		r.fail(err)
	} else {
		r.line("Book moved")
	}
	return nil
}

func (r *Runner) addUser(ctx context.Context) error {
	admin, err := r.login(ctx, adminName, "an admin")
	if err != nil {
		return err
	}
	defer r.shop.Logout(ctx, admin.ID)

	r.step("Add user")
	user, err := r.shop.AddUser(ctx, admin.ID, "Test", "Test")
	if err != nil {
		r.fail(err)
		return nil
	}
	r.line(fmt.Sprintf("User %s created with id %d", user.Name, user.ID))
	return nil
}

func (r *Runner) login(ctx context.Context, name, role string) (*model.User, error) {
	r.step(fmt.Sprintf("Login as %s %s", role, name))
	user, err := r.shop.Login(ctx, name, demoPassword)
	if err != nil {
		r.fail(err)
		return nil, fmt.Errorf("login %s: %w", name, err)
	}
	r.line(fmt.Sprintf("You are logged in as %s %s", role, name))
	return user, nil
}

func (r *Runner) showAmount(ctx context.Context, bookID uint) {
	r.step(fmt.Sprintf("Get amount by id %d", bookID))
	book, err := r.shop.GetBook(ctx, bookID)
	if err != nil {
		r.fail(err)
		return
	}
	r.line(fmt.Sprintf("%s - %d copies", book.Title, book.Amount))
}

func (r *Runner) categoryByName(ctx context.Context, name string) (*model.BookCategory, error) {
	categories, err := r.shop.SearchCategories(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("find category %q: %w", name, err)
	}
	for i := range categories {
		if categories[i].Name == name {
			return &categories[i], nil
		}
	}
	return nil, fmt.Errorf("category %q: %w", name, apperrors.ErrCategoryNotFound)
}

func (r *Runner) bookByTitle(ctx context.Context, title string) (*model.Book, error) {
	books, err := r.shop.SearchBooksByTitle(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("find book %q: %w", title, err)
	}
	for i := range books {
		if books[i].Title == title {
			return &books[i], nil
		}
	}
	return nil, fmt.Errorf("book %q: %w", title, apperrors.ErrBookNotFound)
}

func (r *Runner) step(title string) {
	fmt.Fprintf(r.out, "\nTEST: %s\n\n", title)
}

func (r *Runner) line(s string) {
	fmt.Fprintln(r.out, s)
}

func (r *Runner) fail(err error) {
	fmt.Fprintf(r.out, "Error: %v\n", err)
}
