package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"webshop/internal/model"
	"webshop/internal/service"
)

// CatalogHandler serves the public book and category listings.
type CatalogHandler struct {
	catalogService service.CatalogService
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// ListCategories godoc
// @Summary List or search categories
// @Tags catalog
// @Produce json
// @Param q query string false "Name keyword"
// @Success 200 {array} model.BookCategory
// @Failure 500 {object} errors.ErrorResponse
// @Router /categories [get]
func (h *CatalogHandler) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		categories []model.BookCategory
		err        error
	)
	if q := c.QueryParam("q"); q != "" {
		categories, err = h.catalogService.SearchCategories(ctx, q)
	} else {
		categories, err = h.catalogService.ListCategories(ctx)
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, categories)
}

// ListBooksInCategory godoc
// @Summary List the books of a category
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id}/books [get]
func (h *CatalogHandler) ListBooksInCategory(c echo.Context) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	books, err := h.catalogService.ListBooksInCategory(c.Request().Context(), categoryID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, books)
}

// ListAvailableBooks godoc
// @Summary List the in-stock books of a category
// @Tags catalog
// @Produce json
// @Param id path int true "Category ID"
// @Success 200 {array} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /categories/{id}/books/available [get]
func (h *CatalogHandler) ListAvailableBooks(c echo.Context) error {
	categoryID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	books, err := h.catalogService.ListAvailableBooks(c.Request().Context(), categoryID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, books)
}

// SearchBooks godoc
// @Summary Search books by title or author
// @Tags catalog
// @Produce json
// @Param title query string false "Title keyword"
// @Param author query string false "Author keyword"
// @Success 200 {array} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Router /books [get]
func (h *CatalogHandler) SearchBooks(c echo.Context) error {
	ctx := c.Request().Context()
	title, author := c.QueryParam("title"), c.QueryParam("author")

	var (
		books []model.Book
		err   error
	)
	switch {
	case title != "" && author != "":
		return badRequest("use either title or author", "INVALID_QUERY")
	case author != "":
		books, err = h.catalogService.SearchBooksByAuthor(ctx, author)
	default:
		// An empty title keyword matches every book.
		books, err = h.catalogService.SearchBooksByTitle(ctx, title)
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, books)
}

// GetBook godoc
// @Summary Get a book
// @Tags catalog
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /books/{id} [get]
func (h *CatalogHandler) GetBook(c echo.Context) error {
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	book, err := h.catalogService.GetBook(c.Request().Context(), bookID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}
