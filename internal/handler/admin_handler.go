package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"webshop/internal/model"
	"webshop/internal/service"
)

// AdminHandler exposes the administrator operations. Authorization is
// enforced by the service for the authenticated caller.
type AdminHandler struct {
	adminService service.AdminService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// AddBookRequest adds stock to the book with this id and exact title, or
// creates a new book.
type AddBookRequest struct {
	ID     uint   `json:"id"`
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	Price  int    `json:"price"`
	Amount int    `json:"amount"`
}

// UpdateBookRequest overwrites the descriptive fields of a book.
type UpdateBookRequest struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author"`
	Price  int    `json:"price"`
}

// SetAmountRequest overwrites the stock of a book.
type SetAmountRequest struct {
	Amount *int `json:"amount" validate:"required"`
}

// SetCategoryRequest moves a book into a category.
type SetCategoryRequest struct {
	CategoryID uint `json:"category_id" validate:"required"`
}

// CategoryRequest names a category.
type CategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// AddUserRequest creates a customer account.
type AddUserRequest struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AddBook godoc
// @Summary Add a book or restock it
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddBookRequest true "Book"
// @Success 201 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/books [post]
func (h *AdminHandler) AddBook(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req AddBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.adminService.AddBook(c.Request().Context(), adminID, req.ID, req.Title, req.Author, req.Price, req.Amount)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, book)
}

// UpdateBook godoc
// @Summary Update a book
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body UpdateBookRequest true "Book fields"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/books/{id} [put]
func (h *AdminHandler) UpdateBook(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req UpdateBookRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.adminService.UpdateBook(c.Request().Context(), adminID, bookID, req.Title, req.Author, req.Price)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}

// SetAmount godoc
// @Summary Overwrite the stock of a book
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body SetAmountRequest true "Stock"
// @Success 200 {object} model.Book
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/books/{id}/amount [put]
func (h *AdminHandler) SetAmount(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req SetAmountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.adminService.SetAmount(c.Request().Context(), adminID, bookID, *req.Amount)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}

// DeleteBook godoc
// @Summary Delete a book
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/books/{id} [delete]
func (h *AdminHandler) DeleteBook(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.adminService.DeleteBook(c.Request().Context(), adminID, bookID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// SetCategory godoc
// @Summary Move a book into a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Param request body SetCategoryRequest true "Category"
// @Success 200 {object} model.Book
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/books/{id}/category [put]
func (h *AdminHandler) SetCategory(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req SetCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := h.adminService.AddBookToCategory(c.Request().Context(), adminID, bookID, req.CategoryID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, book)
}

// AddCategory godoc
// @Summary Create a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category"
// @Success 201 {object} model.BookCategory
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/categories [post]
func (h *AdminHandler) AddCategory(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.adminService.AddCategory(c.Request().Context(), adminID, req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, category)
}

// UpdateCategory godoc
// @Summary Rename a category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Category"
// @Success 200 {object} model.BookCategory
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /admin/categories/{id} [put]
func (h *AdminHandler) UpdateCategory(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	categoryID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req CategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := h.adminService.UpdateCategory(c.Request().Context(), adminID, categoryID, req.Name)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, category)
}

// DeleteCategory godoc
// @Summary Delete an unused category
// @Tags admin
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 204
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /admin/categories/{id} [delete]
func (h *AdminHandler) DeleteCategory(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	categoryID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.adminService.DeleteCategory(c.Request().Context(), adminID, categoryID); err != nil {
		return fail(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// ListUsers godoc
// @Summary List or search users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param q query string false "Name keyword"
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var users []model.User
	if q := c.QueryParam("q"); q != "" {
		users, err = h.adminService.FindUser(ctx, adminID, q)
	} else {
		users, err = h.adminService.ListUsers(ctx, adminID)
	}
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, users)
}

// AddUser godoc
// @Summary Create a customer account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body AddUserRequest true "User"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/users [post]
func (h *AdminHandler) AddUser(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req AddUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.adminService.AddUser(c.Request().Context(), adminID, req.Name, req.Password)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, user)
}

// ListSales godoc
// @Summary List every sale, newest first
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.SoldBook
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/sales [get]
func (h *AdminHandler) ListSales(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sales, err := h.adminService.ListSales(c.Request().Context(), adminID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, sales)
}
