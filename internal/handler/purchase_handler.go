package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"webshop/internal/service"
)

// PurchaseHandler handles purchase endpoints.
type PurchaseHandler struct {
	purchaseService service.PurchaseService
}

// NewPurchaseHandler creates a new purchase handler.
func NewPurchaseHandler(purchaseService service.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService}
}

// BuyBook godoc
// @Summary Buy one copy of a book
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Param id path int true "Book ID"
// @Success 201 {object} model.SoldBook
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /books/{id}/purchase [post]
func (h *PurchaseHandler) BuyBook(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	bookID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	sale, err := h.purchaseService.BuyBook(c.Request().Context(), userID, bookID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusCreated, sale)
}

// ListPurchases godoc
// @Summary List the caller's purchases
// @Tags purchases
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.SoldBook
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /me/purchases [get]
func (h *PurchaseHandler) ListPurchases(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sales, err := h.purchaseService.ListPurchases(c.Request().Context(), userID)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, sales)
}
