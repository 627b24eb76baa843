package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	apperrors "webshop/internal/errors"
	"webshop/internal/repository"
	"webshop/internal/seed"
	"webshop/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	adminService service.AdminService
	store        repository.Store
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(adminService service.AdminService, store repository.Store) *SeedHandler {
	return &SeedHandler{adminService: adminService, store: store}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string       `json:"message"`
	Created *seed.Result `json:"created"`
}

// Seed godoc
// @Summary Seed the catalog
// @Description Inserts the built-in catalog, or the catalog in the request body, skipping rows that already exist
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body seed.Data false "Catalog to seed"
// @Success 200 {object} SeedResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/seed [post]
func (h *SeedHandler) Seed(c echo.Context) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	isAdmin, err := h.adminService.IsAdmin(ctx, adminID)
	if err != nil {
		return fail(err)
	}
	if !isAdmin {
		return fail(apperrors.ErrUnauthorized)
	}

	var data *seed.Data
	if c.Request().ContentLength > 0 {
		data, err = seed.Load(c.Request().Body)
		if err != nil {
			return badRequest(err.Error(), "INVALID_REQUEST")
		}
	} else if data, err = seed.Default(); err != nil {
		return fail(err)
	}

	result, err := seed.Run(ctx, h.store, data)
	if err != nil {
		return fail(err)
	}
	return c.JSON(http.StatusOK, SeedResponse{
		Message: "Catalog seeded successfully",
		Created: result,
	})
}
