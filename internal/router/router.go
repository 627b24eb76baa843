package router

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	"webshop/internal/auth"
	"webshop/internal/config"
	"webshop/internal/errors"
	"webshop/internal/handler"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Purchase *handler.PurchaseHandler
	Admin    *handler.AdminHandler
	Seed     *handler.SeedHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, cfg *config.Config, h Handlers, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) {
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login, loginRateLimiter(cfg))
	api.GET("/users/:id/ping", h.Auth.Ping)

	api.GET("/categories", h.Catalog.ListCategories)
	api.GET("/categories/:id/books", h.Catalog.ListBooksInCategory)
	api.GET("/categories/:id/books/available", h.Catalog.ListAvailableBooks)
	api.GET("/books", h.Catalog.SearchBooks)
	api.GET("/books/:id", h.Catalog.GetBook)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: jwtService.Secret(),
		ContextKey: handler.ContextKeyUser,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "missing or invalid token",
				Code:  "UNAUTHENTICATED",
			})
		},
	}), rejectRevoked(tokenStore))

	secured.POST("/auth/logout", h.Auth.Logout)

	secured.POST("/books/:id/purchase", h.Purchase.BuyBook)
	secured.GET("/me/purchases", h.Purchase.ListPurchases)

	// Admin routes; the service checks the caller's admin flag
	admin := secured.Group("/admin")
	admin.POST("/books", h.Admin.AddBook)
	admin.PUT("/books/:id", h.Admin.UpdateBook)
	admin.PUT("/books/:id/amount", h.Admin.SetAmount)
	admin.DELETE("/books/:id", h.Admin.DeleteBook)
	admin.PUT("/books/:id/category", h.Admin.SetCategory)
	admin.POST("/categories", h.Admin.AddCategory)
	admin.PUT("/categories/:id", h.Admin.UpdateCategory)
	admin.DELETE("/categories/:id", h.Admin.DeleteCategory)
	admin.GET("/users", h.Admin.ListUsers)
	admin.POST("/users", h.Admin.AddUser)
	admin.GET("/sales", h.Admin.ListSales)
	admin.POST("/seed", h.Seed.Seed)
}

// loginRateLimiter throttles login attempts per client IP.
func loginRateLimiter(cfg *config.Config) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
			Rate:      rate.Limit(cfg.LoginRate),
			Burst:     cfg.LoginBurst,
			ExpiresIn: 3 * time.Minute,
		}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many login attempts",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

// rejectRevoked refuses tokens that were revoked by a logout.
func rejectRevoked(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := handler.CurrentClaims(c)
			if err != nil {
				return err
			}
			revoked, err := tokenStore.IsAccessTokenRevoked(c.Request().Context(), claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, errors.ErrorResponse{
					Error: "token check failed",
					Code:  "INTERNAL_ERROR",
				})
			}
			if revoked {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: "token has been revoked",
					Code:  "TOKEN_REVOKED",
				})
			}
			return next(c)
		}
	}
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
