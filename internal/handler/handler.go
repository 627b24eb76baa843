package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"webshop/internal/auth"
	"webshop/internal/errors"
)

// ContextKeyUser is where the JWT middleware stores the parsed token.
const ContextKeyUser = "user"

// fail converts a service error into an HTTP error with a stable code.
func fail(err error) *echo.HTTPError {
	httpErr := errors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(message, code string) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// bindAndValidate decodes the request body into req and validates it.
func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(req); err != nil {
		return badRequest(err.Error(), "VALIDATION_ERROR")
	}
	return nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("invalid "+name, "INVALID_ID")
	}
	return uint(id), nil
}

// CurrentClaims returns the claims of the authenticated caller.
func CurrentClaims(c echo.Context) (*auth.Claims, error) {
	token, ok := c.Get(ContextKeyUser).(*jwt.Token)
	if !ok {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "missing token",
			Code:  "UNAUTHENTICATED",
		})
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.UserID == 0 {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "invalid token claims",
			Code:  "UNAUTHENTICATED",
		})
	}
	return claims, nil
}

func currentUserID(c echo.Context) (uint, error) {
	claims, err := CurrentClaims(c)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}
