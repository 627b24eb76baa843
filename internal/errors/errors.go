package errors

import (
	"errors"
	"net/http"
)

// Kind classifies an error for callers that need to react to it.
type Kind string

const (
	KindNotFound       Kind = "not_found"
	KindUnauthorized   Kind = "unauthorized"
	KindValidation     Kind = "validation"
	KindIntegrity      Kind = "integrity"
	KindInfrastructure Kind = "infrastructure"
)

// DomainError is an expected business failure. Sentinels below are compared
// by identity, so wrap them with fmt.Errorf("...: %w", err) when adding context.
type DomainError struct {
	Kind    Kind
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

var (
	// ErrUserNotFound is returned when no user has the requested id.
	ErrUserNotFound = &DomainError{Kind: KindNotFound, Code: "USER_NOT_FOUND", Message: "user not found"}
	// ErrBookNotFound is returned when no book has the requested id.
	ErrBookNotFound = &DomainError{Kind: KindNotFound, Code: "BOOK_NOT_FOUND", Message: "book not found"}
	// ErrCategoryNotFound is returned when no category has the requested id.
	ErrCategoryNotFound = &DomainError{Kind: KindNotFound, Code: "CATEGORY_NOT_FOUND", Message: "category not found"}
	// ErrInvalidCredentials is returned when name and password match no user.
	ErrInvalidCredentials = &DomainError{Kind: KindNotFound, Code: "INVALID_CREDENTIALS", Message: "invalid name or password"}

	// ErrUnauthorized is returned when the acting user is not an administrator.
	ErrUnauthorized = &DomainError{Kind: KindUnauthorized, Code: "UNAUTHORIZED", Message: "administrator rights required"}

	// ErrPasswordMismatch is returned when a registration's passwords differ.
	ErrPasswordMismatch = &DomainError{Kind: KindValidation, Code: "PASSWORD_MISMATCH", Message: "passwords do not match"}
	// ErrDuplicateCategory is returned when a category name is already taken.
	ErrDuplicateCategory = &DomainError{Kind: KindValidation, Code: "DUPLICATE_CATEGORY", Message: "category already exists"}
	// ErrInvalidAmount is returned for a negative stock amount.
	ErrInvalidAmount = &DomainError{Kind: KindValidation, Code: "INVALID_AMOUNT", Message: "amount must not be negative"}
	// ErrInvalidPrice is returned for a negative price.
	ErrInvalidPrice = &DomainError{Kind: KindValidation, Code: "INVALID_PRICE", Message: "price must not be negative"}
	// ErrInvalidInput is returned when a required text field is empty.
	ErrInvalidInput = &DomainError{Kind: KindValidation, Code: "INVALID_INPUT", Message: "required field is empty"}

	// ErrOutOfStock is returned when a book has no copies left to sell.
	ErrOutOfStock = &DomainError{Kind: KindIntegrity, Code: "OUT_OF_STOCK", Message: "book is out of stock"}
	// ErrCategoryInUse is returned when deleting a category that books still reference.
	ErrCategoryInUse = &DomainError{Kind: KindIntegrity, Code: "CATEGORY_IN_USE", Message: "category still has books"}
)

// KindOf returns the kind of err. Errors that are not domain errors are
// infrastructure failures. A nil error has no kind.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return KindInfrastructure
}

// Is reports whether err is, or wraps, target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
	switch domainErr.Kind {
	case KindNotFound:
		if domainErr == ErrInvalidCredentials {
			return NewHTTPError(http.StatusUnauthorized, domainErr.Message, domainErr.Code)
		}
		return NewHTTPError(http.StatusNotFound, domainErr.Message, domainErr.Code)
	case KindUnauthorized:
		return NewHTTPError(http.StatusForbidden, domainErr.Message, domainErr.Code)
	case KindValidation:
		return NewHTTPError(http.StatusBadRequest, domainErr.Message, domainErr.Code)
	case KindIntegrity:
		return NewHTTPError(http.StatusConflict, domainErr.Message, domainErr.Code)
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
