package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"not found", ErrBookNotFound, KindNotFound},
		{"wrapped not found", fmt.Errorf("buy book: %w", ErrUserNotFound), KindNotFound},
		{"unauthorized", ErrUnauthorized, KindUnauthorized},
		{"validation", ErrDuplicateCategory, KindValidation},
		{"integrity", ErrOutOfStock, KindIntegrity},
		{"storage failure", errors.New("connection refused"), KindInfrastructure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsMatchesWrappedSentinels(t *testing.T) {
	err := fmt.Errorf("delete category 3: %w", ErrCategoryInUse)
	assert.True(t, Is(err, ErrCategoryInUse))
	assert.False(t, Is(err, ErrCategoryNotFound))
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{ErrBookNotFound, http.StatusNotFound, "BOOK_NOT_FOUND"},
		{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{ErrUnauthorized, http.StatusForbidden, "UNAUTHORIZED"},
		{fmt.Errorf("register: %w", ErrPasswordMismatch), http.StatusBadRequest, "PASSWORD_MISMATCH"},
		{ErrOutOfStock, http.StatusConflict, "OUT_OF_STOCK"},
		{errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}
