package service

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// translate maps a missing row to the given domain error and wraps anything
// else as an infrastructure failure of op.
func translate(err error, notFound error, op string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
