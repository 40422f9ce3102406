package usecases

import (
	"errors"

	"chat-api/apperrors"

	"gorm.io/gorm"
)

// orNotFound converts a gorm lookup error into the domain sentinel, wrapping
// anything else as internal.
func orNotFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return apperrors.Wrap(apperrors.CodeInternal, "database error", err)
}
