package repository

import (
	"errors"

	repo "pizzeria/internal/repository"

	"gorm.io/gorm"
)

// translate maps gorm sentinel errors onto repository ones.
// Duplicate detection needs gorm.Config{TranslateError: true}.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return repo.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return repo.ErrDuplicate
	default:
		return err
	}
}

func affectedOrNotFound(res *gorm.DB) error {
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
