package service

import (
	"errors"

	"socialfeed/internal/models"

	"gorm.io/gorm"
)

// storeError converts a repository error into an AppError. AppErrors pass through.
func storeError(err error, resource string) error {
	if err == nil {
		return nil
	}
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource)
	}
	return models.NewInternalError(err)
}
