package persistence

import (
	"errors"

	"github.com/google/uuid"
	"github.com/multimart/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// notFoundOr maps gorm.ErrRecordNotFound to a NOT_FOUND domain error carrying
// message and passes every other error through
func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(message)
	}
	return err
}

// duplicateOr maps a unique constraint violation to ALREADY_EXISTS. It relies
// on the connection being opened with TranslateError.
func duplicateOr(err error, message string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.WrapDomainError("ALREADY_EXISTS", message, err)
	}
	return err
}

func conflict(resource string) error {
	return shared.NewDomainError("CONCURRENT_MODIFICATION", "The "+resource+" has been modified by another request, please retry")
}

// currentVersion reads the stored version of an aggregate row
func currentVersion(tx *gorm.DB, model any, id uuid.UUID, notFound string) (int, error) {
	var versions []int
	if err := tx.Model(model).Where("id = ?", id).Pluck("version", &versions).Error; err != nil {
		return 0, err
	}
	if len(versions) == 0 {
		return 0, shared.NotFound(notFound)
	}
	return versions[0], nil
}
