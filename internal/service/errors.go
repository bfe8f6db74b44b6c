package service

import (
	"errors"

	"github.com/cforclown/school-admin/internal/repository"
	apperrors "github.com/cforclown/school-admin/pkg/util"
)

// lookupError maps a miss on a direct read to 404.
func lookupError(resource, id string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}

// writeLookupError maps a miss during update or delete to 400, which is what
// existing clients expect from write routes.
func writeLookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFoundOnWrite(resource)
	}
	return err
}
