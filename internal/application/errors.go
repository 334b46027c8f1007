package application

import (
	"errors"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/repository"
)

var (
	ErrUserNotFound    = apperror.NotFound("user not found")
	ErrAdNotFound      = apperror.NotFound("ad not found")
	ErrAddressNotFound = apperror.NotFound("address not found")
	ErrAlreadyInCart   = apperror.Conflict("ad already in cart")
	ErrNotAdOwner      = apperror.Forbidden("not allowed to modify this ad")
)

// storeErr maps a repository failure to the boundary taxonomy. notFound is
// returned for repository.ErrNotFound; anything unknown becomes an internal
// error carrying msg.
func storeErr(err error, notFound *apperror.Error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound) && notFound != nil:
		return notFound
	default:
		return apperror.Internal(msg, err)
	}
}
