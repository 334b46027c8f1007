package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
)

var (
	// ErrNotFound is returned when the addressed document does not exist.
	ErrNotFound = errors.New("not found")
	// ErrElementNotFound is returned when the document exists but the
	// addressed embedded element does not.
	ErrElementNotFound = errors.New("element not found")
	// ErrDuplicate is returned when a uniqueness constraint would be violated.
	ErrDuplicate = errors.New("duplicate")
	// ErrVersionConflict is returned when an optimistic write lost a race.
	ErrVersionConflict = errors.New("version conflict")
)

// UserRepository persists users and mutates their embedded ledger with
// per-element atomic operations.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)

	// PushCartItem appends item unless the cart already references the same
	// ad (ErrDuplicate).
	PushCartItem(ctx context.Context, userID string, item entity.CartItem) (*entity.User, error)
	// PullCartItem removes any entry for adID. Absence is not an error.
	PullCartItem(ctx context.Context, userID, adID string) (*entity.User, error)

	PushAddress(ctx context.Context, userID string, a entity.Address) (*entity.User, error)
	UpdateAddress(ctx context.Context, userID, addressID string, patch entity.AddressPatch) (*entity.User, error)
	PullAddress(ctx context.Context, userID, addressID string) error

	// AppendOrder pushes order and writes spend in one update, provided the
	// stored ledger version still equals expectedVersion.
	AppendOrder(ctx context.Context, userID string, expectedVersion int64, order entity.Order, spend entity.SpendState) error
}
