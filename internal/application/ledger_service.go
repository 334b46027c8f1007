package application

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	repo "github.com/oksasatya/adcart-backend/internal/domain/repository"
)

// LedgerService owns the per-user cart, address book and order history reads.
// Every write is a single atomic store operation on one user document.
type LedgerService struct {
	Users  repo.UserRepository
	Ads    repo.AdRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewLedgerService(users repo.UserRepository, ads repo.AdRepository, logger *logrus.Logger) *LedgerService {
	return &LedgerService{Users: users, Ads: ads, Logger: logger, Now: time.Now}
}

// CartLine is a cart entry with its ad resolved. Ad is nil when the ad has
// since been deleted.
type CartLine struct {
	AdID     string            `json:"adId"`
	AddedAt  time.Time         `json:"addedAt"`
	Price    float64           `json:"price"`
	Quantity int               `json:"quantity"`
	Ad       *entity.AdSummary `json:"ad"`
}

func (s *LedgerService) now() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

// AddToCart snapshots the ad's current price into a new cart entry. An ad
// already in the cart is a conflict; quantities are never merged.
func (s *LedgerService) AddToCart(ctx context.Context, userID, adID string, quantity int) ([]CartLine, error) {
	adID = strings.TrimSpace(adID)
	if adID == "" {
		return nil, apperror.Validation("adId is required")
	}
	if quantity < 1 {
		return nil, apperror.Validation("quantity must be at least 1")
	}

	ad, err := s.Ads.GetByID(ctx, adID)
	if err != nil {
		return nil, storeErr(err, ErrAdNotFound, "load ad")
	}

	item := entity.CartItem{AdID: ad.ID, AddedAt: s.now(), Price: ad.Price, Quantity: quantity}
	u, err := s.Users.PushCartItem(ctx, userID, item)
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return nil, ErrAlreadyInCart
	case err != nil:
		return nil, storeErr(err, ErrUserNotFound, "add cart item")
	}
	return s.resolveCart(ctx, u.Cart)
}

// RemoveFromCart drops every entry for adID. Removing an ad that is not in
// the cart succeeds and leaves the cart unchanged.
func (s *LedgerService) RemoveFromCart(ctx context.Context, userID, adID string) ([]CartLine, error) {
	adID = strings.TrimSpace(adID)
	if adID == "" {
		return nil, apperror.Validation("adId is required")
	}
	u, err := s.Users.PullCartItem(ctx, userID, adID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "remove cart item")
	}
	return s.resolveCart(ctx, u.Cart)
}

func (s *LedgerService) GetCart(ctx context.Context, userID string) ([]CartLine, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "load user")
	}
	return s.resolveCart(ctx, u.Cart)
}

func (s *LedgerService) resolveCart(ctx context.Context, items []entity.CartItem) ([]CartLine, error) {
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.AdID)
	}
	sums, err := s.Ads.Summaries(ctx, ids)
	if err != nil {
		return nil, apperror.Internal("resolve cart", err)
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		line := CartLine{AdID: it.AdID, AddedAt: it.AddedAt, Price: it.Price, Quantity: it.Quantity}
		if sum, ok := sums[it.AdID]; ok {
			line.Ad = &sum
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func (s *LedgerService) ListAddresses(ctx context.Context, userID string) ([]entity.Address, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "load user")
	}
	return addressBook(u), nil
}

func addressBook(u *entity.User) []entity.Address {
	if u.Address == nil {
		return []entity.Address{}
	}
	return u.Address
}

// AddAddress appends a with a fresh id and returns the address book.
func (s *LedgerService) AddAddress(ctx context.Context, userID string, a entity.Address) ([]entity.Address, error) {
	a.Normalize()
	if !a.Complete() {
		return nil, apperror.Validation("city, state, postalCode and mobileNo are required")
	}
	a.ID = uuid.NewString()

	u, err := s.Users.PushAddress(ctx, userID, a)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "add address")
	}
	return addressBook(u), nil
}

// UpdateAddress changes only the supplied fields and returns the address
// book. Clearing a required location field is rejected.
func (s *LedgerService) UpdateAddress(ctx context.Context, userID, addressID string, patch entity.AddressPatch) ([]entity.Address, error) {
	if patch.Normalize() {
		return nil, apperror.Validation("city, state, postalCode and mobileNo cannot be blank")
	}
	u, err := s.Users.UpdateAddress(ctx, userID, addressID, patch)
	if err != nil {
		return nil, addressErr(err, "update address")
	}
	return addressBook(u), nil
}

func (s *LedgerService) DeleteAddress(ctx context.Context, userID, addressID string) error {
	if err := s.Users.PullAddress(ctx, userID, addressID); err != nil {
		return addressErr(err, "delete address")
	}
	return nil
}

func addressErr(err error, msg string) error {
	if errors.Is(err, repo.ErrElementNotFound) {
		return ErrAddressNotFound
	}
	return storeErr(err, ErrUserNotFound, msg)
}

func (s *LedgerService) GetProfile(ctx context.Context, userID string) (*entity.Profile, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "load user")
	}
	p := u.Profile()
	return &p, nil
}

// ListOrders returns the order history, newest first.
func (s *LedgerService) ListOrders(ctx context.Context, userID string) ([]entity.Order, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, storeErr(err, ErrUserNotFound, "load user")
	}
	out := make([]entity.Order, len(u.Orders))
	copy(out, u.Orders)
	sort.SliceStable(out, func(i, j int) bool { return out[i].OrderDate.After(out[j].OrderDate) })
	return out, nil
}
