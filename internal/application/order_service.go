package application

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/domain/apperror"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	repo "github.com/oksasatya/adcart-backend/internal/domain/repository"
	"github.com/oksasatya/adcart-backend/pkg/metrics"
)

const (
	defaultOrderAttempts = 5
	orderNumberSpread    = 1000
	notifyTimeout        = 10 * time.Second
)

// OrderService places orders against a user's ledger.
type OrderService struct {
	Users    repo.UserRepository
	Ads      repo.AdRepository
	Notifier OrderNotifier
	Logger   *logrus.Logger
	Metrics  *metrics.Metrics

	// MaxAttempts bounds the re-read and recompute loop when a concurrent
	// write moved the ledger version.
	MaxAttempts  int
	Now          func() time.Time
	OrderNumbers func(time.Time) int64
}

func NewOrderService(users repo.UserRepository, ads repo.AdRepository, notifier OrderNotifier, logger *logrus.Logger, m *metrics.Metrics, maxAttempts int) *OrderService {
	return &OrderService{
		Users:        users,
		Ads:          ads,
		Notifier:     notifier,
		Logger:       logger,
		Metrics:      m,
		MaxAttempts:  maxAttempts,
		Now:          time.Now,
		OrderNumbers: NewOrderNumber,
	}
}

// NewOrderNumber returns unixMillis*1000 plus a random suffix in [0, 1000).
// The result stays below 2^53 so JSON clients read it exactly.
// Uniqueness is enforced by the store; a collision is retried by the caller.
func NewOrderNumber(now time.Time) int64 {
	n, err := rand.Int(rand.Reader, big.NewInt(orderNumberSpread))
	var suffix int64
	if err == nil {
		suffix = n.Int64()
	} else {
		suffix = int64(now.Nanosecond()/1000) % orderNumberSpread
	}
	return now.UnixMilli()*orderNumberSpread + suffix
}

type PlaceOrderInput struct {
	AdID     string
	Total    float64
	Quantity int
	Address  entity.Address
}

func (in *PlaceOrderInput) validate() error {
	in.AdID = strings.TrimSpace(in.AdID)
	in.Address.Normalize()
	switch {
	case in.AdID == "":
		return apperror.Validation("adId is required")
	case !(in.Total > 0):
		return apperror.Validation("total must be greater than 0")
	case in.Quantity < 1:
		return apperror.Validation("quantity must be at least 1")
	case !in.Address.Complete():
		return apperror.Validation("city, state, postalCode and mobileNo are required")
	}
	return nil
}

// PlaceOrder appends an order with a copy of the delivery address and
// charges total to the spend counters in the same store write. The
// confirmation is sent after the commit and its failure is only logged.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string, in PlaceOrderInput) (*entity.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	attempts := s.MaxAttempts
	if attempts <= 0 {
		attempts = defaultOrderAttempts
	}

	var (
		ad      *entity.Ad
		lastErr error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		u, err := s.Users.GetByID(ctx, userID)
		if err != nil {
			return nil, storeErr(err, ErrUserNotFound, "load user")
		}
		if ad == nil {
			if ad, err = s.Ads.GetByID(ctx, in.AdID); err != nil {
				return nil, storeErr(err, ErrAdNotFound, "load ad")
			}
		}

		now := s.clock()
		order := entity.Order{
			OrderNumber:     s.nextNumber(now),
			AdID:            ad.ID,
			Total:           in.Total,
			Quantity:        in.Quantity,
			OrderDate:       now,
			DeliveryAddress: in.Address.Snapshot(),
		}
		spend := entity.ApplySpend(u.Spend(), in.Total, now)

		err = s.Users.AppendOrder(ctx, u.ID, u.LedgerVersion, order, spend)
		switch {
		case err == nil:
			s.Metrics.OrderPlaced()
			s.notify(ctx, u, ad, order)
			return &order, nil
		case errors.Is(err, repo.ErrVersionConflict):
			s.Metrics.OrderConflict()
			lastErr = err
		case errors.Is(err, repo.ErrDuplicate):
			// order number collision; draw a new one
			lastErr = err
		default:
			return nil, storeErr(err, ErrUserNotFound, "append order")
		}
		if s.Logger != nil {
			s.Logger.WithError(lastErr).WithFields(logrus.Fields{"user_id": userID, "attempt": attempt}).Debug("order write retried")
		}
	}
	return nil, apperror.Internal("order could not be committed", lastErr)
}

func (s *OrderService) clock() time.Time {
	if s.Now == nil {
		return time.Now().UTC()
	}
	return s.Now().UTC()
}

func (s *OrderService) nextNumber(now time.Time) int64 {
	if s.OrderNumbers == nil {
		return NewOrderNumber(now)
	}
	return s.OrderNumbers(now)
}

func (s *OrderService) notify(ctx context.Context, u *entity.User, ad *entity.Ad, o entity.Order) {
	if s.Notifier == nil {
		return
	}
	// the order is committed; a client disconnect must not cancel the handoff
	nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	err := s.Notifier.OrderPlaced(nctx, OrderConfirmation{
		To:          u.Email,
		Name:        u.Name,
		OrderNumber: o.OrderNumber,
		ProductName: ad.ProductName,
		ImageURL:    ad.ImageURL,
		Total:       o.Total,
		Quantity:    o.Quantity,
		Address:     o.DeliveryAddress,
		PlacedAt:    o.OrderDate,
	})
	if err == nil {
		return
	}
	s.Metrics.NotificationFailed()
	if s.Logger != nil {
		s.Logger.WithError(err).WithFields(logrus.Fields{
			"user_id":  u.ID,
			"order_no": o.OrderNumber,
		}).Warn("order confirmation not sent")
	}
}
