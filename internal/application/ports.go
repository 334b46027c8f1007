package application

import (
	"context"
	"time"

	"github.com/oksasatya/adcart-backend/internal/domain/entity"
)

// ObjectStore uploads a fully buffered object and returns its public URL.
type ObjectStore interface {
	Upload(ctx context.Context, data []byte, name, contentType string) (string, error)
}

// OrderNotifier delivers an order confirmation. Delivery is advisory: a
// failure never affects the order.
type OrderNotifier interface {
	OrderPlaced(ctx context.Context, c OrderConfirmation) error
}

// OrderConfirmation is everything the confirmation message needs.
type OrderConfirmation struct {
	To          string
	Name        string
	OrderNumber int64
	ProductName string
	ImageURL    string
	Total       float64
	Quantity    int
	Address     entity.DeliveryAddress
	PlacedAt    time.Time
}
