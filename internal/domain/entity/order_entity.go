package entity

import "time"

// Order is an entry in a user's order history. DeliveryAddress is a copy
// taken when the order was placed.
type Order struct {
	OrderNumber     int64           `bson:"orderNumber" json:"orderNo"`
	AdID            string          `bson:"ad" json:"ad"`
	Total           float64         `bson:"total" json:"total"`
	Quantity        int             `bson:"quantity" json:"quantity"`
	OrderDate       time.Time       `bson:"orderDate" json:"orderDate"`
	DeliveryAddress DeliveryAddress `bson:"deliveryAddress" json:"deliveryAddress"`
}

// DeliveryAddress is the snapshotted address stored on an order.
type DeliveryAddress struct {
	Label      string `bson:"label,omitempty" json:"label,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postalCode" json:"postalCode"`
	MobileNo   string `bson:"mobileNo" json:"mobileNo"`
}
