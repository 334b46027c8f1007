package templates

import (
	"fmt"
	"strconv"
	"time"

	"github.com/oksasatya/adcart-backend/config"
)

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		d.Time = t.UTC().Format("02 January 2006, 15:04")
	}
}

// OrderLine describes the ordered item.
type OrderLine struct {
	OrderNumber int64
	ProductName string
	ImageURL    string
	Quantity    int
	Total       float64
}

// Delivery is the address the order ships to.
type Delivery struct {
	Label      string
	City       string
	State      string
	PostalCode string
	MobileNo   string
}

func WithOrder(o OrderLine) Option {
	return func(d *EmailData) {
		d.OrderNo = strconv.FormatInt(o.OrderNumber, 10)
		d.ProductName = o.ProductName
		d.ImageURL = o.ImageURL
		d.Quantity = o.Quantity
		d.Total = o.Total
		d.TotalText = fmt.Sprintf("%.2f", o.Total)
	}
}

func WithDelivery(a Delivery) Option {
	return func(d *EmailData) {
		d.AddressLabel = a.Label
		d.City = a.City
		d.State = a.State
		d.PostalCode = a.PostalCode
		d.MobileNo = a.MobileNo
	}
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ string, name, email, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: recipient,
		Type:           typ,
	}
	if cfg != nil {
		d.CompanyName = cfg.CompanyName
		d.CompanyAddress = cfg.CompanyAddress
		d.AppName = cfg.AppName
		d.LogoURL = cfg.LogoURL
		d.SupportURL = cfg.SupportURL
		d.PrivacyURL = cfg.PrivacyURL
		d.UnsubscribeURL = cfg.UnsubscribeURL
		d.OrdersURL = cfg.OrdersURL
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewOrderConfirmationData(cfg *config.Config, name, email string, opts ...Option) map[string]any {
	d := NewBaseEmailData(cfg, OrderConfirmation, name, email, email, opts...)
	return ToMap(d)
}
