package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/adcart-backend/internal/application"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/pkg/response"
)

// Ledger is the per-user cart, address book and history surface.
type Ledger interface {
	AddToCart(ctx context.Context, userID, adID string, quantity int) ([]application.CartLine, error)
	RemoveFromCart(ctx context.Context, userID, adID string) ([]application.CartLine, error)
	GetCart(ctx context.Context, userID string) ([]application.CartLine, error)
	ListAddresses(ctx context.Context, userID string) ([]entity.Address, error)
	AddAddress(ctx context.Context, userID string, a entity.Address) ([]entity.Address, error)
	UpdateAddress(ctx context.Context, userID, addressID string, patch entity.AddressPatch) ([]entity.Address, error)
	DeleteAddress(ctx context.Context, userID, addressID string) error
	GetProfile(ctx context.Context, userID string) (*entity.Profile, error)
	ListOrders(ctx context.Context, userID string) ([]entity.Order, error)
}

// Orders places orders.
type Orders interface {
	PlaceOrder(ctx context.Context, userID string, in application.PlaceOrderInput) (*entity.Order, error)
}

type LedgerHandler struct {
	Ledger Ledger
	Orders Orders
	Logger *logrus.Logger
}

func NewLedgerHandler(ledger Ledger, orders Orders, logger *logrus.Logger) *LedgerHandler {
	return &LedgerHandler{Ledger: ledger, Orders: orders, Logger: logger}
}

type addToCartRequest struct {
	Quantity *int `json:"quantity"`
}

type removeFromCartRequest struct {
	AdID string `json:"adId" binding:"required"`
}

type addressRequest struct {
	Label      string `json:"label"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	MobileNo   string `json:"mobileNo"`
}

func (r addressRequest) entity() entity.Address {
	return entity.Address{Label: r.Label, City: r.City, State: r.State, PostalCode: r.PostalCode, MobileNo: r.MobileNo}
}

type addressPatchRequest struct {
	Label      *string `json:"label"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postalCode"`
	MobileNo   *string `json:"mobileNo"`
}

type placeOrderRequest struct {
	AdID     string          `json:"adId"`
	Total    float64         `json:"total"`
	Quantity int             `json:"quantity"`
	Address  *addressRequest `json:"address"`
}

type orderCreated struct {
	OrderNo int64 `json:"orderNo"`
}

// bindOptionalJSON binds the body when there is one.
func bindOptionalJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := c.ShouldBindJSON(dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *LedgerHandler) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := bindOptionalJSON(c, &req); err != nil {
		badRequest(c, err)
		return
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	cart, err := h.Ledger.AddToCart(c.Request.Context(), callerID(c), c.Param("adId"), qty)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "added to cart", nil)
}

func (h *LedgerHandler) RemoveFromCart(c *gin.Context) {
	var req removeFromCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	cart, err := h.Ledger.RemoveFromCart(c.Request.Context(), callerID(c), req.AdID)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "removed from cart", nil)
}

func (h *LedgerHandler) GetCart(c *gin.Context) {
	cart, err := h.Ledger.GetCart(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, cart, "ok", nil)
}

func (h *LedgerHandler) ListAddresses(c *gin.Context) {
	list, err := h.Ledger.ListAddresses(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "ok", nil)
}

func (h *LedgerHandler) AddAddress(c *gin.Context) {
	var req addressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	list, err := h.Ledger.AddAddress(c.Request.Context(), callerID(c), req.entity())
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, list, "address added", nil)
}

func (h *LedgerHandler) UpdateAddress(c *gin.Context) {
	var req addressPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	patch := entity.AddressPatch{
		Label:      req.Label,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		MobileNo:   req.MobileNo,
	}
	list, err := h.Ledger.UpdateAddress(c.Request.Context(), callerID(c), c.Param("addressId"), patch)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, list, "address updated", nil)
}

func (h *LedgerHandler) DeleteAddress(c *gin.Context) {
	if err := h.Ledger.DeleteAddress(c.Request.Context(), callerID(c), c.Param("addressId")); err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "address deleted", nil)
}

func (h *LedgerHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := application.PlaceOrderInput{AdID: req.AdID, Total: req.Total, Quantity: req.Quantity}
	if req.Address != nil {
		in.Address = req.Address.entity()
	}
	order, err := h.Orders.PlaceOrder(c.Request.Context(), callerID(c), in)
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusCreated, orderCreated{OrderNo: order.OrderNumber}, "order placed", nil)
}

func (h *LedgerHandler) ListOrders(c *gin.Context) {
	orders, err := h.Ledger.ListOrders(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, orders, "ok", nil)
}

func (h *LedgerHandler) GetProfile(c *gin.Context) {
	p, err := h.Ledger.GetProfile(c.Request.Context(), callerID(c))
	if err != nil {
		fail(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, p, "ok", nil)
}
