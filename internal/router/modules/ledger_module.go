package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/adcart-backend/internal/interface/http"
)

// LedgerModule exposes the caller's cart, address book, orders and profile.
// Every route requires an access token.
type LedgerModule struct {
	Handler *handlers.LedgerHandler
}

func NewLedgerModule(h *handlers.LedgerHandler) *LedgerModule {
	return &LedgerModule{Handler: h}
}

func (m *LedgerModule) Register(rg *gin.RouterGroup) {
	auth := authed(rg)
	{
		auth.POST("/cart/:adId", m.Handler.AddToCart)
		auth.GET("/cart", m.Handler.GetCart)
		auth.POST("/remove-from-cart", m.Handler.RemoveFromCart)

		auth.GET("/addresses", m.Handler.ListAddresses)
		auth.POST("/addresses", m.Handler.AddAddress)
		auth.PUT("/addresses/:addressId", m.Handler.UpdateAddress)
		auth.DELETE("/addresses/:addressId", m.Handler.DeleteAddress)

		auth.POST("/orders", m.Handler.PlaceOrder)
		auth.GET("/orders", m.Handler.ListOrders)
		auth.GET("/profile", m.Handler.GetProfile)
	}
}
