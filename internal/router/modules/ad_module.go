package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/adcart-backend/internal/interface/http"
)

type AdModule struct {
	Handler *handlers.AdHandler
}

func NewAdModule(h *handlers.AdHandler) *AdModule {
	return &AdModule{Handler: h}
}

func (m *AdModule) Register(rg *gin.RouterGroup) {
	// catalog reads require a token like every other ad route
	auth := authed(rg)
	{
		auth.GET("/ad/:id", m.Handler.GetAd)
		auth.GET("/category/:type", m.Handler.ListByCategory)
		auth.GET("/products/search", m.Handler.Search)
		auth.POST("/related-ads", m.Handler.Related)

		auth.POST("/upload-ad", m.Handler.Upload)
		auth.GET("/my-ads", m.Handler.ListMine)
		auth.PUT("/ads/:adId", m.Handler.UpdateAd)
		auth.DELETE("/ads/:adId", m.Handler.DeleteAd)
		auth.POST("/feedback/:adId", m.Handler.SubmitFeedback)
	}
}
