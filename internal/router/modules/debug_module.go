package modules

import (
	"expvar"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/adcart-backend/pkg/metrics"
)

type DebugModule struct {
	Metrics *metrics.Metrics
}

func NewDebugModule(m *metrics.Metrics) *DebugModule { return &DebugModule{Metrics: m} }

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := ipLimiter()
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
	if m.Metrics != nil {
		rg.GET("/debug/metrics", rl, gin.WrapH(m.Metrics.Handler()))
	}
}
