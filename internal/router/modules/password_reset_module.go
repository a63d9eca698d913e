package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rizkypratama/go-accounts/internal/container"
	handlers "github.com/rizkypratama/go-accounts/internal/interface/http"
	"github.com/rizkypratama/go-accounts/internal/interface/middleware"
)

type PasswordResetModule struct {
	Handler *handlers.PasswordResetHandler
}

func NewPasswordResetModule(h *handlers.PasswordResetHandler) *PasswordResetModule {
	return &PasswordResetModule{Handler: h}
}

func (m *PasswordResetModule) Register(rg *gin.RouterGroup) {
	// Tight limit on reset-init: it triggers outbound email.
	initLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	confirmLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/password-reset/", m.Handler.Form)
	rg.POST("/password-reset/", initLimiter, m.Handler.Request)
	rg.GET("/password-reset/done/", m.Handler.Done)
	rg.GET("/password-reset/confirm/", m.Handler.ConfirmForm)
	rg.POST("/password-reset/confirm/", confirmLimiter, m.Handler.Confirm)
}
