package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/container"
	handlers "github.com/rizkypratama/go-accounts/internal/interface/http"
	"github.com/rizkypratama/go-accounts/internal/interface/middleware"
)

// AccountModule wires the account pages into routes.
// Public: /register/, /login/, /logout/confirm/, /logout/
// Protected: /dashboard/
type AccountModule struct {
	Handler *handlers.AccountHandler
	Gateway auth.Gateway
}

func NewAccountModule(h *handlers.AccountHandler, gw auth.Gateway) *AccountModule {
	return &AccountModule{Handler: h, Gateway: gw}
}

func (m *AccountModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath(), middleware.AllowPrivateIP())

	rg.GET("/register/", m.Handler.RegisterForm)
	rg.POST("/register/", registerLimiter, m.Handler.Register)
	rg.GET("/login/", m.Handler.LoginForm)
	rg.POST("/login/", loginLimiter, m.Handler.Login)

	// Logout is deliberately not behind the guard: hitting it while
	// anonymous redirects with a notice instead of bouncing to ?next=.
	rg.GET("/logout/confirm/", m.Handler.LogoutConfirm)
	rg.POST("/logout/", m.Handler.Logout)

	protected := rg.Group("/")
	protected.Use(middleware.SessionGuard(m.Gateway, "/login/"))
	{
		protected.GET("/dashboard/", m.Handler.Dashboard)
	}
}
