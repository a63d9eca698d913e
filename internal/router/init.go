package router

import (
	"github.com/rizkypratama/go-accounts/internal/application"
	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/container"
	pginfra "github.com/rizkypratama/go-accounts/internal/infrastructure/postgres"
	handlers "github.com/rizkypratama/go-accounts/internal/interface/http"
	"github.com/rizkypratama/go-accounts/internal/router/modules"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
)

// InitModules builds all application modules from the container singletons
// and registers them with the router registry. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	repo := pginfra.NewUserRepository(container.GetPGPool())
	audit := pginfra.NewAuditRepository(container.GetPGPool())
	svc := application.NewAccountService(repo, container.GetLogger())
	cookies := helpers.NewCookie(cfg.CookieDomain, cfg.CookieSecure)

	accountHandler := handlers.NewAccountHandler(
		svc,
		container.GetGateway(),
		audit,
		container.GetLogger(),
		cookies,
		container.GetFlash(),
		container.GetRenderer(),
	)
	r.Add(modules.NewAccountModule(accountHandler, container.GetGateway()))

	tokens := auth.NewRedisTokenStore(container.GetRedis())
	// Avoid handing a typed-nil publisher to the interface field.
	var pub handlers.EmailEnqueuer
	if p := container.GetRabbitPub(); p != nil {
		pub = p
	}
	resetHandler := handlers.NewPasswordResetHandler(
		svc,
		tokens,
		pub,
		audit,
		container.GetLogger(),
		cfg,
		container.GetFlash(),
		container.GetRenderer(),
	)
	r.Add(modules.NewPasswordResetModule(resetHandler))
}
