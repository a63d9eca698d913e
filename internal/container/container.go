package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/rizkypratama/go-accounts/config"
	"github.com/rizkypratama/go-accounts/internal/auth"
	"github.com/rizkypratama/go-accounts/internal/view"
	"github.com/rizkypratama/go-accounts/pkg/flash"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
)

// app-level container to share constructed components across packages.
// The router auto-wires modules from these singletons at startup; handlers
// themselves receive dependencies through constructors.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client
	jwtManager  *helpers.JWTManager
	gateway     auth.Gateway
	rabbitPub   *helpers.RabbitPublisher
	renderer    *view.Renderer
	flashMgr    *flash.Manager
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetRedis(r *redis.Client)                { redisClient = r }
func GetRedis() *redis.Client                 { return redisClient }
func SetJWT(m *helpers.JWTManager)            { jwtManager = m }
func GetJWT() *helpers.JWTManager             { return jwtManager }
func SetGateway(g auth.Gateway)               { gateway = g }
func GetGateway() auth.Gateway                { return gateway }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetRenderer(r *view.Renderer)            { renderer = r }
func GetRenderer() *view.Renderer             { return renderer }
func SetFlash(f *flash.Manager)               { flashMgr = f }
func GetFlash() *flash.Manager                { return flashMgr }
