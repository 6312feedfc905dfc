package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	handlers "github.com/oksasatya/go-user-api/internal/interface/http"
	"github.com/oksasatya/go-user-api/internal/interface/middleware"
	"github.com/oksasatya/go-user-api/pkg/helpers"
)

// UserModule wires the account routes.
// Public: POST /register, POST /login, GET /list, GET /search
// Bearer: POST /edit, DELETE /delete
type UserModule struct {
	Handler  *handlers.UserHandler
	JWT      *helpers.JWTManager
	Resolver middleware.IdentityResolver
	Redis    *redis.Client // nil disables rate limiting
	Logger   *logrus.Logger
}

func NewUserModule(h *handlers.UserHandler, jwt *helpers.JWTManager, resolver middleware.IdentityResolver, rdb *redis.Client, logger *logrus.Logger) *UserModule {
	return &UserModule{Handler: h, JWT: jwt, Resolver: resolver, Redis: rdb, Logger: logger}
}

func (m *UserModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil) // 10 req/min per IP
	loginLimiter := middleware.RateLimit(m.Redis, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	readLimiter := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIP(), nil)

	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.GET("/list", readLimiter, m.Handler.List)
	rg.GET("/search", readLimiter, m.Handler.Search)

	auth := rg.Group("/")
	auth.Use(middleware.Authenticate(m.JWT, m.Resolver, m.Logger))
	auth.Use(middleware.RateLimit(m.Redis, 60, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("/edit", m.Handler.Edit)
		auth.DELETE("/delete", m.Handler.Delete)
	}
}
