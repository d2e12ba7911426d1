// Package server assembles the HTTP router.
package server

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"shorter/internal/controllers"
	"shorter/internal/middleware"
	"shorter/internal/service"
)

// Realm is sent in the Basic auth challenge
const Realm = "shorter"

// Dependencies are what the router needs to serve requests
type Dependencies struct {
	URLService  service.URLService
	AuthService service.AuthService
	Logger      *slog.Logger
	BaseURL     string

	RateLimitRPS          float64
	RateLimitBurst        int
	RateLimitShortenRPS   float64
	RateLimitShortenBurst int
}

// Router is the gin engine plus the background state it owns
type Router struct {
	*gin.Engine
	limiters []*middleware.RateLimiter
}

// Close stops the rate limiter cleanup goroutines
func (r *Router) Close() {
	for _, rl := range r.limiters {
		rl.Stop()
	}
}

// NewRouter wires controllers and middleware into a gin engine
func NewRouter(deps Dependencies) (*Router, error) {
	if err := controllers.RegisterValidators(); err != nil {
		return nil, err
	}

	shortenerController := controllers.NewShortenerController(deps.URLService, deps.Logger)
	qrcodeController := controllers.NewQRCodeController(deps.URLService, deps.BaseURL, deps.Logger)
	healthController := controllers.NewHealthController(deps.URLService, deps.Logger)

	generalRateLimiter := middleware.NewRateLimiter(rate.Limit(deps.RateLimitRPS), deps.RateLimitBurst, middleware.ByClientIP)
	shortenRateLimiter := middleware.NewRateLimiter(rate.Limit(deps.RateLimitShortenRPS), deps.RateLimitShortenBurst, middleware.ByUserOrIP)
	requireAuth := middleware.BasicAuthMiddleware(deps.AuthService, Realm, deps.Logger)

	engine := gin.New()
	engine.Use(gin.Recovery(), middleware.RequestLogger(deps.Logger), middleware.Metrics())

	// Health check and metrics endpoints (no rate limiting)
	engine.GET("/health", healthController.Health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	links := engine.Group("/")
	links.Use(generalRateLimiter.LimitMiddleware())
	{
		links.POST("/", requireAuth, shortenRateLimiter.LimitMiddleware(), shortenerController.CreateShortURL)
		links.GET("/", requireAuth, shortenerController.GetUserURLs)

		links.GET("/:code", shortenerController.GetURL)
		links.GET("/:code/redirect", shortenerController.RedirectToURL)
		links.GET("/:code/qrcode", qrcodeController.GenerateQRCode)
	}

	return &Router{
		Engine:   engine,
		limiters: []*middleware.RateLimiter{generalRateLimiter, shortenRateLimiter},
	}, nil
}
