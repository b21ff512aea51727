package ginserver

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"
	limiter "github.com/ulule/limiter/v3"
	mgin "github.com/ulule/limiter/v3/drivers/middleware/gin"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"airbrb/internal/infra/config"
	"airbrb/internal/infra/obs"
)

type Handlers struct {
	Auth           AuthHTTP
	Listing        ListingHTTP
	Booking        BookingHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) (*http.Server, error) {
	router, err := NewRouter(cfg, obsMW, health, h)
	if err != nil {
		return nil, err
	}
	return &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 10 * time.Second}, nil
}

func NewRouter(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) (*gin.Engine, error) {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}
	throttle, err := rateLimit(cfg.RateLimit, obsMW.Logger)
	if err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			obs.RequestIDHeader,
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	if h.Auth != nil {
		auth := router.Group("/user/auth")
		auth.POST("/register", throttle, h.Auth.Register)
		auth.POST("/login", throttle, h.Auth.Login)
		auth.POST("/logout", h.Auth.Logout)
	}
	if h.Listing != nil {
		listings := router.Group("/listings")
		listings.GET("", h.Listing.List)
		listings.POST("/new", h.Listing.Create)
		listings.GET("/:id", h.Listing.Get)
		listings.PUT("/:id", h.Listing.Update)
		listings.GET("/:id/stats", h.Listing.Stats)
		listings.GET("/:id/reviews", h.Listing.Reviews)
		listings.PUT("/:id/review/:bookingid", h.Listing.Review)
		listings.PUT("/publish/:id", h.Listing.Publish)
		listings.PUT("/unpublish/:id", h.Listing.Unpublish)
	}
	if h.Booking != nil {
		bookings := router.Group("/bookings")
		bookings.GET("", h.Booking.List)
		bookings.GET("/mine", h.Booking.Mine)
		bookings.GET("/:id", h.Booking.Get)
		bookings.POST("/new/:id", throttle, h.Booking.Create)
		bookings.PUT("/accept/:id", h.Booking.Accept)
		bookings.PUT("/decline/:id", h.Booking.Decline)
		bookings.DELETE("/:id", h.Booking.Remove)
	}
	return router, nil
}

// rateLimit keys on client IP. An empty formatted rate disables limiting.
func rateLimit(formatted string, logger *slog.Logger) (gin.HandlerFunc, error) {
	if strings.TrimSpace(formatted) == "" {
		return func(c *gin.Context) { c.Next() }, nil
	}
	rate, err := limiter.NewRateFromFormatted(formatted)
	if err != nil {
		return nil, err
	}
	return mgin.NewMiddleware(limiter.New(memory.NewStore(), rate),
		mgin.WithLimitReachedHandler(func(c *gin.Context) {
			if logger != nil {
				logger.Warn("rate limit reached", "ip", c.ClientIP(), "path", c.FullPath())
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
		}),
	), nil
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
