package api

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/cloudjet/airbooking/internal/middleware"
	"github.com/cloudjet/airbooking/internal/service/booking"
	"github.com/cloudjet/airbooking/internal/service/discount"
	"github.com/cloudjet/airbooking/internal/service/flights"
	"github.com/cloudjet/airbooking/internal/service/payment"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
)

const healthTimeout = 2 * time.Second

// HealthCheck probes one dependency for the /health endpoint.
type HealthCheck func(ctx context.Context) error

type RouterConfig struct {
	JWTSecret      string
	AllowedOrigins []string
	SwaggerDir     string
	Checks         map[string]HealthCheck
}

type Services struct {
	Bookings  booking.BookingUseCase
	Payments  payment.PaymentUseCase
	Flights   flights.FlightUseCase
	Discounts discount.DiscountUseCase
}

func NewRouter(cfg RouterConfig, svc Services, logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/health", healthHandler(cfg.Checks))

	if cfg.SwaggerDir != "" {
		router.StaticFile("/swagger/openapi.json", filepath.Join(cfg.SwaggerDir, "openapi.json"))
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL("/swagger/openapi.json"))))
	}

	auth := middleware.Auth(cfg.JWTSecret)
	apiGroup := router.Group("/api")

	NewFlightHandler(svc.Flights).Register(apiGroup.Group("/flights"))
	NewBookingHandler(svc.Bookings).Register(apiGroup.Group("/bookings"), auth)
	NewPaymentHandler(svc.Payments).Register(apiGroup.Group("/payments"), auth)
	NewDiscountHandler(svc.Discounts).Register(apiGroup.Group("/admin/discounts", auth, middleware.RequireAdmin()))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:       12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}

func healthHandler(checks map[string]HealthCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		results := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(ctx); err != nil {
				results[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			results[name] = "ok"
		}

		state := "ok"
		if status != http.StatusOK {
			state = "degraded"
		}
		c.JSON(status, gin.H{"status": state, "checks": results})
	}
}
