package app

import (
	"github.com/gin-gonic/gin"
	"github.com/mobiledorms/mobiledorms-api/internal/auth"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi"
	"github.com/mobiledorms/mobiledorms-api/internal/httpapi/handlers"
	"github.com/mobiledorms/mobiledorms-api/internal/ratelimit"
	"gorm.io/gorm"
)

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(conn *gorm.DB, authSvc *auth.Service, limiter *ratelimit.Manager) *gin.Engine {
	r := gin.New()
	r.Use(httpapi.Recovery())
	r.HandleMethodNotAllowed = true
	r.NoMethod(httpapi.MethodNotAllowed)
	r.NoRoute(httpapi.NotFound)

	healthHandler := handlers.NewHealthHandler(conn)
	r.GET("/healthz", httpapi.Wrap(healthHandler.Healthz))

	api := r.Group("/api")
	api.Use(httpapi.RateLimit(limiter))

	authHandler := handlers.NewAuthHandler(authSvc)
	api.POST("/auth/login", httpapi.Wrap(authHandler.Login))

	bookingHandler := handlers.NewBookingHandler(conn, authSvc)
	api.POST("/bookings", httpapi.Wrap(bookingHandler.Create))
	api.GET("/bookings", httpapi.Wrap(bookingHandler.List))
	api.GET("/bookings/:id", httpapi.Wrap(bookingHandler.Get))
	api.PATCH("/bookings/:id", httpapi.Wrap(bookingHandler.Update))
	api.PUT("/bookings/:id", httpapi.Wrap(bookingHandler.Update))
	api.DELETE("/bookings/:id", httpapi.Wrap(bookingHandler.Delete))

	capsuleHandler := handlers.NewCapsuleHandler(conn, authSvc)
	api.POST("/capsules", httpapi.Wrap(capsuleHandler.Create))
	api.GET("/capsules", httpapi.Wrap(capsuleHandler.List))
	api.GET("/capsules/:id", httpapi.Wrap(capsuleHandler.Get))
	api.PATCH("/capsules/:id", httpapi.Wrap(capsuleHandler.Update))
	api.PUT("/capsules/:id", httpapi.Wrap(capsuleHandler.Update))
	api.DELETE("/capsules/:id", httpapi.Wrap(capsuleHandler.Delete))

	partnerHandler := handlers.NewPartnerHandler(conn, authSvc)
	api.POST("/partners", httpapi.Wrap(partnerHandler.Create))
	api.GET("/partners", httpapi.Wrap(partnerHandler.List))
	api.GET("/partners/:id", httpapi.Wrap(partnerHandler.Get))
	api.PATCH("/partners/:id", httpapi.Wrap(partnerHandler.Update))
	api.PUT("/partners/:id", httpapi.Wrap(partnerHandler.Update))
	api.DELETE("/partners/:id", httpapi.Wrap(partnerHandler.Delete))

	statsHandler := handlers.NewStatsHandler(conn, authSvc)
	api.GET("/stats", httpapi.Wrap(statsHandler.Get))

	settingHandler := handlers.NewSettingHandler(conn, authSvc)
	api.POST("/settings", httpapi.Wrap(settingHandler.Create))
	api.GET("/settings", httpapi.Wrap(settingHandler.List))
	api.GET("/settings/:key", httpapi.Wrap(settingHandler.Get))
	api.PUT("/settings/:key", httpapi.Wrap(settingHandler.Update))
	api.DELETE("/settings/:key", httpapi.Wrap(settingHandler.Delete))

	return r
}
