package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/scolaris/school_fees_app/cmd/docs"
	"github.com/scolaris/school_fees_app/internal/core/services"
	"github.com/scolaris/school_fees_app/internal/middleware"
	"github.com/scolaris/school_fees_app/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceProvider,
) {
	// Health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	// Public authentication routes
	registerAuthRoutes(&r.RouterGroup, svc.AuthSvc)

	// API v1 routes behind the auth middleware
	setupAPIV1Routes(r, cfg, svc)

	// Swagger routes (disabled in production)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the
// per-entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	svc *services.ServiceProvider,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	registerInvoiceRoutes(v1, svc.InvoiceSvc, svc.OverdueSvc)
	RegisterPaymentRoutes(v1, svc.PaymentSvc)
	registerOverdueRoutes(v1, svc.OverdueSvc)
	registerStatisticsRoutes(v1, svc.StatisticsSvc)
	registerUserRoutes(v1, svc.UserSvc)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
