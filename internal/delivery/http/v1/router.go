package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-profile-builder/config"
	"go-profile-builder/internal/delivery/http/middleware"
	"go-profile-builder/internal/delivery/http/response"
	"go-profile-builder/internal/domain"
)

type RouterDeps struct {
	SessionUC domain.SessionUsecase
	WizardUC  domain.WizardUsecase
	AddressUC domain.AddressUsecase
	ResumeUC  domain.ResumeUsecase
	Config    *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold)))

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.SessionGuard(deps.SessionUC))
	{
		NewSessionHandler(v1, protected, deps.SessionUC, deps.Config.RateLimitLoginThreshold)
		NewWizardHandler(protected, deps.WizardUC)
		NewAddressHandler(protected, deps.AddressUC, deps.Config.RateLimitSearchThreshold)
		NewResumeHandler(protected, deps.ResumeUC, deps.Config.ResumeUploadMaxSizeBytes, deps.Config.RateLimitUploadThreshold)
	}

	return r
}
