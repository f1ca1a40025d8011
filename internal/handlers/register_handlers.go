package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/muz4miL/genius-academia-sub002/cmd/docs"
	"github.com/muz4miL/genius-academia-sub002/internal/core/domain"
	portssvc "github.com/muz4miL/genius-academia-sub002/internal/core/ports/services"
	"github.com/muz4miL/genius-academia-sub002/internal/middleware"
	"github.com/muz4miL/genius-academia-sub002/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	registerCustomValidators()

	// Add health check route
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Setup API v1 routes with Auth Middleware, passing service interfaces
	setupAPIV1Routes(r, cfg, services)

	// Swagger routes (typically public or conditionally available)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	// Apply AuthMiddleware to the entire v1 group
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret))

	// Delegate route registration to specific handlers, passing required services
	registerStakeholderRoutes(v1, services.Stakeholder, services.Ledger)
	registerPolicyRoutes(v1, services.Policy)
	registerLedgerRoutes(v1, services.Ledger)
	registerFeeRoutes(v1, services.Fee)
	registerExpenseRoutes(v1, services.Expense)
	registerSettlementRoutes(v1, services.Settlement)
	registerPayoutRoutes(v1, services.Payout)
}

// registerCustomValidators wires the domain enum validators used by DTO binding tags.
func registerCustomValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	_ = v.RegisterValidation("stakeholderrole", func(fl validator.FieldLevel) bool {
		switch domain.StakeholderRole(fl.Field().String()) {
		case domain.RoleStaff, domain.RolePartner, domain.RoleProprietor:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("sessioncategory", func(fl validator.FieldLevel) bool {
		switch domain.SessionCategory(fl.Field().String()) {
		case domain.SessionRegular, domain.SessionExamTrack:
			return true
		}
		return false
	})

	_ = v.RegisterValidation("paidbytype", func(fl validator.FieldLevel) bool {
		switch domain.PaidByType(fl.Field().String()) {
		case domain.PaidByOrganization, domain.PaidByPool, domain.PaidByPartner:
			return true
		}
		return false
	})
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	// Swagger setup
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
