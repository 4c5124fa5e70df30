package router

import (
	"usermgmt/internal/api/handlers"
	"usermgmt/internal/api/middleware"
	"usermgmt/internal/config"
	"usermgmt/internal/domain/user"
	"usermgmt/internal/infrastructure/cache"
	"usermgmt/internal/infrastructure/repository"
	"usermgmt/internal/security"
	"usermgmt/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Options selects the backing stores for the router. A nil DB falls back to
// the in-memory repository; a nil Redis disables idempotent create.
type Options struct {
	DB    *gorm.DB
	Redis *cache.RedisCache
}

// New wires the repositories, services and handlers into a gin engine
func New(opts Options) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	var userRepo user.UserRepository
	if opts.DB != nil {
		userRepo = repository.NewGormUserRepository(opts.DB)
	} else {
		userRepo = repository.NewMemoryUserRepository()
	}

	cfg := config.Get()
	hasher := security.NewBcryptHasher(cfg.Security.BcryptCost)
	factory := user.NewFactory(user.NewValidator(), hasher)
	mapper := user.NewMapper()
	userService := service.NewUserService(userRepo, factory, mapper, hasher)

	var idempotencyService *service.IdempotencyService
	if opts.Redis != nil {
		idempotencyRepo := repository.NewRedisIdempotencyRepository(opts.Redis.GetClient())
		idempotencyService = service.NewIdempotencyService(idempotencyRepo)
	}

	userHandler := handlers.NewUserHandler(userService, idempotencyService)
	healthHandler := handlers.NewHealthHandler(opts.DB, opts.Redis)

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	api := r.Group("/api")
	{
		users := api.Group("/users")
		{
			users.POST("", middleware.Idempotency(), userHandler.CreateUser)
			users.GET("", userHandler.ListUsers)
			users.GET("/active", userHandler.ListActiveUsers)
			users.GET("/search", userHandler.SearchUsers)
			users.GET("/username/:username", userHandler.GetUserByUsername)
			users.GET("/exists/username/:username", userHandler.CheckUsernameExists)
			users.GET("/exists/email/:email", userHandler.CheckEmailExists)
			users.GET("/domain/:domain", userHandler.ListUsersByEmailDomain)
			users.GET("/:id", userHandler.GetUser)
			users.PUT("/:id", userHandler.UpdateUser)
			users.PATCH("/:id/deactivate", userHandler.DeactivateUser)
			users.DELETE("/:id", userHandler.DeleteUser)
		}
	}

	return r
}
