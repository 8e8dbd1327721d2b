package routes

import (
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "github.com/PazzonEx/condy-access-service/docs"
	"github.com/PazzonEx/condy-access-service/internal/app/controllers"
	"github.com/PazzonEx/condy-access-service/internal/app/middleware"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/domain/services/container"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// SetupRouter 初始化并返回配置好的路由
func SetupRouter(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// 初始化 Gin
	r := gin.Default()

	// 添加 CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, Accept, Origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})
	// 设置正确的Content-Type，确保UTF-8编码
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json; charset=utf-8")
		c.Next()
	})
	// 创建服务容器
	serviceContainer := container.NewServiceContainer(db, cfg, nil)
	// 初始化中间件
	middleware.InitAuthMiddleware(cfg)
	if redisService, ok := serviceContainer.GetService("redis").(services.InterfaceRedisService); ok {
		middleware.InitCacheMiddleware(redisService)
	}
	// 添加 Swagger 文档路由
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// 注册路由
	registerRoutes(r, serviceContainer)
	return r
}

// registerRoutes 配置所有API路由
func registerRoutes(
	r *gin.Engine,
	container *container.ServiceContainer,
) {
	// API 路由根路径
	api := r.Group("/api")
	// 注册公共路由
	registerPublicRoutes(api, container)
	// 注册需要认证的路由
	registerAuthenticatedRoutes(api, container)
}

// registerPublicRoutes 注册公共路由
func registerPublicRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加IP限流中间件 - 每秒允许10个请求，最多突发20个请求
	api.Use(middleware.IPRateLimiter(10, 20))

	// 健康检查路由
	api.GET("/ping", controllers.HandleHealthFunc(container, "ping"))
	api.GET("/health", controllers.HandleHealthFunc(container, "ping")) // 兼容Docker健康检查的路由

	// 健康状态路由组
	healthGroup := api.Group("/health")
	healthGroup.GET("/status", controllers.HandleHealthFunc(container, "status"))

	// 认证路由
	authGroup := api.Group("/auth")
	authGroup.Use(middleware.PathRateLimiter(5, 10)) // 每秒5个请求，最多突发10个
	authGroup.POST("/login", controllers.HandleJWTFunc(container, "login"))
	authGroup.POST("/register", controllers.HandleJWTFunc(container, "register"))
}

// registerAuthenticatedRoutes 注册需要认证的路由
func registerAuthenticatedRoutes(
	api *gin.RouterGroup,
	container *container.ServiceContainer,
) {
	// 添加认证中间件
	auth := api.Group("/")
	auth.Use(middleware.Authentication())

	// 添加通用限流中间件 - 每秒30个请求，最多突发50个请求
	auth.Use(middleware.IPRateLimiter(30, 50))

	// 访问请求路由
	accessGroup := auth.Group("/access-requests")
	{
		accessGroup.GET("", controllers.HandleAccessFunc(container, "getAccessRequests"))
		accessGroup.POST("", controllers.HandleAccessFunc(container, "createAccessRequest"))
		accessGroup.POST("/scan", controllers.HandleQRFunc(container, "scanQRCode"))
		accessGroup.GET("/:id", controllers.HandleAccessFunc(container, "getAccessRequestDetails"))
		accessGroup.PUT("/:id/status", controllers.HandleAccessFunc(container, "updateAccessRequestStatus"))
		accessGroup.POST("/:id/cancel", controllers.HandleAccessFunc(container, "cancelAccessRequest"))
		accessGroup.GET("/:id/qrcode", controllers.HandleQRFunc(container, "generateQRCode"))
	}

	// 住户路由
	residentGroup := auth.Group("/residents")
	residentGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleResidentFunc(container, "getResidents"))
	residentGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleResidentFunc(container, "getResident"))
	residentGroup.POST("", controllers.HandleResidentFunc(container, "createResident"))
	residentGroup.PUT("/:id", controllers.HandleResidentFunc(container, "updateResident"))
	residentGroup.DELETE("/:id", middleware.AuthenticateAdmin(), controllers.HandleResidentFunc(container, "deleteResident"))

	// 司机路由
	driverGroup := auth.Group("/drivers")
	driverGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleDriverFunc(container, "getDrivers"))
	driverGroup.GET("/search", controllers.HandleDriverFunc(container, "findDriverByPlate"))
	driverGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 1 * time.Minute}), controllers.HandleDriverFunc(container, "getDriver"))
	driverGroup.POST("", controllers.HandleDriverFunc(container, "createDriver"))
	driverGroup.PUT("/:id", controllers.HandleDriverFunc(container, "updateDriver"))
	driverGroup.DELETE("/:id", middleware.AuthenticateAdmin(), controllers.HandleDriverFunc(container, "deleteDriver"))

	// 小区路由
	condoGroup := auth.Group("/condos")
	condoGroup.GET("", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandleCondoFunc(container, "getCondos"))
	condoGroup.GET("/:id", middleware.Cache(middleware.CacheConfig{Expiration: 5 * time.Minute}), controllers.HandleCondoFunc(container, "getCondo"))
	condoGroup.POST("", middleware.AuthenticateAdmin(), controllers.HandleCondoFunc(container, "createCondo"))
	condoGroup.PUT("/:id", middleware.AuthenticateCondo(), controllers.HandleCondoFunc(container, "updateCondo"))
	condoGroup.DELETE("/:id", middleware.AuthenticateAdmin(), controllers.HandleCondoFunc(container, "deleteCondo"))
}
