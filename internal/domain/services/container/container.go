package container

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// ServiceContainer 管理所有服务的依赖注入
type ServiceContainer struct {
	db     *gorm.DB
	config *config.Config
	redis  *redis.Client

	// 基础服务
	jwtService services.InterfaceJWTService

	// 数据存储服务
	redisService services.InterfaceRedisService

	// 通知服务
	notificationService services.InterfaceNotificationService

	// 业务服务
	accessService   services.InterfaceAccessService
	qrService       services.InterfaceQRService
	userService     services.InterfaceUserService
	residentService services.InterfaceResidentService
	driverService   services.InterfaceDriverService
	condoService    services.InterfaceCondoService

	mu sync.RWMutex
}

// NewServiceContainer 创建新的服务容器
func NewServiceContainer(db *gorm.DB, cfg *config.Config, redisClient *redis.Client) *ServiceContainer {
	if db == nil {
		panic("数据库连接为空")
	}

	if cfg == nil {
		panic("配置为空")
	}

	// 测试Redis连接
	if redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Printf("Redis连接测试失败: %v，将不使用Redis缓存", err)
		}
	}

	container := &ServiceContainer{
		db:     db,
		config: cfg,
		redis:  redisClient,
	}
	container.initializeServices()
	return container
}

// initializeServices 初始化所有服务
func (c *ServiceContainer) initializeServices() {
	c.mu.Lock()
	defer c.mu.Unlock()

	// 初始化基础服务
	c.jwtService = services.NewJWTService(c.config)

	// 初始化Redis服务
	c.redisService = services.NewRedisService(c.config)

	// 初始化通知服务
	notificationService := services.NewNotificationService(c.config)
	if err := notificationService.Connect(); err != nil {
		log.Printf("MQTT通知服务连接失败: %v，状态通知将被跳过", err)
	}
	c.notificationService = notificationService

	// 初始化业务服务
	c.accessService = services.NewAccessService(c.db, c.config, c.notificationService)
	c.qrService = services.NewQRService(c.db, c.config, c.notificationService, c.redisService)
	c.userService = services.NewUserService(c.db, c.config)
	c.residentService = services.NewResidentService(c.db, c.config)
	c.driverService = services.NewDriverService(c.db, c.config)
	c.condoService = services.NewCondoService(c.db, c.config)
}

// GetService 获取指定名称的服务
func (c *ServiceContainer) GetService(name string) interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch name {
	case "config":
		return c.config
	case "db":
		return c.db
	case "jwt":
		return c.jwtService
	case "redis":
		return c.redisService
	case "notification":
		return c.notificationService
	case "access":
		return c.accessService
	case "qr":
		return c.qrService
	case "user":
		return c.userService
	case "resident":
		return c.residentService
	case "driver":
		return c.driverService
	case "condo":
		return c.condoService
	default:
		return nil
	}
}

// GetDB 获取数据库连接
func (c *ServiceContainer) GetDB() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}
