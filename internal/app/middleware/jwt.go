package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

var jwtService services.InterfaceJWTService

// InitAuthMiddleware 初始化认证中间件
func InitAuthMiddleware(cfg *config.Config) {
	jwtService = services.NewJWTService(cfg)
}

// extractToken 从授权头中提取token
func extractToken(authHeader string) string {
	// 检查并移除 "Bearer " 前缀
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return authHeader[7:]
	}
	return authHeader
}

// abortUnauthorized 以401终止请求
func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"code":    401,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// abortForbidden 以403终止请求
func abortForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, gin.H{
		"code":    403,
		"message": message,
		"data":    nil,
	})
	c.Abort()
}

// authenticate 验证令牌并把声明写入上下文，返回是否通过
func authenticate(c *gin.Context) (*services.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		abortUnauthorized(c, "Authorization header is required")
		return nil, false
	}

	tokenString := extractToken(authHeader)
	claims, err := jwtService.ExtractClaims(tokenString)
	if err != nil {
		abortUnauthorized(c, "Invalid token: "+err.Error())
		return nil, false
	}

	// 存储claims到上下文
	c.Set("userID", claims.UserID)
	c.Set("role", claims.Role)
	if claims.CondoID != nil {
		c.Set("condoID", *claims.CondoID)
	}
	c.Set("claims", claims)
	return claims, true
}

// Authentication 通用的认证中间件，任何有效角色均可通过
func Authentication() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		switch models.UserType(claims.Role) {
		case models.UserTypeResident, models.UserTypeDriver, models.UserTypeCondo, models.UserTypeAdmin:
			c.Next()
		default:
			abortForbidden(c, "Insufficient permissions: requires valid user role")
		}
	}
}

// AuthenticateAdmin 验证系统管理员权限
func AuthenticateAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		if models.UserType(claims.Role) != models.UserTypeAdmin {
			abortForbidden(c, "Insufficient permissions: requires system admin role")
			return
		}
		c.Next()
	}
}

// AuthenticateCondo 验证门卫权限，管理员也可访问门卫接口
func AuthenticateCondo() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := authenticate(c)
		if !ok {
			return
		}

		role := models.UserType(claims.Role)
		if role != models.UserTypeCondo && role != models.UserTypeAdmin {
			abortForbidden(c, "Insufficient permissions: requires condo role")
			return
		}
		c.Next()
	}
}

// CurrentActor 从上下文构建调用主体，认证中间件之后可用
func CurrentActor(c *gin.Context) *services.Actor {
	claims, exists := c.Get("claims")
	if !exists {
		return nil
	}

	jwtClaims, ok := claims.(*services.JWTClaims)
	if !ok {
		return nil
	}

	return &services.Actor{
		UserID:  jwtClaims.UserID,
		Role:    models.UserType(jwtClaims.Role),
		CondoID: jwtClaims.CondoID,
	}
}
