package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/domain/services/container"
	"github.com/PazzonEx/condy-access-service/internal/error/code"
	"github.com/PazzonEx/condy-access-service/internal/error/response"
	"github.com/PazzonEx/condy-access-service/utils"
)

// InterfaceJWTController 定义认证控制器接口
type InterfaceJWTController interface {
	Login()
	Register()
}

// JWTController 处理身份验证请求
type JWTController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewJWTController 创建一个新的认证控制器
func NewJWTController(ctx *gin.Context, container *container.ServiceContainer) *JWTController {
	return &JWTController{
		Ctx:       ctx,
		Container: container,
	}
}

// LoginRequest 表示登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"morador@condy.app"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RegisterRequest 表示注册请求
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email" example:"motorista@condy.app"`
	Password    string `json:"password" binding:"required,min=6" example:"secret123"`
	DisplayName string `json:"display_name" binding:"required" example:"João Silva"`
	Type        string `json:"type" binding:"omitempty,oneof=resident driver condo" example:"driver"`
}

// ErrorResponse 表示错误响应
type ErrorResponse struct {
	Code    int         `json:"code" example:"401"`
	Message string      `json:"message" example:"Invalid email or password"`
	Data    interface{} `json:"data"`
}

// HandleJWTFunc 返回一个处理认证请求的Gin处理函数
func HandleJWTFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewJWTController(ctx, container)

		switch method {
		case "login":
			controller.Login()
		case "register":
			controller.Register()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// Login 处理用户登录
// @Summary      User Login
// @Description  Process user login and return JWT token with different permissions based on user type
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request parameters"
// @Success      200  {object}  map[string]interface{}  "Success response with token"
// @Failure      400  {object}  ErrorResponse  "Bad request"
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      500  {object}  ErrorResponse  "Internal server error"
// @Router       /auth/login [post]
func (c *JWTController) Login() {
	var req LoginRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	// 获取数据库连接和JWT服务
	db := c.Container.GetDB()
	jwtService := c.Container.GetService("jwt").(services.InterfaceJWTService)

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
		return
	}

	// 比较密码
	if !utils.CheckPasswordHash(req.Password, user.Password) {
		response.Fail(c.Ctx, code.ErrUserPasswordIncorrect, nil)
		return
	}

	if !user.IsActive() {
		response.Fail(c.Ctx, code.ErrUserInactive, nil)
		return
	}

	// 门卫账户把所属小区ID写入令牌声明
	var condoID *uint
	if user.Type == models.UserTypeCondo {
		var condo models.Condo
		if err := db.Where("user_id = ?", user.ID).First(&condo).Error; err == nil {
			condoID = &condo.ID
		}
	}

	token, err := jwtService.GenerateToken(user.ID, string(user.Type), condoID)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "生成令牌失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"token":        token,
		"user_id":      user.ID,
		"role":         user.Type,
		"display_name": user.DisplayName,
		"created_at":   user.CreatedAt,
	})
}

// Register 处理用户注册
// @Summary      User Registration
// @Description  Create a new login account; profile documents are created separately per role
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration request parameters"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /auth/register [post]
func (c *JWTController) Register() {
	var req RegisterRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	userType := models.UserType(req.Type)
	if userType == "" {
		userType = models.UserTypeResident
	}

	userService := c.Container.GetService("user").(services.InterfaceUserService)
	user := &models.User{
		Email:       req.Email,
		Password:    req.Password,
		DisplayName: req.DisplayName,
		Type:        userType,
		Status:      models.UserStatusActive,
	}

	if err := userService.CreateUser(user); err != nil {
		if err.Error() == "用户已存在" {
			response.Fail(c.Ctx, code.ErrUserAlreadyExist, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建用户失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"user_id":      user.ID,
		"email":        user.Email,
		"display_name": user.DisplayName,
		"type":         user.Type,
	})
}
