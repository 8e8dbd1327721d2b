package controllers

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/app/middleware"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/domain/services/container"
	"github.com/PazzonEx/condy-access-service/internal/error/code"
	"github.com/PazzonEx/condy-access-service/internal/error/response"
)

// InterfaceQRController 定义通行二维码控制器接口
type InterfaceQRController interface {
	GenerateQRCode()
	ScanQRCode()
}

// QRController 处理通行二维码相关的请求
type QRController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewQRController 创建一个新的通行二维码控制器
func NewQRController(ctx *gin.Context, container *container.ServiceContainer) *QRController {
	return &QRController{
		Ctx:       ctx,
		Container: container,
	}
}

// ScanQRCodeRequest 表示扫码核验的请求体
type ScanQRCodeRequest struct {
	Payload string `json:"payload" binding:"required" example:"{\"requestId\":1,\"expiresAt\":1735689600000}"`
}

// HandleQRFunc 返回一个处理二维码请求的Gin处理函数
func HandleQRFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewQRController(ctx, container)

		switch method {
		case "generateQRCode":
			controller.GenerateQRCode()
		case "scanQRCode":
			controller.ScanQRCode()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GenerateQRCode 为已授权的访问请求签发通行二维码
// @Summary      生成通行二维码
// @Description  仅请求相关方可签发，返回载荷明细和base64编码的PNG图像
// @Tags         QRCode
// @Accept       json
// @Produce      json
// @Param        id path int true "访问请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      403  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /access-requests/{id}/qrcode [get]
func (c *QRController) GenerateQRCode() {
	id := c.Ctx.Param("id")
	idUint, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的访问请求ID")
		return
	}

	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	qrService := c.Container.GetService("qr").(services.InterfaceQRService)
	payload, png, err := qrService.GenerateAccessQRCode(uint(idUint), actor)
	if err != nil {
		switch {
		case err == services.ErrNotAuthenticated:
			response.Unauthorized(c.Ctx)
		case err.Error() == "访问请求不存在":
			response.NotFound(c.Ctx, err.Error())
		case strings.HasPrefix(err.Error(), "访问请求未处于已授权状态"):
			response.FailWithMessage(c.Ctx, code.ErrQRCodeNotAuthorized, err.Error(), nil)
		case err.Error() == "不是该访问请求的相关方，无法生成通行二维码":
			response.Forbidden(c.Ctx, err.Error())
		default:
			response.Fail(c.Ctx, code.ErrQRCodeGenerateFailed, nil)
		}
		return
	}

	response.Success(c.Ctx, gin.H{
		"payload":    payload,
		"image":      base64.StdEncoding.EncodeToString(png),
		"image_type": "image/png",
	})
}

// ScanQRCode 核验扫描到的二维码内容
// @Summary      核验通行二维码
// @Description  门卫扫码核验；业务性拒绝通过valid=false加原因返回，核验通过时请求置为arrived
// @Tags         QRCode
// @Accept       json
// @Produce      json
// @Param        request body ScanQRCodeRequest true "二维码载荷"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /access-requests/scan [post]
func (c *QRController) ScanQRCode() {
	var req ScanQRCodeRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	qrService := c.Container.GetService("qr").(services.InterfaceQRService)
	result, err := qrService.ValidateAccessQRCode(req.Payload, actor)
	if err != nil {
		if err == services.ErrNotAuthenticated {
			response.Unauthorized(c.Ctx)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "核验二维码失败", nil)
		return
	}

	response.Success(c.Ctx, result)
}
