package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/domain/services/container"
	"github.com/PazzonEx/condy-access-service/internal/error/code"
	"github.com/PazzonEx/condy-access-service/internal/error/response"
)

// InterfaceResidentController 定义住户控制器接口
type InterfaceResidentController interface {
	GetResidents()
	GetResident()
	CreateResident()
	UpdateResident()
	DeleteResident()
}

// ResidentController 处理住户档案相关的请求
type ResidentController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewResidentController 创建一个新的住户控制器
func NewResidentController(ctx *gin.Context, container *container.ServiceContainer) *ResidentController {
	return &ResidentController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateResidentRequest 表示创建住户的请求体
type CreateResidentRequest struct {
	UserID  uint   `json:"user_id" binding:"required" example:"1"`
	Name    string `json:"name" binding:"required" example:"Maria Souza"`
	Phone   string `json:"phone" example:"+5511999990000"`
	Unit    string `json:"unit" example:"101"`
	Block   string `json:"block" example:"A"`
	CondoID *uint  `json:"condo_id" example:"1"`
}

// UpdateResidentRequest 表示更新住户的请求体
type UpdateResidentRequest struct {
	Name    string `json:"name" example:"Maria Souza"`
	Phone   string `json:"phone" example:"+5511999990000"`
	Unit    string `json:"unit" example:"102"`
	Block   string `json:"block" example:"B"`
	CondoID *uint  `json:"condo_id" example:"1"`
}

// HandleResidentFunc 返回一个处理住户请求的Gin处理函数
func HandleResidentFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewResidentController(ctx, container)

		switch method {
		case "getResidents":
			controller.GetResidents()
		case "getResident":
			controller.GetResident()
		case "createResident":
			controller.CreateResident()
		case "updateResident":
			controller.UpdateResident()
		case "deleteResident":
			controller.DeleteResident()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetResidents 分页获取住户列表
// @Summary      获取住户列表
// @Tags         Resident
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /residents [get]
func (c *ResidentController) GetResidents() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	residents, total, err := residentService.GetAllResidents(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取住户列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      residents,
	})
}

// GetResident 获取单个住户
// @Summary      获取住户详情
// @Tags         Resident
// @Produce      json
// @Param        id path int true "住户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [get]
func (c *ResidentController) GetResident() {
	id, ok := parseIDParam(c.Ctx, "无效的住户ID")
	if !ok {
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.GetResidentByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrResidentNotFound, nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// CreateResident 创建住户档案
// @Summary      创建住户
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        request body CreateResidentRequest true "住户参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /residents [post]
func (c *ResidentController) CreateResident() {
	var req CreateResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	resident := &models.Resident{
		UserID:  req.UserID,
		Name:    req.Name,
		Phone:   req.Phone,
		Unit:    req.Unit,
		Block:   req.Block,
		CondoID: req.CondoID,
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.CreateResident(resident); err != nil {
		switch err.Error() {
		case "用户不存在":
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case "住户已存在":
			response.Fail(c.Ctx, code.ErrResidentAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建住户失败", nil)
		}
		return
	}

	response.Success(c.Ctx, resident)
}

// UpdateResident 更新住户档案
// @Summary      更新住户
// @Tags         Resident
// @Accept       json
// @Produce      json
// @Param        id path int true "住户ID"
// @Param        request body UpdateResidentRequest true "更新参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [put]
func (c *ResidentController) UpdateResident() {
	id, ok := parseIDParam(c.Ctx, "无效的住户ID")
	if !ok {
		return
	}

	var req UpdateResidentRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.Unit != "" {
		updates["unit"] = req.Unit
	}
	if req.Block != "" {
		updates["block"] = req.Block
	}
	if req.CondoID != nil {
		updates["condo_id"] = *req.CondoID
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	resident, err := residentService.UpdateResident(id, updates)
	if err != nil {
		if err.Error() == "住户不存在" {
			response.Fail(c.Ctx, code.ErrResidentNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新住户失败", nil)
		return
	}

	response.Success(c.Ctx, resident)
}

// DeleteResident 删除住户档案
// @Summary      删除住户
// @Tags         Resident
// @Produce      json
// @Param        id path int true "住户ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /residents/{id} [delete]
func (c *ResidentController) DeleteResident() {
	id, ok := parseIDParam(c.Ctx, "无效的住户ID")
	if !ok {
		return
	}

	residentService := c.Container.GetService("resident").(services.InterfaceResidentService)
	if err := residentService.DeleteResident(id); err != nil {
		if err.Error() == "住户不存在" {
			response.Fail(c.Ctx, code.ErrResidentNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除住户失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{"id": id})
}

// parseIDParam 解析路径中的数字ID，失败时直接写入参数错误响应
func parseIDParam(ctx *gin.Context, message string) (uint, bool) {
	idUint, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		response.ParamError(ctx, message)
		return 0, false
	}
	return uint(idUint), true
}
