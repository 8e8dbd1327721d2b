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

// InterfaceCondoController 定义小区控制器接口
type InterfaceCondoController interface {
	GetCondos()
	GetCondo()
	CreateCondo()
	UpdateCondo()
	DeleteCondo()
}

// CondoController 处理小区档案相关的请求
type CondoController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewCondoController 创建一个新的小区控制器
func NewCondoController(ctx *gin.Context, container *container.ServiceContainer) *CondoController {
	return &CondoController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateCondoRequest 表示创建小区的请求体
type CreateCondoRequest struct {
	UserID  uint   `json:"user_id" binding:"required" example:"3"`
	Name    string `json:"name" binding:"required" example:"Residencial Jardim"`
	Address string `json:"address" example:"Rua das Flores, 100"`
	City    string `json:"city" example:"São Paulo"`
}

// UpdateCondoRequest 表示更新小区的请求体
type UpdateCondoRequest struct {
	Name    string `json:"name" example:"Residencial Jardim"`
	Address string `json:"address" example:"Rua das Flores, 100"`
	City    string `json:"city" example:"São Paulo"`
}

// HandleCondoFunc 返回一个处理小区请求的Gin处理函数
func HandleCondoFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewCondoController(ctx, container)

		switch method {
		case "getCondos":
			controller.GetCondos()
		case "getCondo":
			controller.GetCondo()
		case "createCondo":
			controller.CreateCondo()
		case "updateCondo":
			controller.UpdateCondo()
		case "deleteCondo":
			controller.DeleteCondo()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetCondos 分页获取小区列表
// @Summary      获取小区列表
// @Tags         Condo
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /condos [get]
func (c *CondoController) GetCondos() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condos, total, err := condoService.GetAllCondos(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取小区列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      condos,
	})
}

// GetCondo 获取单个小区
// @Summary      获取小区详情
// @Tags         Condo
// @Produce      json
// @Param        id path int true "小区ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /condos/{id} [get]
func (c *CondoController) GetCondo() {
	id, ok := parseIDParam(c.Ctx, "无效的小区ID")
	if !ok {
		return
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condo, err := condoService.GetCondoByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrCondoNotFound, nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// CreateCondo 创建小区档案
// @Summary      创建小区
// @Tags         Condo
// @Accept       json
// @Produce      json
// @Param        request body CreateCondoRequest true "小区参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /condos [post]
func (c *CondoController) CreateCondo() {
	var req CreateCondoRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	condo := &models.Condo{
		UserID:  req.UserID,
		Name:    req.Name,
		Address: req.Address,
		City:    req.City,
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	if err := condoService.CreateCondo(condo); err != nil {
		switch err.Error() {
		case "用户不存在":
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case "小区已存在":
			response.Fail(c.Ctx, code.ErrCondoAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建小区失败", nil)
		}
		return
	}

	response.Success(c.Ctx, condo)
}

// UpdateCondo 更新小区档案
// @Summary      更新小区
// @Tags         Condo
// @Accept       json
// @Produce      json
// @Param        id path int true "小区ID"
// @Param        request body UpdateCondoRequest true "更新参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /condos/{id} [put]
func (c *CondoController) UpdateCondo() {
	id, ok := parseIDParam(c.Ctx, "无效的小区ID")
	if !ok {
		return
	}

	var req UpdateCondoRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.City != "" {
		updates["city"] = req.City
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	condo, err := condoService.UpdateCondo(id, updates)
	if err != nil {
		if err.Error() == "小区不存在" {
			response.Fail(c.Ctx, code.ErrCondoNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新小区失败", nil)
		return
	}

	response.Success(c.Ctx, condo)
}

// DeleteCondo 删除小区档案
// @Summary      删除小区
// @Tags         Condo
// @Produce      json
// @Param        id path int true "小区ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /condos/{id} [delete]
func (c *CondoController) DeleteCondo() {
	id, ok := parseIDParam(c.Ctx, "无效的小区ID")
	if !ok {
		return
	}

	condoService := c.Container.GetService("condo").(services.InterfaceCondoService)
	if err := condoService.DeleteCondo(id); err != nil {
		if err.Error() == "小区不存在" {
			response.Fail(c.Ctx, code.ErrCondoNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除小区失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{"id": id})
}
