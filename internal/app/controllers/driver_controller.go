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

// InterfaceDriverController 定义司机控制器接口
type InterfaceDriverController interface {
	GetDrivers()
	GetDriver()
	FindDriverByPlate()
	CreateDriver()
	UpdateDriver()
	DeleteDriver()
}

// DriverController 处理司机档案相关的请求
type DriverController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewDriverController 创建一个新的司机控制器
func NewDriverController(ctx *gin.Context, container *container.ServiceContainer) *DriverController {
	return &DriverController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateDriverRequest 表示创建司机的请求体
type CreateDriverRequest struct {
	UserID       uint   `json:"user_id" binding:"required" example:"2"`
	Name         string `json:"name" binding:"required" example:"João Silva"`
	Phone        string `json:"phone" example:"+5511988880000"`
	VehiclePlate string `json:"vehicle_plate" example:"ABC-1234"`
	VehicleModel string `json:"vehicle_model" example:"Fiat Uno"`
}

// UpdateDriverRequest 表示更新司机的请求体
type UpdateDriverRequest struct {
	Name         string `json:"name" example:"João Silva"`
	Phone        string `json:"phone" example:"+5511988880000"`
	VehiclePlate string `json:"vehicle_plate" example:"XYZ9876"`
	VehicleModel string `json:"vehicle_model" example:"VW Gol"`
}

// HandleDriverFunc 返回一个处理司机请求的Gin处理函数
func HandleDriverFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewDriverController(ctx, container)

		switch method {
		case "getDrivers":
			controller.GetDrivers()
		case "getDriver":
			controller.GetDriver()
		case "findDriverByPlate":
			controller.FindDriverByPlate()
		case "createDriver":
			controller.CreateDriver()
		case "updateDriver":
			controller.UpdateDriver()
		case "deleteDriver":
			controller.DeleteDriver()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// GetDrivers 分页获取司机列表
// @Summary      获取司机列表
// @Tags         Driver
// @Produce      json
// @Param        page query int false "页码" default(1)
// @Param        page_size query int false "每页数量" default(10)
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Router       /drivers [get]
func (c *DriverController) GetDrivers() {
	page, _ := strconv.Atoi(c.Ctx.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.Ctx.DefaultQuery("page_size", "10"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 10
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	drivers, total, err := driverService.GetAllDrivers(page, pageSize)
	if err != nil {
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取司机列表失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"total":     total,
		"page":      page,
		"page_size": pageSize,
		"data":      drivers,
	})
}

// GetDriver 获取单个司机
// @Summary      获取司机详情
// @Tags         Driver
// @Produce      json
// @Param        id path int true "司机ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /drivers/{id} [get]
func (c *DriverController) GetDriver() {
	id, ok := parseIDParam(c.Ctx, "无效的司机ID")
	if !ok {
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	driver, err := driverService.GetDriverByID(id)
	if err != nil {
		response.Fail(c.Ctx, code.ErrDriverNotFound, nil)
		return
	}

	response.Success(c.Ctx, driver)
}

// FindDriverByPlate 按车牌号查找司机
// @Summary      按车牌查找司机
// @Description  车牌号在比较前规范化为大写字母数字
// @Tags         Driver
// @Produce      json
// @Param        plate query string true "车牌号"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /drivers/search [get]
func (c *DriverController) FindDriverByPlate() {
	plate := c.Ctx.Query("plate")
	if plate == "" {
		response.ParamError(c.Ctx, "车牌号不能为空")
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	driver, err := driverService.FindDriverByPlate(plate)
	if err != nil {
		if err.Error() == "司机不存在" {
			response.Fail(c.Ctx, code.ErrDriverNotFound, nil)
			return
		}
		response.ParamError(c.Ctx, err.Error())
		return
	}

	response.Success(c.Ctx, driver)
}

// CreateDriver 创建司机档案
// @Summary      创建司机
// @Tags         Driver
// @Accept       json
// @Produce      json
// @Param        request body CreateDriverRequest true "司机参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Router       /drivers [post]
func (c *DriverController) CreateDriver() {
	var req CreateDriverRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	driver := &models.Driver{
		UserID:       req.UserID,
		Name:         req.Name,
		Phone:        req.Phone,
		VehiclePlate: req.VehiclePlate,
		VehicleModel: req.VehicleModel,
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	if err := driverService.CreateDriver(driver); err != nil {
		switch err.Error() {
		case "用户不存在":
			response.Fail(c.Ctx, code.ErrUserNotFound, nil)
		case "司机已存在":
			response.Fail(c.Ctx, code.ErrDriverAlreadyExist, nil)
		default:
			response.FailWithMessage(c.Ctx, code.ErrDatabase, "创建司机失败", nil)
		}
		return
	}

	response.Success(c.Ctx, driver)
}

// UpdateDriver 更新司机档案
// @Summary      更新司机
// @Tags         Driver
// @Accept       json
// @Produce      json
// @Param        id path int true "司机ID"
// @Param        request body UpdateDriverRequest true "更新参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /drivers/{id} [put]
func (c *DriverController) UpdateDriver() {
	id, ok := parseIDParam(c.Ctx, "无效的司机ID")
	if !ok {
		return
	}

	var req UpdateDriverRequest
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
	if req.VehiclePlate != "" {
		updates["vehicle_plate"] = req.VehiclePlate
	}
	if req.VehicleModel != "" {
		updates["vehicle_model"] = req.VehicleModel
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	driver, err := driverService.UpdateDriver(id, updates)
	if err != nil {
		if err.Error() == "司机不存在" {
			response.Fail(c.Ctx, code.ErrDriverNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "更新司机失败", nil)
		return
	}

	response.Success(c.Ctx, driver)
}

// DeleteDriver 删除司机档案
// @Summary      删除司机
// @Tags         Driver
// @Produce      json
// @Param        id path int true "司机ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Router       /drivers/{id} [delete]
func (c *DriverController) DeleteDriver() {
	id, ok := parseIDParam(c.Ctx, "无效的司机ID")
	if !ok {
		return
	}

	driverService := c.Container.GetService("driver").(services.InterfaceDriverService)
	if err := driverService.DeleteDriver(id); err != nil {
		if err.Error() == "司机不存在" {
			response.Fail(c.Ctx, code.ErrDriverNotFound, nil)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "删除司机失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{"id": id})
}
