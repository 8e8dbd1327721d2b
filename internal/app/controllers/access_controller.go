package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/PazzonEx/condy-access-service/internal/app/middleware"
	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/domain/services"
	"github.com/PazzonEx/condy-access-service/internal/domain/services/container"
	"github.com/PazzonEx/condy-access-service/internal/error/code"
	"github.com/PazzonEx/condy-access-service/internal/error/response"
)

// InterfaceAccessController 定义访问请求控制器接口
type InterfaceAccessController interface {
	CreateAccessRequest()
	GetAccessRequests()
	GetAccessRequestDetails()
	UpdateAccessRequestStatus()
	CancelAccessRequest()
}

// AccessController 处理访问请求相关的请求
type AccessController struct {
	Ctx       *gin.Context
	Container *container.ServiceContainer
}

// NewAccessController 创建一个新的访问请求控制器
func NewAccessController(ctx *gin.Context, container *container.ServiceContainer) *AccessController {
	return &AccessController{
		Ctx:       ctx,
		Container: container,
	}
}

// CreateAccessRequestRequest 表示创建访问请求的请求体
type CreateAccessRequestRequest struct {
	ResidentID   *uint  `json:"resident_id" example:"1"`
	DriverID     *uint  `json:"driver_id" example:"2"`
	CondoID      *uint  `json:"condo_id" example:"1"`
	Unit         string `json:"unit" example:"101"`
	Block        string `json:"block" example:"A"`
	DriverName   string `json:"driver_name" example:"João Silva"`
	VehiclePlate string `json:"vehicle_plate" example:"ABC1234"`
	VehicleModel string `json:"vehicle_model" example:"Fiat Uno"`
	Comment      string `json:"comment" example:"Entrega de mercado"`
	Role         string `json:"role" binding:"omitempty,oneof=resident driver condo" example:"resident"` // 可选，不传时从用户档案解析
}

// UpdateAccessStatusRequest 表示状态流转请求体
type UpdateAccessStatusRequest struct {
	Status  string `json:"status" binding:"required" example:"authorized"`
	Comment string `json:"comment" example:"Liberado pela portaria"`
}

// HandleAccessFunc 返回一个处理访问请求的Gin处理函数
func HandleAccessFunc(container *container.ServiceContainer, method string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		controller := NewAccessController(ctx, container)

		switch method {
		case "createAccessRequest":
			controller.CreateAccessRequest()
		case "getAccessRequests":
			controller.GetAccessRequests()
		case "getAccessRequestDetails":
			controller.GetAccessRequestDetails()
		case "updateAccessRequestStatus":
			controller.UpdateAccessRequestStatus()
		case "cancelAccessRequest":
			controller.CancelAccessRequest()
		default:
			response.FailWithMessage(ctx, code.ErrBind, "无效的方法", nil)
		}
	}
}

// CreateAccessRequest 创建访问请求
// @Summary      创建访问请求
// @Description  按调用者角色创建新的司机访问请求，描述性字段缺省时从档案冗余
// @Tags         AccessRequest
// @Accept       json
// @Produce      json
// @Param        request body CreateAccessRequestRequest true "访问请求参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /access-requests [post]
func (c *AccessController) CreateAccessRequest() {
	var req CreateAccessRequestRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	accessService := c.Container.GetService("access").(services.InterfaceAccessService)
	input := &services.CreateAccessRequestInput{
		ResidentID:   req.ResidentID,
		DriverID:     req.DriverID,
		CondoID:      req.CondoID,
		Unit:         req.Unit,
		Block:        req.Block,
		DriverName:   req.DriverName,
		VehiclePlate: req.VehiclePlate,
		VehicleModel: req.VehicleModel,
		Comment:      req.Comment,
	}

	request, err := accessService.CreateAccessRequest(actor, models.UserType(req.Role), input)
	if err != nil {
		if err == services.ErrNotAuthenticated {
			response.Unauthorized(c.Ctx)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	response.Success(c.Ctx, request)
}

// GetAccessRequests 获取访问请求列表
// @Summary      获取访问请求列表
// @Description  按调用者角色过滤返回访问请求，支持状态过滤和数量上限
// @Tags         AccessRequest
// @Accept       json
// @Produce      json
// @Param        status query string false "状态过滤，逗号分隔可传多个"
// @Param        limit query int false "返回数量上限"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /access-requests [get]
func (c *AccessController) GetAccessRequests() {
	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	var statusFilter []models.AccessStatus
	if raw := c.Ctx.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status := models.AccessStatus(strings.TrimSpace(part))
			if !status.IsValid() {
				response.ParamError(c.Ctx, "无效的状态过滤值: "+string(status))
				return
			}
			statusFilter = append(statusFilter, status)
		}
	}

	limit, _ := strconv.Atoi(c.Ctx.DefaultQuery("limit", "0"))

	accessService := c.Container.GetService("access").(services.InterfaceAccessService)
	requests, err := accessService.GetAccessRequests(actor, statusFilter, limit)
	if err != nil {
		if err == services.ErrNotAuthenticated {
			response.Unauthorized(c.Ctx)
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
		return
	}

	// 附带状态展示信息，供列表渲染
	items := make([]gin.H, 0, len(requests))
	for i := range requests {
		items = append(items, gin.H{
			"request":     requests[i],
			"status_info": requests[i].Status.Info(),
		})
	}

	response.Success(c.Ctx, gin.H{
		"total": len(items),
		"data":  items,
	})
}

// GetAccessRequestDetails 获取访问请求详情
// @Summary      获取访问请求详情
// @Description  返回单个访问请求及其关联的住户、司机、小区档案，关联缺失时对应字段为空
// @Tags         AccessRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "访问请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Router       /access-requests/{id} [get]
func (c *AccessController) GetAccessRequestDetails() {
	id, ok := c.requestIDParam()
	if !ok {
		return
	}

	accessService := c.Container.GetService("access").(services.InterfaceAccessService)
	request, err := accessService.GetAccessRequestDetails(id)
	if err != nil {
		if err.Error() == "访问请求不存在" {
			response.NotFound(c.Ctx, err.Error())
			return
		}
		response.FailWithMessage(c.Ctx, code.ErrDatabase, "获取访问请求失败", nil)
		return
	}

	response.Success(c.Ctx, gin.H{
		"request":     request,
		"status_info": request.Status.Info(),
	})
}

// UpdateAccessRequestStatus 应用状态流转
// @Summary      更新访问请求状态
// @Description  按状态流转表应用一次状态变更；住户对待确认请求的拒绝统一落为denied_by_resident
// @Tags         AccessRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "访问请求ID"
// @Param        request body UpdateAccessStatusRequest true "状态流转参数"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  ErrorResponse
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /access-requests/{id}/status [put]
func (c *AccessController) UpdateAccessRequestStatus() {
	id, ok := c.requestIDParam()
	if !ok {
		return
	}

	var req UpdateAccessStatusRequest
	if err := c.Ctx.ShouldBindJSON(&req); err != nil {
		response.FailWithMessage(c.Ctx, code.ErrBind, "无效的请求参数", nil)
		return
	}

	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	newStatus := models.AccessStatus(req.Status)
	if !newStatus.IsValid() {
		response.Fail(c.Ctx, code.ErrAccessStatusInvalid, gin.H{"status": req.Status})
		return
	}

	// 住户拒绝的规范值是denied_by_resident，历史客户端传denied时在此归一
	if actor.Role == models.UserTypeResident && newStatus == models.AccessStatusDenied {
		newStatus = models.AccessStatusDeniedByResident
	}

	var extra map[string]interface{}
	if req.Comment != "" {
		extra = map[string]interface{}{"comment": req.Comment}
	}

	accessService := c.Container.GetService("access").(services.InterfaceAccessService)
	request, err := accessService.UpdateAccessRequestStatus(id, newStatus, actor, extra)
	if err != nil {
		c.failFromServiceError(err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"request":     request,
		"status_info": request.Status.Info(),
	})
}

// CancelAccessRequest 发起方撤回访问请求
// @Summary      取消访问请求
// @Description  发起方主动撤回，仅pending/authorized状态允许
// @Tags         AccessRequest
// @Accept       json
// @Produce      json
// @Param        id path int true "访问请求ID"
// @Security     BearerAuth
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  ErrorResponse
// @Failure      409  {object}  ErrorResponse
// @Router       /access-requests/{id}/cancel [post]
func (c *AccessController) CancelAccessRequest() {
	id, ok := c.requestIDParam()
	if !ok {
		return
	}

	actor := middleware.CurrentActor(c.Ctx)
	if actor == nil {
		response.Unauthorized(c.Ctx)
		return
	}

	accessService := c.Container.GetService("access").(services.InterfaceAccessService)
	request, err := accessService.CancelAccessRequest(id, actor)
	if err != nil {
		c.failFromServiceError(err)
		return
	}

	response.Success(c.Ctx, gin.H{
		"request":     request,
		"status_info": request.Status.Info(),
	})
}

// requestIDParam 解析路径中的访问请求ID
func (c *AccessController) requestIDParam() (uint, bool) {
	id := c.Ctx.Param("id")
	if id == "" {
		response.ParamError(c.Ctx, "访问请求ID不能为空")
		return 0, false
	}

	idUint, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		response.ParamError(c.Ctx, "无效的访问请求ID")
		return 0, false
	}
	return uint(idUint), true
}

// failFromServiceError 把服务层错误映射为响应
func (c *AccessController) failFromServiceError(err error) {
	switch {
	case err == services.ErrNotAuthenticated:
		response.Unauthorized(c.Ctx)
	case err.Error() == "访问请求不存在":
		response.NotFound(c.Ctx, err.Error())
	case strings.HasPrefix(err.Error(), "非法的状态流转"):
		response.FailWithMessage(c.Ctx, code.ErrAccessTransitionIllegal, err.Error(), nil)
	case strings.HasPrefix(err.Error(), "无效的访问请求状态"):
		response.FailWithMessage(c.Ctx, code.ErrAccessStatusInvalid, err.Error(), nil)
	default:
		response.FailWithMessage(c.Ctx, code.ErrDatabase, err.Error(), nil)
	}
}
