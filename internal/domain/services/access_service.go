package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
	"github.com/PazzonEx/condy-access-service/pkg/logger"
	"github.com/PazzonEx/condy-access-service/utils"
)

// Actor 标识一次调用的已认证主体，由认证中间件从JWT声明构建
type Actor struct {
	UserID  uint
	Role    models.UserType
	CondoID *uint // 门卫/物业所属小区ID（来自令牌声明）
}

// ErrNotAuthenticated 未认证错误，所有需要登录的操作共用
var ErrNotAuthenticated = errors.New("用户未登录")

// CreateAccessRequestInput 创建访问请求的输入
type CreateAccessRequestInput struct {
	ResidentID   *uint  `json:"resident_id"`
	DriverID     *uint  `json:"driver_id"`
	CondoID      *uint  `json:"condo_id"`
	Unit         string `json:"unit"`
	Block        string `json:"block"`
	DriverName   string `json:"driver_name"`
	VehiclePlate string `json:"vehicle_plate"`
	VehicleModel string `json:"vehicle_model"`
	Comment      string `json:"comment"`
}

// InterfaceAccessService 定义访问请求服务接口
type InterfaceAccessService interface {
	CreateAccessRequest(actor *Actor, role models.UserType, input *CreateAccessRequestInput) (*models.AccessRequest, error)
	GetAccessRequests(actor *Actor, statusFilter []models.AccessStatus, limit int) ([]models.AccessRequest, error)
	GetAccessRequestDetails(id uint) (*models.AccessRequest, error)
	UpdateAccessRequestStatus(id uint, newStatus models.AccessStatus, actor *Actor, extra map[string]interface{}) (*models.AccessRequest, error)
	CancelAccessRequest(id uint, actor *Actor) (*models.AccessRequest, error)
	ResolveActorRole(actor *Actor) (models.UserType, error)
}

// AccessService 提供访问请求生命周期相关服务
type AccessService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotificationService
}

// NewAccessService 创建一个新的访问请求服务
func NewAccessService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotificationService) InterfaceAccessService {
	return &AccessService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
	}
}

// ResolveActorRole 解析调用者的角色。
// 优先使用令牌中的角色声明，否则读取用户档案的type字段，默认为住户。
func (s *AccessService) ResolveActorRole(actor *Actor) (models.UserType, error) {
	if actor == nil || actor.UserID == 0 {
		return "", ErrNotAuthenticated
	}
	if actor.Role != "" {
		return actor.Role, nil
	}

	var user models.User
	if err := s.DB.First(&user, actor.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", errors.New("用户不存在")
		}
		return "", err
	}
	if user.Type == "" {
		return models.UserTypeResident, nil
	}
	return user.Type, nil
}

// CreateAccessRequest 创建新的访问请求。
// 未显式给出角色时从用户档案解析，按角色填充各自的"本方"字段，
// 并把未在输入中给出的描述性字段从档案中冗余一份，省去后续渲染时的联表。
func (s *AccessService) CreateAccessRequest(actor *Actor, role models.UserType, input *CreateAccessRequestInput) (*models.AccessRequest, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if input == nil {
		input = &CreateAccessRequestInput{}
	}

	if role == "" {
		resolved, err := s.ResolveActorRole(actor)
		if err != nil {
			return nil, err
		}
		role = resolved
	}

	var request *models.AccessRequest
	var err error
	switch role {
	case models.UserTypeResident:
		request, err = s.newResidentRequest(actor, input)
	case models.UserTypeDriver:
		request, err = s.newDriverRequest(actor, input)
	case models.UserTypeCondo:
		request, err = s.newCondoRequest(actor, input)
	default:
		request = s.newGenericRequest(input)
	}
	if err != nil {
		return nil, err
	}

	request.Type = models.AccessRequestTypeDriver
	request.CreatedBy = actor.UserID
	request.UpdatedBy = actor.UserID
	if request.VehiclePlate != "" {
		request.VehiclePlate = utils.FormatVehiclePlate(request.VehiclePlate)
	}

	if err := s.DB.Create(request).Error; err != nil {
		return nil, err
	}

	s.notify(request, request.Status)
	return request, nil
}

// newResidentRequest 住户发起：填充residentId为本人，冗余住户的单元/楼栋
func (s *AccessService) newResidentRequest(actor *Actor, input *CreateAccessRequestInput) (*models.AccessRequest, error) {
	var resident models.Resident
	if err := s.DB.Where("user_id = ?", actor.UserID).First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("住户不存在")
		}
		return nil, err
	}

	request := &models.AccessRequest{
		Status:       models.AccessStatusPending,
		ResidentID:   &resident.ID,
		DriverID:     input.DriverID,
		CondoID:      firstNonNil(input.CondoID, resident.CondoID),
		Unit:         firstNonEmpty(input.Unit, resident.Unit),
		Block:        firstNonEmpty(input.Block, resident.Block),
		DriverName:   input.DriverName,
		VehiclePlate: input.VehiclePlate,
		VehicleModel: input.VehicleModel,
		Comment:      input.Comment,
	}
	return request, nil
}

// newDriverRequest 司机发起：填充driverId为本人，冗余车辆信息。
// 司机自行发起的请求需要住户先行确认，初始状态为pending_resident。
func (s *AccessService) newDriverRequest(actor *Actor, input *CreateAccessRequestInput) (*models.AccessRequest, error) {
	var driver models.Driver
	if err := s.DB.Where("user_id = ?", actor.UserID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("司机不存在")
		}
		return nil, err
	}

	request := &models.AccessRequest{
		Status:       models.AccessStatusPendingResident,
		ResidentID:   input.ResidentID,
		DriverID:     &driver.ID,
		CondoID:      input.CondoID,
		Unit:         input.Unit,
		Block:        input.Block,
		DriverName:   firstNonEmpty(input.DriverName, driver.Name),
		VehiclePlate: firstNonEmpty(input.VehiclePlate, driver.VehiclePlate),
		VehicleModel: firstNonEmpty(input.VehicleModel, driver.VehicleModel),
		Comment:      input.Comment,
	}
	return request, nil
}

// newCondoRequest 门卫代录：填充condoId为本小区，司机信息来自人工录入
func (s *AccessService) newCondoRequest(actor *Actor, input *CreateAccessRequestInput) (*models.AccessRequest, error) {
	condoID, err := s.resolveCondoID(actor)
	if err != nil {
		return nil, err
	}

	request := &models.AccessRequest{
		Status:       models.AccessStatusPending,
		ResidentID:   input.ResidentID,
		DriverID:     input.DriverID,
		CondoID:      condoID,
		Unit:         input.Unit,
		Block:        input.Block,
		DriverName:   input.DriverName,
		VehiclePlate: input.VehiclePlate,
		VehicleModel: input.VehicleModel,
		Comment:      input.Comment,
	}
	return request, nil
}

// newGenericRequest 兜底构造：不填充任何"本方"字段，只透传输入
func (s *AccessService) newGenericRequest(input *CreateAccessRequestInput) *models.AccessRequest {
	return &models.AccessRequest{
		Status:       models.AccessStatusPending,
		ResidentID:   input.ResidentID,
		DriverID:     input.DriverID,
		CondoID:      input.CondoID,
		Unit:         input.Unit,
		Block:        input.Block,
		DriverName:   input.DriverName,
		VehiclePlate: input.VehiclePlate,
		VehicleModel: input.VehicleModel,
		Comment:      input.Comment,
	}
}

// GetAccessRequests 按调用者角色过滤查询访问请求列表。
// 每个角色恰好应用一个归属过滤条件，管理员不加过滤；
// 可选的状态过滤支持单值和集合；始终按创建时间倒序。
func (s *AccessService) GetAccessRequests(actor *Actor, statusFilter []models.AccessStatus, limit int) ([]models.AccessRequest, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, ErrNotAuthenticated
	}

	role, err := s.ResolveActorRole(actor)
	if err != nil {
		return nil, err
	}

	query := s.DB.Model(&models.AccessRequest{})

	switch role {
	case models.UserTypeResident:
		var resident models.Resident
		if err := s.DB.Where("user_id = ?", actor.UserID).First(&resident).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("住户不存在")
			}
			return nil, err
		}
		query = query.Where("resident_id = ?", resident.ID)
	case models.UserTypeDriver:
		var driver models.Driver
		if err := s.DB.Where("user_id = ?", actor.UserID).First(&driver).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, errors.New("司机不存在")
			}
			return nil, err
		}
		query = query.Where("driver_id = ?", driver.ID)
	case models.UserTypeCondo:
		condoID, err := s.resolveCondoID(actor)
		if err != nil {
			return nil, err
		}
		query = query.Where("condo_id = ?", condoID)
	case models.UserTypeAdmin:
		// 管理员不加归属过滤
	default:
		return nil, fmt.Errorf("未知的用户角色: %s", role)
	}

	if len(statusFilter) == 1 {
		query = query.Where("status = ?", statusFilter[0])
	} else if len(statusFilter) > 1 {
		query = query.Where("status IN ?", statusFilter)
	}

	query = query.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var requests []models.AccessRequest
	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// GetAccessRequestDetails 获取单个访问请求及其关联档案。
// 关联档案逐个加载，缺失只记警告并置空，不导致整体失败。
func (s *AccessService) GetAccessRequestDetails(id uint) (*models.AccessRequest, error) {
	var request models.AccessRequest
	if err := s.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("访问请求不存在")
		}
		return nil, err
	}

	if request.ResidentID != nil {
		var resident models.Resident
		if err := s.DB.First(&resident, *request.ResidentID).Error; err != nil {
			logger.Warning("加载访问请求关联住户失败 request_id=%d resident_id=%d: %v", request.ID, *request.ResidentID, err)
		} else {
			request.Resident = &resident
		}
	}

	if request.DriverID != nil {
		var driver models.Driver
		if err := s.DB.First(&driver, *request.DriverID).Error; err != nil {
			logger.Warning("加载访问请求关联司机失败 request_id=%d driver_id=%d: %v", request.ID, *request.DriverID, err)
		} else {
			request.Driver = &driver
		}
	}

	if request.CondoID != nil {
		var condo models.Condo
		if err := s.DB.First(&condo, *request.CondoID).Error; err != nil {
			logger.Warning("加载访问请求关联小区失败 request_id=%d condo_id=%d: %v", request.ID, *request.CondoID, err)
		} else {
			request.Condo = &condo
		}
	}

	return &request, nil
}

// UpdateAccessRequestStatus 对访问请求应用一次状态流转。
// 只允许状态流转表中定义的(from, to)组合；响应方的"本方"外键在此懒填充；
// 状态写入成功后尽力而为地推送通知。
func (s *AccessService) UpdateAccessRequestStatus(id uint, newStatus models.AccessStatus, actor *Actor, extra map[string]interface{}) (*models.AccessRequest, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, ErrNotAuthenticated
	}
	if !newStatus.IsValid() {
		return nil, fmt.Errorf("无效的访问请求状态: %s", newStatus)
	}

	var request models.AccessRequest
	if err := s.DB.First(&request, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("访问请求不存在")
		}
		return nil, err
	}

	if !request.Status.CanTransitionTo(newStatus) {
		return nil, fmt.Errorf("非法的状态流转: %s -> %s", request.Status, newStatus)
	}

	updates := map[string]interface{}{
		"status":     newStatus,
		"updated_by": actor.UserID,
	}
	for k, v := range extra {
		updates[k] = v
	}

	// 响应方外键懒填充：门卫审批补齐condo_id，住户确认补齐resident_id
	role, err := s.ResolveActorRole(actor)
	if err == nil {
		switch role {
		case models.UserTypeCondo:
			if request.CondoID == nil {
				if condoID, err := s.resolveCondoID(actor); err == nil {
					updates["condo_id"] = condoID
				}
			}
		case models.UserTypeResident:
			if request.ResidentID == nil {
				var resident models.Resident
				if err := s.DB.Where("user_id = ?", actor.UserID).First(&resident).Error; err == nil {
					updates["resident_id"] = resident.ID
				}
			}
		}
	}

	if err := s.DB.Model(&request).Updates(updates).Error; err != nil {
		return nil, err
	}

	// 重新加载以获得数据库赋值的updated_at
	if err := s.DB.First(&request, id).Error; err != nil {
		return nil, err
	}

	s.notify(&request, newStatus)
	return &request, nil
}

// CancelAccessRequest 发起方主动撤回请求，仅pending/authorized状态允许
func (s *AccessService) CancelAccessRequest(id uint, actor *Actor) (*models.AccessRequest, error) {
	return s.UpdateAccessRequestStatus(id, models.AccessStatusCanceled, actor, nil)
}

// resolveCondoID 解析门卫调用者的小区ID：优先令牌声明，其次本人的小区档案
func (s *AccessService) resolveCondoID(actor *Actor) (*uint, error) {
	if actor.CondoID != nil {
		return actor.CondoID, nil
	}

	var condo models.Condo
	if err := s.DB.Where("user_id = ?", actor.UserID).First(&condo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("小区不存在")
		}
		return nil, err
	}
	return &condo.ID, nil
}

// notify 尽力而为地推送状态通知，通知服务缺失时直接跳过
func (s *AccessService) notify(request *models.AccessRequest, status models.AccessStatus) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.NotifyStatusChange(request, status)
}

// firstNonEmpty 返回第一个非空字符串
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// firstNonNil 返回第一个非nil指针
func firstNonNil(values ...*uint) *uint {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
