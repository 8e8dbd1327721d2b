package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
	"github.com/PazzonEx/condy-access-service/pkg/logger"
)

// QRPayload 通行二维码的序列化内容。
// 只存在于签发方内存和展示渠道中，从不落库；expiresAt是唯一的时效约束。
type QRPayload struct {
	RequestID    uint   `json:"requestId"`
	ResidentID   *uint  `json:"residentId,omitempty"`
	DriverID     *uint  `json:"driverId,omitempty"`
	DriverName   string `json:"driverName,omitempty"`
	VehiclePlate string `json:"vehiclePlate,omitempty"`
	Unit         string `json:"unit,omitempty"`
	Block        string `json:"block,omitempty"`
	CondoID      *uint  `json:"condoId,omitempty"`
	CondoName    string `json:"condoName,omitempty"`
	ExpiresAt    int64  `json:"expiresAt"`   // 过期时间，Unix毫秒
	GeneratedAt  int64  `json:"generatedAt"` // 签发时间，Unix毫秒
}

// QRValidationResult 核验结果。
// 业务性拒绝一律通过Valid=false加原因返回，不抛错误，方便扫码端直接展示。
type QRValidationResult struct {
	Valid   bool                  `json:"valid"`
	Message string                `json:"message"`
	Request *models.AccessRequest `json:"request,omitempty"`
}

// InterfaceQRService 定义通行二维码服务接口
type InterfaceQRService interface {
	GenerateAccessQRCode(requestID uint, actor *Actor) (*QRPayload, []byte, error)
	ValidateAccessQRCode(rawPayload string, actor *Actor) (*QRValidationResult, error)
}

// QRService 提供通行二维码的签发与核验
type QRService struct {
	DB       *gorm.DB
	Config   *config.Config
	Notifier InterfaceNotificationService
	Redis    InterfaceRedisService
}

// NewQRService 创建一个新的通行二维码服务
func NewQRService(db *gorm.DB, cfg *config.Config, notifier InterfaceNotificationService, redis InterfaceRedisService) InterfaceQRService {
	return &QRService{
		DB:       db,
		Config:   cfg,
		Notifier: notifier,
		Redis:    redis,
	}
}

// 非授权状态对应的核验拒绝原因
var qrRejectionMessageMap = map[models.AccessStatus]string{
	models.AccessStatusPending:          "该请求尚未被授权",
	models.AccessStatusPendingResident:  "该请求正在等待住户确认",
	models.AccessStatusArrived:          "该二维码已被使用，司机已确认到达",
	models.AccessStatusEntered:          "司机已进入小区，二维码已失效",
	models.AccessStatusCompleted:        "本次访问已结束，二维码已失效",
	models.AccessStatusDenied:           "该请求已被门卫拒绝",
	models.AccessStatusDeniedByResident: "该请求已被住户拒绝",
	models.AccessStatusCanceled:         "该请求已被取消",
}

// GenerateAccessQRCode 为已授权的访问请求签发通行二维码。
// 仅请求的住户、司机或所属小区门卫可以签发；返回载荷和PNG图像，载荷不落库。
func (s *QRService) GenerateAccessQRCode(requestID uint, actor *Actor) (*QRPayload, []byte, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, nil, ErrNotAuthenticated
	}

	var request models.AccessRequest
	if err := s.DB.First(&request, requestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, errors.New("访问请求不存在")
		}
		return nil, nil, err
	}

	if request.Status != models.AccessStatusAuthorized {
		return nil, nil, fmt.Errorf("访问请求未处于已授权状态，当前状态: %s", request.Status)
	}

	if !s.actorOwnsRequest(actor, &request) {
		return nil, nil, errors.New("不是该访问请求的相关方，无法生成通行二维码")
	}

	// 小区名称缺失不阻断签发
	var condoName string
	if request.CondoID != nil {
		var condo models.Condo
		if err := s.DB.First(&condo, *request.CondoID).Error; err != nil {
			logger.Warning("加载二维码小区名称失败 condo_id=%d: %v", *request.CondoID, err)
		} else {
			condoName = condo.Name
		}
	}

	now := time.Now()
	expiry := time.Duration(s.Config.QRCodeExpiryMinutes) * time.Minute

	payload := &QRPayload{
		RequestID:    request.ID,
		ResidentID:   request.ResidentID,
		DriverID:     request.DriverID,
		DriverName:   request.DriverName,
		VehiclePlate: request.VehiclePlate,
		Unit:         request.Unit,
		Block:        request.Block,
		CondoID:      request.CondoID,
		CondoName:    condoName,
		ExpiresAt:    now.Add(expiry).UnixMilli(),
		GeneratedAt:  now.UnixMilli(),
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}

	png, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, nil, fmt.Errorf("二维码生成失败: %w", err)
	}

	return payload, png, nil
}

// ValidateAccessQRCode 核验扫描到的二维码内容。
// 业务性失败（解析失败、过期、状态不符、无权限）全部以结果形式返回，
// 只有基础设施错误才返回error；核验通过时原子地把请求置为arrived并记录扫码人。
func (s *QRService) ValidateAccessQRCode(rawPayload string, actor *Actor) (*QRValidationResult, error) {
	if actor == nil || actor.UserID == 0 {
		return nil, ErrNotAuthenticated
	}

	var payload QRPayload
	if err := json.Unmarshal([]byte(rawPayload), &payload); err != nil {
		return &QRValidationResult{Valid: false, Message: "二维码内容无法解析"}, nil
	}

	if payload.RequestID == 0 {
		return &QRValidationResult{Valid: false, Message: "二维码缺少访问请求信息"}, nil
	}

	// 先查时效：过期的二维码无论请求当前状态如何都直接拒绝
	if payload.ExpiresAt > 0 && time.Now().UnixMilli() > payload.ExpiresAt {
		return &QRValidationResult{Valid: false, Message: "通行二维码已过期"}, nil
	}

	var request models.AccessRequest
	if err := s.DB.First(&request, payload.RequestID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &QRValidationResult{Valid: false, Message: "访问请求不存在"}, nil
		}
		return nil, err
	}

	if request.Status != models.AccessStatusAuthorized {
		message, ok := qrRejectionMessageMap[request.Status]
		if !ok {
			message = "访问请求未处于已授权状态"
		}
		return &QRValidationResult{Valid: false, Message: message}, nil
	}

	if !s.actorMayScan(actor, &request) {
		return &QRValidationResult{Valid: false, Message: "没有权限核验该二维码"}, nil
	}

	// 扫码锁：同一请求的并发扫码只放行第一个
	if s.Redis != nil {
		acquired, err := s.Redis.AcquireScanLock(request.ID, 10*time.Second)
		if err != nil {
			logger.Warning("获取扫码锁失败 request_id=%d: %v", request.ID, err)
		} else if !acquired {
			return &QRValidationResult{Valid: false, Message: "该二维码正在核验中"}, nil
		} else {
			defer func() {
				if err := s.Redis.ReleaseScanLock(request.ID); err != nil {
					logger.Warning("释放扫码锁失败 request_id=%d: %v", request.ID, err)
				}
			}()
		}
	}

	// 条件更新保证authorized->arrived只发生一次，并发扫码落败方拿到0行
	result := s.DB.Model(&models.AccessRequest{}).
		Where("id = ? AND status = ?", request.ID, models.AccessStatusAuthorized).
		Updates(map[string]interface{}{
			"status":     models.AccessStatusArrived,
			"scanned_by": actor.UserID,
			"updated_by": actor.UserID,
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return &QRValidationResult{Valid: false, Message: "该二维码已被使用，司机已确认到达"}, nil
	}

	if err := s.DB.First(&request, request.ID).Error; err != nil {
		return nil, err
	}

	if s.Notifier != nil {
		s.Notifier.NotifyStatusChange(&request, models.AccessStatusArrived)
	}

	return &QRValidationResult{Valid: true, Message: "核验通过", Request: &request}, nil
}

// actorOwnsRequest 检查调用者是否为请求的住户、司机或所属小区门卫，管理员放行
func (s *QRService) actorOwnsRequest(actor *Actor, request *models.AccessRequest) bool {
	role := actor.Role
	if role == "" {
		var user models.User
		if err := s.DB.First(&user, actor.UserID).Error; err != nil {
			return false
		}
		role = user.Type
	}

	switch role {
	case models.UserTypeAdmin:
		return true
	case models.UserTypeResident:
		if request.ResidentID == nil {
			return false
		}
		var resident models.Resident
		if err := s.DB.Where("user_id = ?", actor.UserID).First(&resident).Error; err != nil {
			return false
		}
		return resident.ID == *request.ResidentID
	case models.UserTypeDriver:
		if request.DriverID == nil {
			return false
		}
		var driver models.Driver
		if err := s.DB.Where("user_id = ?", actor.UserID).First(&driver).Error; err != nil {
			return false
		}
		return driver.ID == *request.DriverID
	case models.UserTypeCondo:
		return s.actorMatchesCondo(actor, request)
	}
	return false
}

// actorMayScan 核验权限：所属小区的门卫或管理员
func (s *QRService) actorMayScan(actor *Actor, request *models.AccessRequest) bool {
	role := actor.Role
	if role == "" {
		var user models.User
		if err := s.DB.First(&user, actor.UserID).Error; err != nil {
			return false
		}
		role = user.Type
	}

	if role == models.UserTypeAdmin {
		return true
	}
	if role != models.UserTypeCondo {
		return false
	}
	return s.actorMatchesCondo(actor, request)
}

// actorMatchesCondo 检查门卫调用者是否隶属请求所在小区
func (s *QRService) actorMatchesCondo(actor *Actor, request *models.AccessRequest) bool {
	if request.CondoID == nil {
		return false
	}
	if actor.CondoID != nil {
		return *actor.CondoID == *request.CondoID
	}

	var condo models.Condo
	if err := s.DB.Where("user_id = ?", actor.UserID).First(&condo).Error; err != nil {
		return false
	}
	return condo.ID == *request.CondoID
}
