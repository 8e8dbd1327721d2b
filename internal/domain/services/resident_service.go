package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// InterfaceResidentService defines the resident service interface
type InterfaceResidentService interface {
	GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error)
	GetResidentByID(id uint) (*models.Resident, error)
	GetResidentByUserID(userID uint) (*models.Resident, error)
	CreateResident(resident *models.Resident) error
	UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error)
	DeleteResident(id uint) error
}

// ResidentService 提供住户档案相关的服务
type ResidentService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewResidentService 创建一个新的住户服务
func NewResidentService(db *gorm.DB, cfg *config.Config) InterfaceResidentService {
	return &ResidentService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllResidents 获取所有住户
func (s *ResidentService) GetAllResidents(page int, pageSize int) ([]models.Resident, int64, error) {
	var residents []models.Resident
	var total int64
	if err := s.DB.Model(&models.Resident{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&residents).Error; err != nil {
		return nil, 0, err
	}
	return residents, total, nil
}

// GetResidentByID 根据ID获取住户
func (s *ResidentService) GetResidentByID(id uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.First(&resident, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("住户不存在")
		}
		return nil, err
	}
	return &resident, nil
}

// GetResidentByUserID 根据用户ID获取住户档案
func (s *ResidentService) GetResidentByUserID(userID uint) (*models.Resident, error) {
	var resident models.Resident
	if err := s.DB.Where("user_id = ?", userID).First(&resident).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("住户不存在")
		}
		return nil, err
	}
	return &resident, nil
}

// CreateResident 创建新住户
func (s *ResidentService) CreateResident(resident *models.Resident) error {
	// 验证用户是否存在
	var user models.User
	if err := s.DB.First(&user, resident.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("用户不存在")
		}
		return err
	}

	// 每个用户只能有一份住户档案
	var count int64
	if err := s.DB.Model(&models.Resident{}).Where("user_id = ?", resident.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("住户已存在")
	}

	return s.DB.Create(resident).Error
}

// UpdateResident 更新住户信息
func (s *ResidentService) UpdateResident(id uint, updates map[string]interface{}) (*models.Resident, error) {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(resident).Updates(updates).Error; err != nil {
		return nil, err
	}
	return resident, nil
}

// DeleteResident 删除住户
func (s *ResidentService) DeleteResident(id uint) error {
	resident, err := s.GetResidentByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(resident).Error
}
