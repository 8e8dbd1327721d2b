package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// InterfaceCondoService defines the condo service interface
type InterfaceCondoService interface {
	GetAllCondos(page int, pageSize int) ([]models.Condo, int64, error)
	GetCondoByID(id uint) (*models.Condo, error)
	GetCondoByUserID(userID uint) (*models.Condo, error)
	CreateCondo(condo *models.Condo) error
	UpdateCondo(id uint, updates map[string]interface{}) (*models.Condo, error)
	DeleteCondo(id uint) error
}

// CondoService 提供小区档案相关的服务
type CondoService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewCondoService 创建一个新的小区服务
func NewCondoService(db *gorm.DB, cfg *config.Config) InterfaceCondoService {
	return &CondoService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllCondos 获取所有小区
func (s *CondoService) GetAllCondos(page int, pageSize int) ([]models.Condo, int64, error) {
	var condos []models.Condo
	var total int64
	if err := s.DB.Model(&models.Condo{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&condos).Error; err != nil {
		return nil, 0, err
	}
	return condos, total, nil
}

// GetCondoByID 根据ID获取小区
func (s *CondoService) GetCondoByID(id uint) (*models.Condo, error) {
	var condo models.Condo
	if err := s.DB.First(&condo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("小区不存在")
		}
		return nil, err
	}
	return &condo, nil
}

// GetCondoByUserID 根据用户ID获取小区档案
func (s *CondoService) GetCondoByUserID(userID uint) (*models.Condo, error) {
	var condo models.Condo
	if err := s.DB.Where("user_id = ?", userID).First(&condo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("小区不存在")
		}
		return nil, err
	}
	return &condo, nil
}

// CreateCondo 创建新小区
func (s *CondoService) CreateCondo(condo *models.Condo) error {
	// 验证用户是否存在
	var user models.User
	if err := s.DB.First(&user, condo.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("用户不存在")
		}
		return err
	}

	// 每个用户只能有一份小区档案
	var count int64
	if err := s.DB.Model(&models.Condo{}).Where("user_id = ?", condo.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("小区已存在")
	}

	return s.DB.Create(condo).Error
}

// UpdateCondo 更新小区信息
func (s *CondoService) UpdateCondo(id uint, updates map[string]interface{}) (*models.Condo, error) {
	condo, err := s.GetCondoByID(id)
	if err != nil {
		return nil, err
	}

	if err := s.DB.Model(condo).Updates(updates).Error; err != nil {
		return nil, err
	}
	return condo, nil
}

// DeleteCondo 删除小区
func (s *CondoService) DeleteCondo(id uint) error {
	condo, err := s.GetCondoByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(condo).Error
}
