package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
	"github.com/PazzonEx/condy-access-service/utils"
)

// InterfaceDriverService defines the driver service interface
type InterfaceDriverService interface {
	GetAllDrivers(page int, pageSize int) ([]models.Driver, int64, error)
	GetDriverByID(id uint) (*models.Driver, error)
	GetDriverByUserID(userID uint) (*models.Driver, error)
	FindDriverByPlate(plate string) (*models.Driver, error)
	CreateDriver(driver *models.Driver) error
	UpdateDriver(id uint, updates map[string]interface{}) (*models.Driver, error)
	DeleteDriver(id uint) error
}

// DriverService 提供司机档案相关的服务
type DriverService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewDriverService 创建一个新的司机服务
func NewDriverService(db *gorm.DB, cfg *config.Config) InterfaceDriverService {
	return &DriverService{
		DB:     db,
		Config: cfg,
	}
}

// GetAllDrivers 获取所有司机
func (s *DriverService) GetAllDrivers(page int, pageSize int) ([]models.Driver, int64, error) {
	var drivers []models.Driver
	var total int64
	if err := s.DB.Model(&models.Driver{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	if err := s.DB.Offset((page - 1) * pageSize).Limit(pageSize).Find(&drivers).Error; err != nil {
		return nil, 0, err
	}
	return drivers, total, nil
}

// GetDriverByID 根据ID获取司机
func (s *DriverService) GetDriverByID(id uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.DB.First(&driver, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("司机不存在")
		}
		return nil, err
	}
	return &driver, nil
}

// GetDriverByUserID 根据用户ID获取司机档案
func (s *DriverService) GetDriverByUserID(userID uint) (*models.Driver, error) {
	var driver models.Driver
	if err := s.DB.Where("user_id = ?", userID).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("司机不存在")
		}
		return nil, err
	}
	return &driver, nil
}

// FindDriverByPlate 按规范化车牌号查找司机
func (s *DriverService) FindDriverByPlate(plate string) (*models.Driver, error) {
	normalized := utils.FormatVehiclePlate(plate)
	if normalized == "" {
		return nil, errors.New("车牌号不能为空")
	}

	var driver models.Driver
	if err := s.DB.Where("vehicle_plate = ?", normalized).First(&driver).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("司机不存在")
		}
		return nil, err
	}
	return &driver, nil
}

// CreateDriver 创建新司机
func (s *DriverService) CreateDriver(driver *models.Driver) error {
	// 验证用户是否存在
	var user models.User
	if err := s.DB.First(&user, driver.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("用户不存在")
		}
		return err
	}

	// 每个用户只能有一份司机档案
	var count int64
	if err := s.DB.Model(&models.Driver{}).Where("user_id = ?", driver.UserID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errors.New("司机已存在")
	}

	return s.DB.Create(driver).Error
}

// UpdateDriver 更新司机信息
func (s *DriverService) UpdateDriver(id uint, updates map[string]interface{}) (*models.Driver, error) {
	driver, err := s.GetDriverByID(id)
	if err != nil {
		return nil, err
	}

	// 更新中包含车牌号时先规范化
	if plate, ok := updates["vehicle_plate"].(string); ok {
		updates["vehicle_plate"] = utils.FormatVehiclePlate(plate)
	}

	if err := s.DB.Model(driver).Updates(updates).Error; err != nil {
		return nil, err
	}
	return driver, nil
}

// DeleteDriver 删除司机
func (s *DriverService) DeleteDriver(id uint) error {
	driver, err := s.GetDriverByID(id)
	if err != nil {
		return err
	}
	return s.DB.Delete(driver).Error
}
