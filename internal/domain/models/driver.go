package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/utils"
)

// Driver represents a driver profile, keyed by the login account
type Driver struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name         string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone        string    `gorm:"type:varchar(20)" json:"phone"`
	VehiclePlate string    `gorm:"type:varchar(10)" json:"vehicle_plate"` // 规范化后的车牌号
	VehicleModel string    `gorm:"type:varchar(50)" json:"vehicle_model"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// Relations
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// BeforeSave 是一个GORM钩子，保存前规范化车牌号
func (d *Driver) BeforeSave(tx *gorm.DB) error {
	if d.VehiclePlate != "" {
		d.VehiclePlate = utils.FormatVehiclePlate(d.VehiclePlate)
	}
	return nil
}
