package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/utils"
)

// UserType represents the role a login account carries
type UserType string

const (
	UserTypeResident UserType = "resident"
	UserTypeDriver   UserType = "driver"
	UserTypeCondo    UserType = "condo"
	UserTypeAdmin    UserType = "admin"
)

// UserStatus represents the activation state of an account
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// User represents a login principal of the platform
type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Email       string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	DisplayName string     `gorm:"type:varchar(100)" json:"display_name"`
	Password    string     `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Type        UserType   `gorm:"type:varchar(20);default:'resident'" json:"type"`
	Status      UserStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:UserID" json:"resident,omitempty"`
	Driver   *Driver   `gorm:"foreignKey:UserID" json:"driver,omitempty"`
	Condo    *Condo    `gorm:"foreignKey:UserID" json:"condo,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (u *User) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if u.Password != "" && len(u.Password) < 60 {
		hashedPassword, err := utils.HashPassword(u.Password)
		if err != nil {
			return err
		}
		u.Password = hashedPassword
	}
	return nil
}

// IsActive 检查账户是否处于激活状态
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
