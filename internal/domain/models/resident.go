package models

import (
	"time"
)

// Resident represents a condominium resident profile, keyed by the login account
type Resident struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Unit      string    `gorm:"type:varchar(20)" json:"unit"`   // 单元/户号
	Block     string    `gorm:"type:varchar(20)" json:"block"`  // 楼栋
	CondoID   *uint     `gorm:"index" json:"condo_id"`          // 所属小区
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	User  *User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Condo *Condo `gorm:"foreignKey:CondoID" json:"condo,omitempty"`
}
