package models

import (
	"time"
)

// Condo represents a condominium (gatehouse operator) profile, keyed by the login account
type Condo struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	UserID               uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	Name                 string    `gorm:"type:varchar(100);not null" json:"name"`
	Address              string    `gorm:"type:varchar(200)" json:"address"`
	City                 string    `gorm:"type:varchar(100)" json:"city"`
	SubscriptionPassword string    `gorm:"type:varchar(100)" json:"-"` // 订阅网关使用，核心流程只读
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`

	// Relations
	User      *User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Residents []Resident `gorm:"foreignKey:CondoID" json:"residents,omitempty"`
}
