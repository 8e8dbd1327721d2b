package models

import (
	"time"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/utils"
)

// AccessStatus represents the lifecycle state of an access request
type AccessStatus string

const (
	// AccessStatusPending 等待门卫处理
	AccessStatusPending AccessStatus = "pending"
	// AccessStatusPendingResident 司机发起，等待住户确认
	AccessStatusPendingResident AccessStatus = "pending_resident"
	// AccessStatusAuthorized 门卫已授权，可生成通行二维码
	AccessStatusAuthorized AccessStatus = "authorized"
	// AccessStatusArrived 已扫码确认到达
	AccessStatusArrived AccessStatus = "arrived"
	// AccessStatusEntered 已开门进入
	AccessStatusEntered AccessStatus = "entered"
	// AccessStatusCompleted 访问结束
	AccessStatusCompleted AccessStatus = "completed"
	// AccessStatusDenied 门卫拒绝
	AccessStatusDenied AccessStatus = "denied"
	// AccessStatusDeniedByResident 住户拒绝
	AccessStatusDeniedByResident AccessStatus = "denied_by_resident"
	// AccessStatusCanceled 发起方主动取消
	AccessStatusCanceled AccessStatus = "canceled"
)

// AccessRequestType 请求类别，目前只有司机访问
const AccessRequestTypeDriver = "driver"

// AccessStatusInfo 状态展示信息，整个系统只定义这一份查找表
type AccessStatusInfo struct {
	Label       string `json:"label"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// 状态展示信息映射
var accessStatusInfoMap = map[AccessStatus]AccessStatusInfo{
	AccessStatusPending:          {Label: "待处理", Color: "#FFA000", Icon: "clock-outline", Description: "等待门卫处理"},
	AccessStatusPendingResident:  {Label: "待住户确认", Color: "#FF6F00", Icon: "account-clock", Description: "等待住户确认放行"},
	AccessStatusAuthorized:       {Label: "已授权", Color: "#43A047", Icon: "check-circle-outline", Description: "门卫已授权，等待到达"},
	AccessStatusArrived:          {Label: "已到达", Color: "#1E88E5", Icon: "map-marker-check", Description: "已扫码确认到达门岗"},
	AccessStatusEntered:          {Label: "已进入", Color: "#3949AB", Icon: "door-open", Description: "已开门进入小区"},
	AccessStatusCompleted:        {Label: "已完成", Color: "#757575", Icon: "flag-checkered", Description: "本次访问已结束"},
	AccessStatusDenied:           {Label: "已拒绝", Color: "#E53935", Icon: "close-circle-outline", Description: "门卫拒绝了该请求"},
	AccessStatusDeniedByResident: {Label: "住户拒绝", Color: "#D81B60", Icon: "account-cancel", Description: "住户拒绝了该请求"},
	AccessStatusCanceled:         {Label: "已取消", Color: "#9E9E9E", Icon: "cancel", Description: "发起方取消了该请求"},
}

// 状态流转表，只有表中的(from, to)组合才允许写入
var accessTransitionMap = map[AccessStatus][]AccessStatus{
	AccessStatusPendingResident: {AccessStatusPending, AccessStatusDeniedByResident},
	AccessStatusPending:         {AccessStatusAuthorized, AccessStatusDenied, AccessStatusCanceled},
	AccessStatusAuthorized:      {AccessStatusArrived, AccessStatusCanceled},
	AccessStatusArrived:         {AccessStatusEntered},
	AccessStatusEntered:         {AccessStatusCompleted},
}

// IsValid 检查状态值是否属于状态枚举
func (s AccessStatus) IsValid() bool {
	_, ok := accessStatusInfoMap[s]
	return ok
}

// Info 获取状态的展示信息
func (s AccessStatus) Info() AccessStatusInfo {
	if info, ok := accessStatusInfoMap[s]; ok {
		return info
	}
	return AccessStatusInfo{Label: string(s)}
}

// IsTerminal 终态不允许再流转
func (s AccessStatus) IsTerminal() bool {
	_, ok := accessTransitionMap[s]
	return !ok && s.IsValid()
}

// CanTransitionTo 检查状态流转是否合法
func (s AccessStatus) CanTransitionTo(target AccessStatus) bool {
	for _, t := range accessTransitionMap[s] {
		if t == target {
			return true
		}
	}
	return false
}

// AccessRequest represents one driver-entry request tracked through its lifecycle
type AccessRequest struct {
	ID           uint         `gorm:"primaryKey" json:"id"`
	Status       AccessStatus `gorm:"type:varchar(20);index;default:'pending'" json:"status"`
	ResidentID   *uint        `gorm:"index" json:"resident_id"`
	DriverID     *uint        `gorm:"index" json:"driver_id"`
	CondoID      *uint        `gorm:"index" json:"condo_id"`
	Unit         string       `gorm:"type:varchar(20)" json:"unit"`
	Block        string       `gorm:"type:varchar(20)" json:"block"`
	DriverName   string       `gorm:"type:varchar(100)" json:"driver_name"`
	VehiclePlate string       `gorm:"type:varchar(10)" json:"vehicle_plate"` // 规范化后的车牌号
	VehicleModel string       `gorm:"type:varchar(50)" json:"vehicle_model"`
	Comment      string       `gorm:"type:varchar(500)" json:"comment"`
	Type         string       `gorm:"type:varchar(20);default:'driver'" json:"type"`
	CreatedBy    uint         `json:"created_by"`           // 创建者用户ID
	UpdatedBy    uint         `json:"updated_by"`           // 最后修改者用户ID
	ScannedBy    *uint        `json:"scanned_by,omitempty"` // 扫码确认到达的用户ID
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relations
	Resident *Resident `gorm:"foreignKey:ResidentID" json:"resident,omitempty"`
	Driver   *Driver   `gorm:"foreignKey:DriverID" json:"driver,omitempty"`
	Condo    *Condo    `gorm:"foreignKey:CondoID" json:"condo,omitempty"`
}

// BeforeSave 是一个GORM钩子，保存前规范化车牌号并补全请求类别
func (r *AccessRequest) BeforeSave(tx *gorm.DB) error {
	if r.VehiclePlate != "" {
		r.VehiclePlate = utils.FormatVehiclePlate(r.VehiclePlate)
	}
	if r.Type == "" {
		r.Type = AccessRequestTypeDriver
	}
	return nil
}
