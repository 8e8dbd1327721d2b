package services

import (
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
	"github.com/PazzonEx/condy-access-service/pkg/logger"
)

// 主题常量
const (
	// TopicAccessStatus 访问请求状态变更通知主题，按请求ID细分
	TopicAccessStatus = "condy/access/status"

	// TopicSystemMessage 系统消息主题
	TopicSystemMessage = "condy/system"
)

// InterfaceNotificationService 定义状态变更通知服务接口。
// 通知是尽力而为的：调用方从不等待结果，发送失败只记录日志，绝不向上传播。
type InterfaceNotificationService interface {
	Connect() error
	Disconnect()
	NotifyStatusChange(request *models.AccessRequest, status models.AccessStatus)
	PublishSystemMessage(level string, message string, data interface{}) error
}

// StatusNotification 状态变更通知消息
type StatusNotification struct {
	MessageID    string `json:"message_id"`
	RequestID    uint   `json:"request_id"`
	Status       string `json:"status"`
	Title        string `json:"title"`
	Body         string `json:"body"`
	ResidentID   *uint  `json:"resident_id,omitempty"`
	DriverID     *uint  `json:"driver_id,omitempty"`
	CondoID      *uint  `json:"condo_id,omitempty"`
	DriverName   string `json:"driver_name,omitempty"`
	VehiclePlate string `json:"vehicle_plate,omitempty"`
	Timestamp    int64  `json:"timestamp"`
}

// SystemMessage 系统消息
type SystemMessage struct {
	Type      string      `json:"type"`
	Level     string      `json:"level"` // info/warning/error
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// 状态到推送文案的映射，未知状态不产生通知
var statusNotificationMap = map[models.AccessStatus]struct {
	Title string
	Body  string
}{
	models.AccessStatusPending:    {Title: "新的访问请求", Body: "有新的司机访问请求等待处理"},
	models.AccessStatusAuthorized: {Title: "访问已授权", Body: "门卫已授权本次访问，可出示通行二维码"},
	models.AccessStatusArrived:    {Title: "司机已到达", Body: "司机已扫码确认到达门岗"},
	models.AccessStatusEntered:    {Title: "司机已进入", Body: "门卫已放行，司机已进入小区"},
	models.AccessStatusCompleted:  {Title: "访问已完成", Body: "本次访问已结束"},
	models.AccessStatusDenied:     {Title: "访问被拒绝", Body: "门卫拒绝了本次访问请求"},
}

// NotificationService 基于MQTT的状态变更通知实现
type NotificationService struct {
	Config      *config.Config
	Client      mqtt.Client
	IsConnected bool
}

// NewNotificationService 创建一个新的通知服务
func NewNotificationService(cfg *config.Config) *NotificationService {
	return &NotificationService{
		Config: cfg,
	}
}

// Connect 连接MQTT服务器
func (s *NotificationService) Connect() error {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(s.Config.MQTTBroker)
	opts.SetClientID(s.Config.MQTTClientID + "-" + uuid.New().String()[:8])
	opts.SetUsername(s.Config.MQTTUsername)
	opts.SetPassword(s.Config.MQTTPassword)
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(10 * time.Second)
	opts.SetTLSConfig(&tls.Config{InsecureSkipVerify: true})

	opts.OnConnect = func(client mqtt.Client) {
		s.IsConnected = true
		logger.Info("MQTT通知服务已连接: %s", s.Config.MQTTBroker)
	}
	opts.OnConnectionLost = func(client mqtt.Client, err error) {
		s.IsConnected = false
		logger.Warning("MQTT连接断开: %v", err)
	}

	s.Client = mqtt.NewClient(opts)
	token := s.Client.Connect()
	if !token.WaitTimeout(10 * time.Second) {
		return fmt.Errorf("MQTT连接超时")
	}
	return token.Error()
}

// Disconnect 断开MQTT连接
func (s *NotificationService) Disconnect() {
	if s.Client != nil && s.Client.IsConnected() {
		s.Client.Disconnect(250)
		s.IsConnected = false
	}
}

// NotifyStatusChange 按新状态推送本地通知。
// 在独立协程中发送，失败只记录日志，不影响主流程。
func (s *NotificationService) NotifyStatusChange(request *models.AccessRequest, status models.AccessStatus) {
	text, ok := statusNotificationMap[status]
	if !ok {
		// 未知状态不产生通知
		return
	}

	notification := StatusNotification{
		MessageID:    uuid.New().String(),
		RequestID:    request.ID,
		Status:       string(status),
		Title:        text.Title,
		Body:         text.Body,
		ResidentID:   request.ResidentID,
		DriverID:     request.DriverID,
		CondoID:      request.CondoID,
		DriverName:   request.DriverName,
		VehiclePlate: request.VehiclePlate,
		Timestamp:    time.Now().UnixMilli(),
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("状态通知发送出现异常: %v", r)
			}
		}()

		if err := s.publish(fmt.Sprintf("%s/%d", TopicAccessStatus, request.ID), notification); err != nil {
			logger.Warning("状态通知发送失败 request_id=%d status=%s: %v", request.ID, status, err)
		}
	}()
}

// PublishSystemMessage 发布系统消息
func (s *NotificationService) PublishSystemMessage(level string, message string, data interface{}) error {
	msg := SystemMessage{
		Type:      "system",
		Level:     level,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}
	return s.publish(TopicSystemMessage, msg)
}

// publish 序列化并发布消息
func (s *NotificationService) publish(topic string, payload interface{}) error {
	if s.Client == nil || !s.Client.IsConnected() {
		return fmt.Errorf("MQTT客户端未连接")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	token := s.Client.Publish(topic, 1, false, data)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("MQTT消息发布超时")
	}
	return token.Error()
}
