package services

import (
	"sync"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
	"github.com/PazzonEx/condy-access-service/internal/infrastructure/config"
)

// newTestDB 返回一个每个测试独立的内存数据库
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Resident{},
		&models.Driver{},
		&models.Condo{},
		&models.AccessRequest{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

// newTestConfig 返回测试用配置
func newTestConfig() *config.Config {
	return &config.Config{
		JWTSecretKey:        "test-secret",
		QRCodeExpiryMinutes: 30,
	}
}

// recordedNotification 记录一次推送的关键字段
type recordedNotification struct {
	RequestID uint
	Status    models.AccessStatus
}

// fakeNotifier 同步记录所有状态通知，代替MQTT实现
type fakeNotifier struct {
	mu   sync.Mutex
	sent []recordedNotification
}

func (f *fakeNotifier) Connect() error { return nil }
func (f *fakeNotifier) Disconnect() {}

func (f *fakeNotifier) NotifyStatusChange(request *models.AccessRequest, status models.AccessStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, recordedNotification{RequestID: request.ID, Status: status})
}

func (f *fakeNotifier) PublishSystemMessage(level string, message string, data interface{}) error {
	return nil
}

func (f *fakeNotifier) notifications() []recordedNotification {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedNotification, len(f.sent))
	copy(out, f.sent)
	return out
}

// testFixture 一组贯穿测试的基础档案
type testFixture struct {
	ResidentUser models.User
	DriverUser   models.User
	CondoUser    models.User
	AdminUser    models.User
	Resident     models.Resident
	Driver       models.Driver
	Condo        models.Condo
}

// seedFixture 写入一个小区、一名住户、一名司机和一个管理员
func seedFixture(t *testing.T, db *gorm.DB) *testFixture {
	t.Helper()

	f := &testFixture{
		ResidentUser: models.User{Email: "resident@test.local", Password: "secret123", DisplayName: "Maria", Type: models.UserTypeResident, Status: models.UserStatusActive},
		DriverUser:   models.User{Email: "driver@test.local", Password: "secret123", DisplayName: "João", Type: models.UserTypeDriver, Status: models.UserStatusActive},
		CondoUser:    models.User{Email: "condo@test.local", Password: "secret123", DisplayName: "Portaria", Type: models.UserTypeCondo, Status: models.UserStatusActive},
		AdminUser:    models.User{Email: "admin@test.local", Password: "secret123", DisplayName: "Admin", Type: models.UserTypeAdmin, Status: models.UserStatusActive},
	}

	for _, u := range []*models.User{&f.ResidentUser, &f.DriverUser, &f.CondoUser, &f.AdminUser} {
		if err := db.Create(u).Error; err != nil {
			t.Fatalf("seed user %s: %v", u.Email, err)
		}
	}

	f.Condo = models.Condo{UserID: f.CondoUser.ID, Name: "Residencial Jardim", Address: "Rua das Flores, 100", City: "São Paulo"}
	if err := db.Create(&f.Condo).Error; err != nil {
		t.Fatalf("seed condo: %v", err)
	}

	f.Resident = models.Resident{UserID: f.ResidentUser.ID, Name: "Maria Souza", Unit: "101", Block: "A", CondoID: &f.Condo.ID}
	if err := db.Create(&f.Resident).Error; err != nil {
		t.Fatalf("seed resident: %v", err)
	}

	f.Driver = models.Driver{UserID: f.DriverUser.ID, Name: "João Silva", VehiclePlate: "abc-1234", VehicleModel: "Fiat Uno"}
	if err := db.Create(&f.Driver).Error; err != nil {
		t.Fatalf("seed driver: %v", err)
	}

	return f
}

// actors derived from the fixture

func (f *testFixture) residentActor() *Actor {
	return &Actor{UserID: f.ResidentUser.ID, Role: models.UserTypeResident}
}

func (f *testFixture) driverActor() *Actor {
	return &Actor{UserID: f.DriverUser.ID, Role: models.UserTypeDriver}
}

func (f *testFixture) condoActor() *Actor {
	return &Actor{UserID: f.CondoUser.ID, Role: models.UserTypeCondo, CondoID: &f.Condo.ID}
}

func (f *testFixture) adminActor() *Actor {
	return &Actor{UserID: f.AdminUser.ID, Role: models.UserTypeAdmin}
}
