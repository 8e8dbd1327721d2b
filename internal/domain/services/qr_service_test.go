package services

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
)

func newQRServiceForTest(t *testing.T) (InterfaceQRService, *gorm.DB, *fakeNotifier, *testFixture) {
	t.Helper()
	db := newTestDB(t)
	fixture := seedFixture(t, db)
	notifier := &fakeNotifier{}
	svc := NewQRService(db, newTestConfig(), notifier, nil)
	return svc, db, notifier, fixture
}

// seedRequest 直接写入一条指定状态的访问请求
func seedRequest(t *testing.T, db *gorm.DB, f *testFixture, status models.AccessStatus) *models.AccessRequest {
	t.Helper()
	request := &models.AccessRequest{
		Status:       status,
		ResidentID:   &f.Resident.ID,
		DriverID:     &f.Driver.ID,
		CondoID:      &f.Condo.ID,
		Unit:         "101",
		Block:        "A",
		DriverName:   "João Silva",
		VehiclePlate: "ABC1234",
		CreatedBy:    f.ResidentUser.ID,
		UpdatedBy:    f.ResidentUser.ID,
	}
	if err := db.Create(request).Error; err != nil {
		t.Fatalf("seed request: %v", err)
	}
	return request
}

func TestGenerateAccessQRCode(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)
	request := seedRequest(t, db, f, models.AccessStatusAuthorized)

	payload, png, err := svc.GenerateAccessQRCode(request.ID, f.residentActor())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if payload.RequestID != request.ID {
		t.Errorf("payload request id = %d, want %d", payload.RequestID, request.ID)
	}
	if payload.VehiclePlate != "ABC1234" || payload.Unit != "101" {
		t.Errorf("payload descriptive fields incomplete: %+v", payload)
	}
	if payload.CondoName != "Residencial Jardim" {
		t.Errorf("condo name not resolved: %q", payload.CondoName)
	}
	if len(png) == 0 {
		t.Error("empty png image")
	}

	// 有效期为签发时刻起30分钟
	ttl := payload.ExpiresAt - payload.GeneratedAt
	if ttl != int64(30*time.Minute/time.Millisecond) {
		t.Errorf("payload ttl = %dms, want 30min", ttl)
	}
	if payload.ExpiresAt <= time.Now().UnixMilli() {
		t.Error("payload already expired at issuance")
	}
}

func TestGenerateAccessQRCodeRequiresAuthorizedStatus(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)

	for _, status := range []models.AccessStatus{
		models.AccessStatusPending, models.AccessStatusArrived,
		models.AccessStatusDenied, models.AccessStatusCanceled,
	} {
		request := seedRequest(t, db, f, status)
		if _, _, err := svc.GenerateAccessQRCode(request.ID, f.residentActor()); err == nil {
			t.Errorf("issuance accepted for status %s", status)
		} else if !strings.HasPrefix(err.Error(), "访问请求未处于已授权状态") {
			t.Errorf("unexpected error for status %s: %v", status, err)
		}
	}
}

func TestGenerateAccessQRCodeOwnership(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)
	request := seedRequest(t, db, f, models.AccessStatusAuthorized)

	// 请求的住户、司机、所属小区门卫和管理员都可以签发
	for _, actor := range []*Actor{f.residentActor(), f.driverActor(), f.condoActor(), f.adminActor()} {
		if _, _, err := svc.GenerateAccessQRCode(request.ID, actor); err != nil {
			t.Errorf("issuance rejected for role %s: %v", actor.Role, err)
		}
	}

	// 无关用户不能签发
	stranger := models.User{Email: "other@test.local", Password: "secret123", DisplayName: "Other", Type: models.UserTypeResident, Status: models.UserStatusActive}
	if err := db.Create(&stranger).Error; err != nil {
		t.Fatalf("seed stranger: %v", err)
	}
	strangerProfile := models.Resident{UserID: stranger.ID, Name: "Other", Unit: "999"}
	if err := db.Create(&strangerProfile).Error; err != nil {
		t.Fatalf("seed stranger profile: %v", err)
	}

	if _, _, err := svc.GenerateAccessQRCode(request.ID, &Actor{UserID: stranger.ID, Role: models.UserTypeResident}); err == nil {
		t.Error("issuance accepted for unrelated resident")
	}

	if _, _, err := svc.GenerateAccessQRCode(request.ID, nil); err != ErrNotAuthenticated {
		t.Errorf("nil actor: err = %v, want ErrNotAuthenticated", err)
	}
}

func TestValidateAccessQRCodeSuccess(t *testing.T) {
	svc, db, notifier, f := newQRServiceForTest(t)
	request := seedRequest(t, db, f, models.AccessStatusAuthorized)

	payload, _, err := svc.GenerateAccessQRCode(request.ID, f.residentActor())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw, _ := json.Marshal(payload)

	result, err := svc.ValidateAccessQRCode(string(raw), f.condoActor())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !result.Valid {
		t.Fatalf("validation rejected: %s", result.Message)
	}
	if result.Request == nil || result.Request.Status != models.AccessStatusArrived {
		t.Errorf("request not flipped to arrived: %+v", result.Request)
	}
	if result.Request.ScannedBy == nil || *result.Request.ScannedBy != f.CondoUser.ID {
		t.Errorf("scanned_by not recorded: %v", result.Request.ScannedBy)
	}

	sent := notifier.notifications()
	if len(sent) != 1 || sent[0].Status != models.AccessStatusArrived {
		t.Errorf("expected arrived notification, got %+v", sent)
	}

	// 同一载荷二次核验被拒绝且状态不再变化
	second, err := svc.ValidateAccessQRCode(string(raw), f.condoActor())
	if err != nil {
		t.Fatalf("second validate: %v", err)
	}
	if second.Valid {
		t.Error("second scan of the same code accepted")
	}
}

func TestValidateAccessQRCodeMalformedPayload(t *testing.T) {
	svc, _, _, f := newQRServiceForTest(t)

	for _, raw := range []string{"not json", "{}", `{"requestId":0}`} {
		result, err := svc.ValidateAccessQRCode(raw, f.condoActor())
		if err != nil {
			t.Fatalf("validate %q: %v", raw, err)
		}
		if result.Valid {
			t.Errorf("malformed payload %q accepted", raw)
		}
	}
}

func TestValidateAccessQRCodeExpired(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)
	request := seedRequest(t, db, f, models.AccessStatusAuthorized)

	payload := QRPayload{
		RequestID: request.ID,
		ExpiresAt: time.Now().Add(-time.Minute).UnixMilli(),
	}
	raw, _ := json.Marshal(payload)

	result, err := svc.ValidateAccessQRCode(string(raw), f.condoActor())
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if result.Valid {
		t.Fatal("expired payload accepted")
	}
	if result.Message != "通行二维码已过期" {
		t.Errorf("message = %q", result.Message)
	}

	// 过期载荷即便指向已授权的请求也不改变其状态
	var reloaded models.AccessRequest
	if err := db.First(&reloaded, request.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.AccessStatusAuthorized {
		t.Errorf("status mutated by expired scan: %s", reloaded.Status)
	}
}

func TestValidateAccessQRCodeRejectedStatuses(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)

	cases := []struct {
		status      models.AccessStatus
		wantMessage string
	}{
		{models.AccessStatusPending, "该请求尚未被授权"},
		{models.AccessStatusPendingResident, "该请求正在等待住户确认"},
		{models.AccessStatusArrived, "该二维码已被使用，司机已确认到达"},
		{models.AccessStatusEntered, "司机已进入小区，二维码已失效"},
		{models.AccessStatusCompleted, "本次访问已结束，二维码已失效"},
		{models.AccessStatusDenied, "该请求已被门卫拒绝"},
		{models.AccessStatusDeniedByResident, "该请求已被住户拒绝"},
		{models.AccessStatusCanceled, "该请求已被取消"},
	}

	for _, tc := range cases {
		t.Run(string(tc.status), func(t *testing.T) {
			request := seedRequest(t, db, f, tc.status)
			payload := QRPayload{
				RequestID: request.ID,
				ExpiresAt: time.Now().Add(10 * time.Minute).UnixMilli(),
			}
			raw, _ := json.Marshal(payload)

			result, err := svc.ValidateAccessQRCode(string(raw), f.condoActor())
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if result.Valid {
				t.Fatalf("scan accepted for status %s", tc.status)
			}
			if result.Message != tc.wantMessage {
				t.Errorf("message = %q, want %q", result.Message, tc.wantMessage)
			}

			// 被拒绝的核验不得改变请求状态
			var reloaded models.AccessRequest
			if err := db.First(&reloaded, request.ID).Error; err != nil {
				t.Fatalf("reload: %v", err)
			}
			if reloaded.Status != tc.status {
				t.Errorf("status mutated by rejected scan: %s -> %s", tc.status, reloaded.Status)
			}
		})
	}
}

func TestValidateAccessQRCodeScanPermission(t *testing.T) {
	svc, db, _, f := newQRServiceForTest(t)
	request := seedRequest(t, db, f, models.AccessStatusAuthorized)

	payload, _, err := svc.GenerateAccessQRCode(request.ID, f.residentActor())
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	raw, _ := json.Marshal(payload)

	// 住户和司机不能核验，只有所属小区门卫或管理员可以
	for _, actor := range []*Actor{f.residentActor(), f.driverActor()} {
		result, err := svc.ValidateAccessQRCode(string(raw), actor)
		if err != nil {
			t.Fatalf("validate as %s: %v", actor.Role, err)
		}
		if result.Valid {
			t.Errorf("scan accepted for role %s", actor.Role)
		}
	}

	// 其他小区的门卫也不能核验
	otherUser := models.User{Email: "gate2@test.local", Password: "secret123", DisplayName: "Gate2", Type: models.UserTypeCondo, Status: models.UserStatusActive}
	if err := db.Create(&otherUser).Error; err != nil {
		t.Fatalf("seed other condo user: %v", err)
	}
	otherCondo := models.Condo{UserID: otherUser.ID, Name: "Outro Condominio"}
	if err := db.Create(&otherCondo).Error; err != nil {
		t.Fatalf("seed other condo: %v", err)
	}

	result, err := svc.ValidateAccessQRCode(string(raw), &Actor{UserID: otherUser.ID, Role: models.UserTypeCondo, CondoID: &otherCondo.ID})
	if err != nil {
		t.Fatalf("validate as other condo: %v", err)
	}
	if result.Valid {
		t.Error("scan accepted for a condo the request does not belong to")
	}

	// 管理员可以核验
	adminResult, err := svc.ValidateAccessQRCode(string(raw), f.adminActor())
	if err != nil {
		t.Fatalf("validate as admin: %v", err)
	}
	if !adminResult.Valid {
		t.Errorf("admin scan rejected: %s", adminResult.Message)
	}
}
