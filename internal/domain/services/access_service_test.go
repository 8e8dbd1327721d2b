package services

import (
	"strings"
	"testing"

	"github.com/PazzonEx/condy-access-service/internal/domain/models"
)

func newAccessServiceForTest(t *testing.T) (InterfaceAccessService, *fakeNotifier, *testFixture) {
	t.Helper()
	db := newTestDB(t)
	fixture := seedFixture(t, db)
	notifier := &fakeNotifier{}
	svc := NewAccessService(db, newTestConfig(), notifier)
	return svc, notifier, fixture
}

func TestCreateAccessRequestByResident(t *testing.T) {
	svc, notifier, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{
		DriverName:   "Entregador",
		VehiclePlate: "xyz-9876",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if request.Status != models.AccessStatusPending {
		t.Errorf("status = %s, want pending", request.Status)
	}
	if request.ResidentID == nil || *request.ResidentID != f.Resident.ID {
		t.Errorf("resident_id not filled from caller profile: %v", request.ResidentID)
	}
	// 未给出的描述性字段从住户档案冗余
	if request.Unit != "101" || request.Block != "A" {
		t.Errorf("unit/block not denormalized: %q/%q", request.Unit, request.Block)
	}
	if request.CondoID == nil || *request.CondoID != f.Condo.ID {
		t.Errorf("condo_id not inherited from resident profile: %v", request.CondoID)
	}
	if request.VehiclePlate != "XYZ9876" {
		t.Errorf("plate not normalized: %q", request.VehiclePlate)
	}
	if request.CreatedBy != f.ResidentUser.ID || request.UpdatedBy != f.ResidentUser.ID {
		t.Errorf("audit fields = created_by %d updated_by %d, want both %d",
			request.CreatedBy, request.UpdatedBy, f.ResidentUser.ID)
	}

	sent := notifier.notifications()
	if len(sent) != 1 || sent[0].Status != models.AccessStatusPending {
		t.Errorf("expected one pending notification, got %+v", sent)
	}
}

func TestCreateAccessRequestByDriver(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.driverActor(), "", &CreateAccessRequestInput{
		ResidentID: &f.Resident.ID,
		Unit:       "101",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// 司机自行发起的请求需要住户先确认
	if request.Status != models.AccessStatusPendingResident {
		t.Errorf("status = %s, want pending_resident", request.Status)
	}
	if request.DriverID == nil || *request.DriverID != f.Driver.ID {
		t.Errorf("driver_id not filled from caller profile: %v", request.DriverID)
	}
	// 车辆信息从司机档案冗余
	if request.DriverName != "João Silva" {
		t.Errorf("driver name not denormalized: %q", request.DriverName)
	}
	if request.VehiclePlate != "ABC1234" {
		t.Errorf("plate not denormalized and normalized: %q", request.VehiclePlate)
	}
}

func TestCreateAccessRequestByCondo(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.condoActor(), "", &CreateAccessRequestInput{
		DriverName:   "Visitante",
		VehiclePlate: "DEF5678",
		Unit:         "202",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if request.Status != models.AccessStatusPending {
		t.Errorf("status = %s, want pending", request.Status)
	}
	if request.CondoID == nil || *request.CondoID != f.Condo.ID {
		t.Errorf("condo_id not filled from caller: %v", request.CondoID)
	}
}

func TestCreateAccessRequestUnauthenticated(t *testing.T) {
	svc, _, _ := newAccessServiceForTest(t)

	if _, err := svc.CreateAccessRequest(nil, "", nil); err != ErrNotAuthenticated {
		t.Errorf("nil actor: err = %v, want ErrNotAuthenticated", err)
	}
	if _, err := svc.CreateAccessRequest(&Actor{}, "", nil); err != ErrNotAuthenticated {
		t.Errorf("zero user id: err = %v, want ErrNotAuthenticated", err)
	}
}

func TestGetAccessRequestsRoleScoping(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	// 住户发起两条，司机发起一条（指向同一住户）
	if _, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"}); err != nil {
		t.Fatalf("seed resident request: %v", err)
	}
	if _, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "B"}); err != nil {
		t.Fatalf("seed resident request: %v", err)
	}
	if _, err := svc.CreateAccessRequest(f.driverActor(), "", &CreateAccessRequestInput{ResidentID: &f.Resident.ID}); err != nil {
		t.Fatalf("seed driver request: %v", err)
	}

	cases := []struct {
		name  string
		actor *Actor
		want  int
	}{
		{"resident sees own requests", f.residentActor(), 3},
		{"driver sees own requests", f.driverActor(), 1},
		{"condo sees condo requests", f.condoActor(), 2},
		{"admin sees everything", f.adminActor(), 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			requests, err := svc.GetAccessRequests(tc.actor, nil, 0)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(requests) != tc.want {
				t.Errorf("got %d requests, want %d", len(requests), tc.want)
			}
		})
	}
}

func TestGetAccessRequestsStatusFilterAndLimit(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	first, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "B"}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := svc.UpdateAccessRequestStatus(first.ID, models.AccessStatusAuthorized, f.condoActor(), nil); err != nil {
		t.Fatalf("authorize: %v", err)
	}

	authorized, err := svc.GetAccessRequests(f.residentActor(), []models.AccessStatus{models.AccessStatusAuthorized}, 0)
	if err != nil {
		t.Fatalf("filter single: %v", err)
	}
	if len(authorized) != 1 || authorized[0].ID != first.ID {
		t.Errorf("single status filter returned %d requests", len(authorized))
	}

	both, err := svc.GetAccessRequests(f.residentActor(), []models.AccessStatus{
		models.AccessStatusAuthorized, models.AccessStatusPending,
	}, 0)
	if err != nil {
		t.Fatalf("filter set: %v", err)
	}
	if len(both) != 2 {
		t.Errorf("status set filter returned %d requests, want 2", len(both))
	}

	limited, err := svc.GetAccessRequests(f.residentActor(), nil, 1)
	if err != nil {
		t.Fatalf("limit: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit returned %d requests, want 1", len(limited))
	}
}

func TestGetAccessRequestDetails(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	created, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	details, err := svc.GetAccessRequestDetails(created.ID)
	if err != nil {
		t.Fatalf("details: %v", err)
	}
	if details.Resident == nil || details.Resident.Name != "Maria Souza" {
		t.Errorf("resident relation not loaded: %+v", details.Resident)
	}
	if details.Condo == nil || details.Condo.Name != "Residencial Jardim" {
		t.Errorf("condo relation not loaded: %+v", details.Condo)
	}

	if _, err := svc.GetAccessRequestDetails(9999); err == nil || err.Error() != "访问请求不存在" {
		t.Errorf("missing request: err = %v", err)
	}
}

func TestUpdateAccessRequestStatusEnforcesTransitions(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	// pending -> entered 不在流转表中
	if _, err := svc.UpdateAccessRequestStatus(request.ID, models.AccessStatusEntered, f.condoActor(), nil); err == nil {
		t.Fatal("illegal transition pending -> entered accepted")
	} else if !strings.HasPrefix(err.Error(), "非法的状态流转") {
		t.Errorf("unexpected error for illegal transition: %v", err)
	}

	// 非法流转不应修改数据库中的状态
	reloaded, err := svc.GetAccessRequestDetails(request.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.AccessStatusPending {
		t.Errorf("status mutated by rejected transition: %s", reloaded.Status)
	}

	// 未知状态值直接拒绝
	if _, err := svc.UpdateAccessRequestStatus(request.ID, "approved", f.condoActor(), nil); err == nil {
		t.Fatal("unknown status value accepted")
	}
}

func TestUpdateAccessRequestStatusRecordsActor(t *testing.T) {
	svc, notifier, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	updated, err := svc.UpdateAccessRequestStatus(request.ID, models.AccessStatusAuthorized, f.condoActor(), nil)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	if updated.Status != models.AccessStatusAuthorized {
		t.Errorf("status = %s, want authorized", updated.Status)
	}
	if updated.UpdatedBy != f.CondoUser.ID {
		t.Errorf("updated_by = %d, want %d", updated.UpdatedBy, f.CondoUser.ID)
	}
	// 创建者审计字段不被后续流转覆盖
	if updated.CreatedBy != f.ResidentUser.ID {
		t.Errorf("created_by overwritten: %d", updated.CreatedBy)
	}

	sent := notifier.notifications()
	if len(sent) != 2 || sent[1].Status != models.AccessStatusAuthorized {
		t.Errorf("expected authorized notification, got %+v", sent)
	}
}

func TestResidentConfirmationFillsResidentID(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	// 司机发起时不指定住户，由住户确认时懒填充
	request, err := svc.CreateAccessRequest(f.driverActor(), "", &CreateAccessRequestInput{Unit: "101"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if request.ResidentID != nil {
		t.Fatalf("resident_id pre-filled unexpectedly: %v", request.ResidentID)
	}

	confirmed, err := svc.UpdateAccessRequestStatus(request.ID, models.AccessStatusPending, f.residentActor(), nil)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if confirmed.ResidentID == nil || *confirmed.ResidentID != f.Resident.ID {
		t.Errorf("resident_id not lazily filled on confirmation: %v", confirmed.ResidentID)
	}
}

func TestCancelAccessRequest(t *testing.T) {
	svc, _, f := newAccessServiceForTest(t)

	request, err := svc.CreateAccessRequest(f.residentActor(), "", &CreateAccessRequestInput{DriverName: "A"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	canceled, err := svc.CancelAccessRequest(request.ID, f.residentActor())
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Status != models.AccessStatusCanceled {
		t.Errorf("status = %s, want canceled", canceled.Status)
	}

	// 终态之后不允许再取消
	if _, err := svc.CancelAccessRequest(request.ID, f.residentActor()); err == nil {
		t.Error("cancel of terminal request accepted")
	}
}

func TestAccessRequestFullLifecycle(t *testing.T) {
	svc, notifier, f := newAccessServiceForTest(t)

	// 司机发起，住户确认，门卫授权、确认到达、放行、完成
	request, err := svc.CreateAccessRequest(f.driverActor(), "", &CreateAccessRequestInput{ResidentID: &f.Resident.ID})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	steps := []struct {
		to    models.AccessStatus
		actor *Actor
	}{
		{models.AccessStatusPending, f.residentActor()},
		{models.AccessStatusAuthorized, f.condoActor()},
		{models.AccessStatusArrived, f.condoActor()},
		{models.AccessStatusEntered, f.condoActor()},
		{models.AccessStatusCompleted, f.condoActor()},
	}

	for _, step := range steps {
		updated, err := svc.UpdateAccessRequestStatus(request.ID, step.to, step.actor, nil)
		if err != nil {
			t.Fatalf("transition to %s: %v", step.to, err)
		}
		if updated.Status != step.to {
			t.Fatalf("status = %s, want %s", updated.Status, step.to)
		}
	}

	final, err := svc.GetAccessRequestDetails(request.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if !final.Status.IsTerminal() {
		t.Errorf("lifecycle did not end in a terminal status: %s", final.Status)
	}

	// 创建和每次流转各推送一条通知
	sent := notifier.notifications()
	wantStatuses := []models.AccessStatus{
		models.AccessStatusPendingResident,
		models.AccessStatusPending, models.AccessStatusAuthorized,
		models.AccessStatusArrived, models.AccessStatusEntered, models.AccessStatusCompleted,
	}
	if len(sent) != len(wantStatuses) {
		t.Fatalf("got %d notifications, want %d: %+v", len(sent), len(wantStatuses), sent)
	}
	for i, want := range wantStatuses {
		if sent[i].Status != want {
			t.Errorf("notification %d status = %s, want %s", i, sent[i].Status, want)
		}
	}
}
