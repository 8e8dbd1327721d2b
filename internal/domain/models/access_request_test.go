package models

import "testing"

func TestAccessStatusIsValid(t *testing.T) {
	valid := []AccessStatus{
		AccessStatusPending, AccessStatusPendingResident, AccessStatusAuthorized,
		AccessStatusArrived, AccessStatusEntered, AccessStatusCompleted,
		AccessStatusDenied, AccessStatusDeniedByResident, AccessStatusCanceled,
	}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}

	for _, s := range []AccessStatus{"", "approved", "PENDING", "done"} {
		if s.IsValid() {
			t.Errorf("status %q should not be valid", s)
		}
	}
}

func TestAccessStatusTransitions(t *testing.T) {
	cases := []struct {
		from    AccessStatus
		to      AccessStatus
		allowed bool
	}{
		{AccessStatusPendingResident, AccessStatusPending, true},
		{AccessStatusPendingResident, AccessStatusDeniedByResident, true},
		{AccessStatusPendingResident, AccessStatusAuthorized, false},
		{AccessStatusPending, AccessStatusAuthorized, true},
		{AccessStatusPending, AccessStatusDenied, true},
		{AccessStatusPending, AccessStatusCanceled, true},
		{AccessStatusPending, AccessStatusArrived, false},
		{AccessStatusAuthorized, AccessStatusArrived, true},
		{AccessStatusAuthorized, AccessStatusCanceled, true},
		{AccessStatusAuthorized, AccessStatusEntered, false},
		{AccessStatusArrived, AccessStatusEntered, true},
		{AccessStatusArrived, AccessStatusCompleted, false},
		{AccessStatusEntered, AccessStatusCompleted, true},
		// 终态不允许任何流转
		{AccessStatusCompleted, AccessStatusPending, false},
		{AccessStatusDenied, AccessStatusAuthorized, false},
		{AccessStatusDeniedByResident, AccessStatusPending, false},
		{AccessStatusCanceled, AccessStatusPending, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tc.from, tc.to, got, tc.allowed)
		}
	}
}

func TestAccessStatusIsTerminal(t *testing.T) {
	terminal := []AccessStatus{
		AccessStatusCompleted, AccessStatusDenied,
		AccessStatusDeniedByResident, AccessStatusCanceled,
	}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("status %q should be terminal", s)
		}
	}

	active := []AccessStatus{
		AccessStatusPending, AccessStatusPendingResident,
		AccessStatusAuthorized, AccessStatusArrived, AccessStatusEntered,
	}
	for _, s := range active {
		if s.IsTerminal() {
			t.Errorf("status %q should not be terminal", s)
		}
	}

	// 未知状态既不合法也不是终态
	if AccessStatus("bogus").IsTerminal() {
		t.Error("unknown status should not report as terminal")
	}
}

func TestAccessStatusInfo(t *testing.T) {
	info := AccessStatusAuthorized.Info()
	if info.Label == "" || info.Color == "" || info.Icon == "" {
		t.Errorf("authorized status info incomplete: %+v", info)
	}

	// 每个合法状态都必须有完整的展示信息
	for status := range accessStatusInfoMap {
		info := status.Info()
		if info.Label == "" || info.Color == "" || info.Icon == "" || info.Description == "" {
			t.Errorf("status %q has incomplete display info: %+v", status, info)
		}
	}

	// 未知状态回落到状态原文
	fallback := AccessStatus("bogus").Info()
	if fallback.Label != "bogus" {
		t.Errorf("unknown status fallback label = %q, want %q", fallback.Label, "bogus")
	}
}

func TestAccessRequestBeforeSave(t *testing.T) {
	r := &AccessRequest{VehiclePlate: "abc-1234"}
	if err := r.BeforeSave(nil); err != nil {
		t.Fatalf("BeforeSave: %v", err)
	}
	if r.VehiclePlate != "ABC1234" {
		t.Errorf("plate not normalized on save: %q", r.VehiclePlate)
	}
	if r.Type != AccessRequestTypeDriver {
		t.Errorf("empty type not defaulted: %q", r.Type)
	}
}
