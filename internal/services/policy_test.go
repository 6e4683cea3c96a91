package services

import "testing"

func TestCanSubmitSelfOnlyForSelf(t *testing.T) {
	actor := ActorContext{PersonID: "alice", AdminRole: AdminUser}
	if err := CanSubmit(actor, RoleSelf, "alice"); err != nil {
		t.Fatalf("self for self should pass: %v", err)
	}
	if err := CanSubmit(actor, RoleSelf, "bob"); err == nil {
		t.Fatalf("self for another person must fail")
	}
}

func TestCanSubmitPeerForOthersOnly(t *testing.T) {
	actor := ActorContext{PersonID: "alice", AdminRole: AdminUser}
	if err := CanSubmit(actor, RolePeer, "bob"); err != nil {
		t.Fatalf("peer for other should pass: %v", err)
	}
	if err := CanSubmit(actor, RoleManager, "bob"); err != nil {
		t.Fatalf("manager submission for other should pass: %v", err)
	}
	if err := CanSubmit(actor, RolePeer, "alice"); err == nil {
		t.Fatalf("peer for oneself must fail")
	}
}

func TestCanSubmitRequiresIdentity(t *testing.T) {
	err := CanSubmit(ActorContext{}, RolePeer, "bob")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCanModerateScope(t *testing.T) {
	mgr := ActorContext{PersonID: "mia", AdminRole: AdminManager, Team: []string{"bob", "carol"}}
	if err := CanModerate(mgr, "bob"); err != nil {
		t.Fatalf("manager over team member should pass: %v", err)
	}
	err := CanModerate(mgr, "dave")
	se, ok := AsServiceError(err)
	if !ok || se.Code != ErrorForbidden {
		t.Fatalf("expected forbidden for outside-team subject, got %v", err)
	}
	admin := ActorContext{PersonID: "root", AdminRole: AdminSuperadmin}
	if err := CanModerate(admin, "dave"); err != nil {
		t.Fatalf("superadmin should pass: %v", err)
	}
	user := ActorContext{PersonID: "alice", AdminRole: AdminUser}
	if err := CanModerate(user, "alice"); err == nil {
		t.Fatalf("plain user must not moderate")
	}
}

func TestSeesRawIdentity(t *testing.T) {
	mgr := ActorContext{PersonID: "mia", AdminRole: AdminManager, Team: []string{"bob"}}
	if !SeesRawIdentity(mgr, "bob") {
		t.Fatalf("manager of record should see raw identity")
	}
	if SeesRawIdentity(mgr, "dave") {
		t.Fatalf("manager outside team must not see raw identity")
	}
	if !SeesRawIdentity(ActorContext{PersonID: "root", AdminRole: AdminSuperadmin}, "anyone") {
		t.Fatalf("superadmin should see raw identity")
	}
	if SeesRawIdentity(ActorContext{PersonID: "alice", AdminRole: AdminUser}, "bob") {
		t.Fatalf("plain user must not see raw identity")
	}
}
