package service

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"
)

func TestCreateUserValidation(t *testing.T) {
	existing := testUser(t, "taken@taller.com", "secret123", model.RoleManager, model.UserStatusActive)
	svc := NewUserService(newStubUserRepo(existing), &stubAuditRepo{})
	admin := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)

	tests := []struct {
		name string
		req  CreateUserRequest
	}{
		{"invalid role", CreateUserRequest{Name: "X", Email: "x@taller.com", Password: "secret123", Role: "supervisor"}},
		{"invalid status", CreateUserRequest{Name: "X", Email: "x@taller.com", Password: "secret123", Role: model.RoleMechanic, Status: "paused"}},
		{"duplicate email", CreateUserRequest{Name: "X", Email: "taken@taller.com", Password: "secret123", Role: model.RoleMechanic}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateUser(context.Background(), admin, tt.req); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestCreateUserDefaultsToActive(t *testing.T) {
	users := newStubUserRepo()
	audit := &stubAuditRepo{}
	svc := NewUserService(users, audit)
	admin := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)

	created, err := svc.CreateUser(context.Background(), admin, CreateUserRequest{
		Name:     "Carlos",
		Email:    "carlos@taller.com",
		Password: "secret123",
		Role:     model.RoleMechanic,
	})
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if created.Status != model.UserStatusActive {
		t.Errorf("status = %s, want active", created.Status)
	}

	stored, err := users.GetByEmail(context.Background(), "carlos@taller.com")
	if err != nil {
		t.Fatalf("created user not stored: %v", err)
	}
	if stored.Password == "secret123" {
		t.Error("password stored in plain text")
	}

	found := false
	for _, action := range audit.actions() {
		if action == model.ActionCreateUser {
			found = true
		}
	}
	if !found {
		t.Error("user creation was not audited")
	}
}

func TestUpdateUserSelfGuards(t *testing.T) {
	admin := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)
	svc := NewUserService(newStubUserRepo(admin), &stubAuditRepo{})

	// Changing own role is blocked
	_, err := svc.UpdateUser(context.Background(), admin, admin.ID.String(), UpdateUserRequest{Role: model.RoleMechanic})
	if !errors.Is(err, ErrSelfTarget) {
		t.Errorf("self role change returned %v, want ErrSelfTarget", err)
	}

	// Deactivating own account is blocked
	_, err = svc.UpdateUser(context.Background(), admin, admin.ID.String(), UpdateUserRequest{Status: model.UserStatusInactive})
	if !errors.Is(err, ErrSelfTarget) {
		t.Errorf("self deactivation returned %v, want ErrSelfTarget", err)
	}

	// Renaming yourself is fine
	if _, err := svc.UpdateUser(context.Background(), admin, admin.ID.String(), UpdateUserRequest{Name: "New Name"}); err != nil {
		t.Errorf("self rename returned %v, want nil", err)
	}
}

func TestDeleteUserSelfGuard(t *testing.T) {
	admin := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)
	other := testUser(t, "other@taller.com", "secret123", model.RoleMechanic, model.UserStatusActive)
	users := newStubUserRepo(admin, other)
	audit := &stubAuditRepo{}
	svc := NewUserService(users, audit)

	if err := svc.DeleteUser(context.Background(), admin, admin.ID.String()); !errors.Is(err, ErrSelfTarget) {
		t.Errorf("self delete returned %v, want ErrSelfTarget", err)
	}

	if err := svc.DeleteUser(context.Background(), admin, other.ID.String()); err != nil {
		t.Fatalf("delete other failed: %v", err)
	}
	if _, err := users.GetByID(context.Background(), other.ID.String()); err == nil {
		t.Error("deleted user still present")
	}

	found := false
	for _, action := range audit.actions() {
		if action == model.ActionDeleteUser {
			found = true
		}
	}
	if !found {
		t.Error("user deletion was not audited")
	}
}

func TestUpdateUserDuplicateEmail(t *testing.T) {
	admin := testUser(t, "admin@taller.com", "secret123", model.RoleAdmin, model.UserStatusActive)
	a := testUser(t, "a@taller.com", "secret123", model.RoleMechanic, model.UserStatusActive)
	b := testUser(t, "b@taller.com", "secret123", model.RoleMechanic, model.UserStatusActive)
	svc := NewUserService(newStubUserRepo(admin, a, b), &stubAuditRepo{})

	if _, err := svc.UpdateUser(context.Background(), admin, a.ID.String(), UpdateUserRequest{Email: "b@taller.com"}); err == nil {
		t.Error("expected duplicate email error, got nil")
	}
}
