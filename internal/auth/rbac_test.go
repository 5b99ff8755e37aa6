package auth

import (
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

// TestMatrixAllows checks every role, resource, and action cell against the
// expected grant table. The 403 boundaries are an external contract, so no
// cell is left unasserted.
func TestMatrixAllows(t *testing.T) {
	matrix := DefaultMatrix()

	roles := []string{model.RoleAdmin, model.RoleManager, model.RoleFrontDesk, model.RoleMechanic}
	resources := []Resource{
		ResourceUsers, ResourceClients, ResourceVehicles, ResourceOrders,
		ResourceServices, ResourceParts, ResourceInvoices, ResourceReports, ResourceSettings,
	}
	actions := []Action{
		ActionCreate, ActionRead, ActionUpdate, ActionDelete,
		ActionAssign, ActionCancel, ActionExport,
	}

	crud := []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete}

	// Absent resources mean no actions allowed for that role.
	allowed := map[string]map[Resource][]Action{
		model.RoleAdmin: {
			ResourceUsers:    crud,
			ResourceClients:  crud,
			ResourceVehicles: crud,
			ResourceOrders:   {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionAssign},
			ResourceServices: crud,
			ResourceParts:    crud,
			ResourceInvoices: {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionCancel},
			ResourceReports:  {ActionRead, ActionExport},
			ResourceSettings: {ActionRead, ActionUpdate},
		},
		model.RoleManager: {
			ResourceUsers:    {ActionRead},
			ResourceClients:  {ActionCreate, ActionRead, ActionUpdate},
			ResourceVehicles: {ActionCreate, ActionRead, ActionUpdate},
			ResourceOrders:   {ActionCreate, ActionRead, ActionUpdate, ActionAssign},
			ResourceServices: {ActionRead, ActionUpdate},
			ResourceParts:    {ActionCreate, ActionRead, ActionUpdate},
			ResourceInvoices: {ActionCreate, ActionRead, ActionCancel},
			ResourceReports:  {ActionRead, ActionExport},
			ResourceSettings: {ActionRead},
		},
		model.RoleFrontDesk: {
			ResourceClients:  {ActionCreate, ActionRead, ActionUpdate},
			ResourceVehicles: {ActionCreate, ActionRead, ActionUpdate},
			ResourceOrders:   {ActionCreate, ActionRead, ActionUpdate},
			ResourceServices: {ActionRead},
			ResourceParts:    {ActionRead},
			ResourceInvoices: {ActionCreate, ActionRead},
		},
		model.RoleMechanic: {
			ResourceClients:  {ActionRead},
			ResourceVehicles: {ActionRead},
			ResourceOrders:   {ActionRead, ActionUpdate},
			ResourceServices: {ActionRead},
			ResourceParts:    {ActionRead},
		},
	}

	for _, role := range roles {
		for _, resource := range resources {
			granted := make(map[Action]bool)
			for _, a := range allowed[role][resource] {
				granted[a] = true
			}
			for _, action := range actions {
				if got := matrix.Allows(role, resource, action); got != granted[action] {
					t.Errorf("Allows(%s, %s, %s) = %v, want %v", role, resource, action, got, granted[action])
				}
			}
		}
	}
}

func TestMatrixDeniesUnknown(t *testing.T) {
	matrix := DefaultMatrix()

	tests := []struct {
		name     string
		role     string
		resource Resource
		action   Action
	}{
		{"unknown role", "intern", ResourceClients, ActionRead},
		{"unknown resource", model.RoleAdmin, Resource("payroll"), ActionRead},
		{"unknown action", model.RoleAdmin, ResourceUsers, Action("approve")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if matrix.Allows(tt.role, tt.resource, tt.action) {
				t.Errorf("Allows(%s, %s, %s) = true, want false", tt.role, tt.resource, tt.action)
			}
		})
	}
}

func TestMatrixEveryRoleCoversEveryResource(t *testing.T) {
	matrix := DefaultMatrix()
	resources := []Resource{
		ResourceUsers, ResourceClients, ResourceVehicles, ResourceOrders,
		ResourceServices, ResourceParts, ResourceInvoices, ResourceReports, ResourceSettings,
	}

	for role, grants := range matrix {
		for _, resource := range resources {
			if _, ok := grants[resource]; !ok {
				t.Errorf("role %s has no entry for resource %s", role, resource)
			}
		}
	}
}

func TestPermissionsFor(t *testing.T) {
	matrix := DefaultMatrix()

	perms := matrix.PermissionsFor(model.RoleMechanic)
	want := map[string]bool{
		"clients.read":  true,
		"vehicles.read": true,
		"orders.read":   true,
		"orders.update": true,
		"services.read": true,
		"parts.read":    true,
	}
	if len(perms) != len(want) {
		t.Fatalf("PermissionsFor(mechanic) returned %d entries, want %d: %v", len(perms), len(want), perms)
	}
	for _, p := range perms {
		if !want[p] {
			t.Errorf("unexpected permission %q for mechanic", p)
		}
	}

	if got := matrix.PermissionsFor("unknown"); len(got) != 0 {
		t.Errorf("PermissionsFor(unknown) = %v, want empty", got)
	}
}

func TestOwnerOrAdmin(t *testing.T) {
	ownerID := uuid.New()
	owner := &model.User{ID: ownerID, Role: model.RoleMechanic}
	admin := &model.User{ID: uuid.New(), Role: model.RoleAdmin}
	other := &model.User{ID: uuid.New(), Role: model.RoleManager}

	if !OwnerOrAdmin(owner, ownerID.String()) {
		t.Error("owner should be allowed")
	}
	if !OwnerOrAdmin(admin, ownerID.String()) {
		t.Error("admin should be allowed")
	}
	if OwnerOrAdmin(other, ownerID.String()) {
		t.Error("non-owner non-admin should be denied")
	}
	if OwnerOrAdmin(nil, ownerID.String()) {
		t.Error("nil identity should be denied")
	}
}
