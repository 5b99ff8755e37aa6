package auth

import (
	"sort"

	"backend/internal/model"
)

// Resource names a protected category of operations
type Resource string

const (
	ResourceUsers    Resource = "users"
	ResourceClients  Resource = "clients"
	ResourceVehicles Resource = "vehicles"
	ResourceOrders   Resource = "orders"
	ResourceServices Resource = "services"
	ResourceParts    Resource = "parts"
	ResourceInvoices Resource = "invoices"
	ResourceReports  Resource = "reports"
	ResourceSettings Resource = "settings"
)

// Action names an operation on a resource
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionAssign Action = "assign"
	ActionCancel Action = "cancel"
	ActionExport Action = "export"
)

// Matrix is the static role → resource → allowed actions table. It is
// compiled-in configuration, never mutated at runtime, and API consumers
// depend on the 403 boundaries it produces.
type Matrix map[string]map[Resource][]Action

// DefaultMatrix returns the permission table shipped with the system. Every
// role has an entry for every resource; empty means no actions allowed.
func DefaultMatrix() Matrix {
	return Matrix{
		model.RoleAdmin: {
			ResourceUsers:    {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
			ResourceClients:  {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
			ResourceVehicles: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
			ResourceOrders:   {ActionCreate, ActionRead, ActionUpdate, ActionDelete, ActionAssign},
			ResourceServices: {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
			ResourceParts:    {ActionCreate, ActionRead, ActionUpdate, ActionDelete},
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
			ResourceUsers:    {},
			ResourceClients:  {ActionCreate, ActionRead, ActionUpdate},
			ResourceVehicles: {ActionCreate, ActionRead, ActionUpdate},
			ResourceOrders:   {ActionCreate, ActionRead, ActionUpdate},
			ResourceServices: {ActionRead},
			ResourceParts:    {ActionRead},
			ResourceInvoices: {ActionCreate, ActionRead},
			ResourceReports:  {},
			ResourceSettings: {},
		},
		model.RoleMechanic: {
			ResourceUsers:    {},
			ResourceClients:  {ActionRead},
			ResourceVehicles: {ActionRead},
			ResourceOrders:   {ActionRead, ActionUpdate},
			ResourceServices: {ActionRead},
			ResourceParts:    {ActionRead},
			ResourceInvoices: {},
			ResourceReports:  {},
			ResourceSettings: {},
		},
	}
}

// Allows reports whether role may perform action on resource. A missing role
// or resource entry is a denial, not an error.
func (m Matrix) Allows(role string, resource Resource, action Action) bool {
	actions, ok := m[role][resource]
	if !ok {
		return false
	}
	for _, a := range actions {
		if a == action {
			return true
		}
	}
	return false
}

// PermissionsFor flattens a role's grants into sorted "resource.action"
// strings, the shape clients consume to toggle UI elements.
func (m Matrix) PermissionsFor(role string) []string {
	perms := []string{}
	for resource, actions := range m[role] {
		for _, action := range actions {
			perms = append(perms, string(resource)+"."+string(action))
		}
	}
	sort.Strings(perms)
	return perms
}

// OwnerOrAdmin reports whether identity may act on a resource instance owned
// by ownerID: the owner themselves, or any admin.
func OwnerOrAdmin(identity *model.User, ownerID string) bool {
	if identity == nil {
		return false
	}
	return identity.ID.String() == ownerID || identity.Role == model.RoleAdmin
}
