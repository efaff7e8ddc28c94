package identity

import (
	"slices"
	"strings"

	"github.com/imamecatronica/backend/internal/domain/shared"
)

// Role is the business role of an operator
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
	RoleSales       Role = "SALES"
)

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RoleAdmin, RoleCoordinator, RoleSales:
		return r, nil
	}
	return "", shared.NewDomainError("INVALID_ROLE", "Unknown role: "+s)
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Permission is a functional permission code in resource:action form
type Permission string

const (
	PermPendingIncomeRead   Permission = "pending_income:read"
	PermPendingIncomeExport Permission = "pending_income:export"
	PermClientCreditRead    Permission = "client:credit_read"
)

// Resource returns the resource part of the permission code
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

// PermissionSet is an immutable set of permissions
type PermissionSet struct {
	perms map[Permission]struct{}
}

// NewPermissionSet builds a set from perms
func NewPermissionSet(perms ...Permission) PermissionSet {
	m := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		m[p] = struct{}{}
	}
	return PermissionSet{perms: m}
}

// Has reports whether p is in the set
func (s PermissionSet) Has(p Permission) bool {
	_, ok := s.perms[p]
	return ok
}

// HasAny reports whether any of perms is in the set
func (s PermissionSet) HasAny(perms ...Permission) bool {
	for _, p := range perms {
		if s.Has(p) {
			return true
		}
	}
	return false
}

// Codes returns the permission codes sorted alphabetically
func (s PermissionSet) Codes() []string {
	codes := make([]string, 0, len(s.perms))
	for p := range s.perms {
		codes = append(codes, string(p))
	}
	slices.Sort(codes)
	return codes
}

// CapabilityTable maps each role to its permission set
type CapabilityTable map[Role]PermissionSet

// DefaultCapabilities is the built-in role table.
// Sales staff see pending income but cannot export it or view credit terms.
func DefaultCapabilities() CapabilityTable {
	return CapabilityTable{
		RoleAdmin: NewPermissionSet(
			PermPendingIncomeRead,
			PermPendingIncomeExport,
			PermClientCreditRead,
		),
		RoleCoordinator: NewPermissionSet(
			PermPendingIncomeRead,
			PermPendingIncomeExport,
			PermClientCreditRead,
		),
		RoleSales: NewPermissionSet(
			PermPendingIncomeRead,
		),
	}
}

// PermissionsFor returns the permission set of role; unknown roles get an empty set
func (t CapabilityTable) PermissionsFor(role Role) PermissionSet {
	if set, ok := t[role]; ok {
		return set
	}
	return NewPermissionSet()
}
