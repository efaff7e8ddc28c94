package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input    string
		expected Role
		wantErr  bool
	}{
		{"ADMIN", RoleAdmin, false},
		{"coordinator", RoleCoordinator, false},
		{" Sales ", RoleSales, false},
		{"owner", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			role, err := ParseRole(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, role)
		})
	}
}

func TestDefaultCapabilities(t *testing.T) {
	table := DefaultCapabilities()

	t.Run("admin can read and export", func(t *testing.T) {
		perms := table.PermissionsFor(RoleAdmin)
		assert.True(t, perms.Has(PermPendingIncomeRead))
		assert.True(t, perms.Has(PermPendingIncomeExport))
		assert.True(t, perms.Has(PermClientCreditRead))
	})

	t.Run("coordinator matches admin for pending income", func(t *testing.T) {
		assert.Equal(t, table.PermissionsFor(RoleAdmin).Codes(), table.PermissionsFor(RoleCoordinator).Codes())
	})

	t.Run("sales can only read", func(t *testing.T) {
		perms := table.PermissionsFor(RoleSales)
		assert.True(t, perms.Has(PermPendingIncomeRead))
		assert.False(t, perms.Has(PermPendingIncomeExport))
		assert.False(t, perms.Has(PermClientCreditRead))
		assert.Equal(t, []string{"pending_income:read"}, perms.Codes())
	})

	t.Run("unknown role has no permissions", func(t *testing.T) {
		perms := table.PermissionsFor(Role("GUEST"))
		assert.False(t, perms.HasAny(PermPendingIncomeRead, PermPendingIncomeExport))
		assert.Empty(t, perms.Codes())
	})
}

func TestPermission_Resource(t *testing.T) {
	assert.Equal(t, "pending_income", PermPendingIncomeExport.Resource())
	assert.Equal(t, "client", PermClientCreditRead.Resource())
}

func TestPermissionSet_HasAny(t *testing.T) {
	set := NewPermissionSet(PermPendingIncomeRead)
	assert.True(t, set.HasAny(PermPendingIncomeExport, PermPendingIncomeRead))
	assert.False(t, set.HasAny())
	assert.False(t, NewPermissionSet().Has(PermPendingIncomeRead))
}
