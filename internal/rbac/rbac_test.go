package rbac_test

import (
	"testing"

	"github.com/erfanhabeeb666/keralaspiceerp/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func TestAuthorize(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	cases := []struct {
		name    string
		role    string
		object  string
		action  string
		allowed bool
	}{
		{"employee applies leave", rbac.RoleEmployee, "leave", "create", true},
		{"employee cancels leave", rbac.RoleEmployee, "leave", "cancel", true},
		{"employee cannot approve", rbac.RoleEmployee, "leave", "approve", false},
		{"employee cannot list all leaves", rbac.RoleEmployee, "leave", "read_all", false},
		{"employee cannot manage employees", rbac.RoleEmployee, "employee", "create", false},
		{"employee cannot trigger generation", rbac.RoleEmployee, "attendance", "generate", false},
		{"admin approves leave", rbac.RoleAdmin, "leave", "approve", true},
		{"admin reads a leave by id", rbac.RoleAdmin, "leave", "read", true},
		{"admin deletes employee", rbac.RoleAdmin, "employee", "delete", true},
		{"admin triggers generation", rbac.RoleAdmin, "attendance", "generate", true},
		{"admin exports report", rbac.RoleAdmin, "attendance", "export", true},
		{"unknown role denied", "AUDITOR", "leave", "read", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ok, err := svc.Authorize(tc.role, tc.object, tc.action)
			assert.NoError(t, err)
			assert.Equal(t, tc.allowed, ok)
		})
	}
}
