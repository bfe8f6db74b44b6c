package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cforclown/school-admin/internal/domain"
)

func TestCheck(t *testing.T) {
	editor := &domain.Role{
		ID: "r-1",
		Permissions: domain.PermissionMatrix{
			domain.ResourceMasterData: {View: true, Create: true},
			domain.ResourceUsers:      {View: true},
		},
	}
	archived := &domain.Role{ID: "r-2", Archived: true, Permissions: domain.FullAccess()}

	tests := []struct {
		name     string
		role     *domain.Role
		resource domain.ResourceType
		action   domain.Action
		want     bool
	}{
		{name: "granted", role: editor, resource: domain.ResourceMasterData, action: domain.ActionCreate, want: true},
		{name: "not granted", role: editor, resource: domain.ResourceMasterData, action: domain.ActionDelete},
		{name: "other resource", role: editor, resource: domain.ResourceUsers, action: domain.ActionCreate},
		{name: "unknown resource", role: editor, resource: domain.ResourceType("billing"), action: domain.ActionCreate},
		{name: "unknown action", role: editor, resource: domain.ResourceMasterData, action: domain.Action("approve")},
		{name: "nil role", resource: domain.ResourceMasterData, action: domain.ActionView},
		{name: "archived role", role: archived, resource: domain.ResourceUsers, action: domain.ActionView},
		{name: "empty matrix", role: &domain.Role{}, resource: domain.ResourceUsers, action: domain.ActionView},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Check(tt.role, tt.resource, tt.action))
		})
	}
}

func TestCheckUnknownResourceAlwaysDenied(t *testing.T) {
	full := &domain.Role{Permissions: domain.PermissionMatrix{"billing": {View: true, Create: true, Update: true, Delete: true}}}
	for _, action := range []domain.Action{domain.ActionView, domain.ActionCreate, domain.ActionUpdate, domain.ActionDelete} {
		assert.False(t, Check(full, "billing", action))
	}
}
