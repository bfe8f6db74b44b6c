package domain

// ResourceType enumerates the resource families a role can be granted actions on.
type ResourceType string

const (
	ResourceUsers      ResourceType = "users"
	ResourceMasterData ResourceType = "masterData"
)

// ResourceTypes lists every known resource type.
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceUsers, ResourceMasterData}
}

// Valid reports whether r is a known resource type.
func (r ResourceType) Valid() bool {
	switch r {
	case ResourceUsers, ResourceMasterData:
		return true
	default:
		return false
	}
}

// Action enumerates the CRUD verbs of a permission matrix.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Valid reports whether a is a known action.
func (a Action) Valid() bool {
	switch a {
	case ActionView, ActionCreate, ActionUpdate, ActionDelete:
		return true
	default:
		return false
	}
}

// ActionSet holds the granted actions for one resource type.
type ActionSet struct {
	View   bool `json:"view"`
	Create bool `json:"create"`
	Update bool `json:"update"`
	Delete bool `json:"delete"`
}

// PermissionMatrix maps resource types to granted actions.
type PermissionMatrix map[ResourceType]ActionSet

// FullAccess returns a matrix granting every action on every known resource.
func FullAccess() PermissionMatrix {
	matrix := make(PermissionMatrix, len(ResourceTypes()))
	for _, rt := range ResourceTypes() {
		matrix[rt] = ActionSet{View: true, Create: true, Update: true, Delete: true}
	}
	return matrix
}
