package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ActionAdmin is the elevated-capability token accepted and emitted on the
// permission administration surface. Internally the capability is the Admin
// flag on PermissionSet, never a member of Actions.
const ActionAdmin = "ADMIN"

// Actions is an ordered list of action tokens (GET, POST, PUT, DELETE)
// persisted as a JSON array so the same column type works on every driver.
type Actions []string

func (a Actions) Value() (driver.Value, error) {
	if a == nil {
		a = Actions{}
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to encode actions: %w", err)
	}
	return string(b), nil
}

func (a *Actions) Scan(value interface{}) error {
	if value == nil {
		*a = Actions{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported actions column type %T", value)
	}

	return json.Unmarshal(raw, a)
}

// Contains reports whether the action token is in the list.
func (a Actions) Contains(action string) bool {
	for _, token := range a {
		if token == action {
			return true
		}
	}
	return false
}

// PermissionSet grants a role a set of actions on one resource path. At most
// one row is authoritative per (role, resource) pair; ReplacePermissions
// rewrites all rows for a role atomically.
type PermissionSet struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	RoleID    uint64    `gorm:"not null;index" json:"role_id"`
	Resource  string    `gorm:"type:varchar(255);not null" json:"resource"`
	Actions   Actions   `gorm:"type:text;not null" json:"actions"`
	Admin     bool      `gorm:"not null;default:false" json:"admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Role Role `gorm:"foreignKey:RoleID" json:"-"`
}

// Allows reports whether the entry grants the given action.
func (p *PermissionSet) Allows(action string) bool {
	return p.Actions.Contains(action)
}
