package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditAction enumerates the mutation kinds recorded in the audit trail.
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
)

// Valid reports whether the action is one of the enumerated values.
func (a AuditAction) Valid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete:
		return true
	}
	return false
}

// AuditEntity enumerates the entity types covered by the audit trail.
type AuditEntity string

const (
	AuditEntityEmployee   AuditEntity = "EMPLOYEE"
	AuditEntityDepartment AuditEntity = "DEPARTMENT"
)

// Valid reports whether the entity type is one of the enumerated values.
func (e AuditEntity) Valid() bool {
	switch e {
	case AuditEntityEmployee, AuditEntityDepartment:
		return true
	}
	return false
}

// AuditLog is one immutable record of a mutating action. Rows are append-only:
// nothing in the codebase updates or deletes them. ActorID is a weak reference,
// the actor row may change later without rewriting old audit text.
type AuditLog struct {
	ID         uint              `gorm:"primaryKey" json:"id"`
	Action     AuditAction       `gorm:"size:16;not null" json:"action"`
	EntityType AuditEntity       `gorm:"size:32;not null" json:"entity_type"`
	EntityID   uint              `gorm:"not null" json:"entity_id"`
	ActorID    *uint             `json:"actor_id"`
	Metadata   datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	Changes    string            `gorm:"type:text" json:"changes"`
	CreatedAt  time.Time         `json:"created_at"`
}
