package models

import "time"

// Department groups employees under an optional manager.
type Department struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	ManagerID *uint     `json:"manager_id"`
	Manager   *Employee `gorm:"foreignKey:ManagerID" json:"manager,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ManagerName returns the manager's full name or "None" when unassigned.
func (d Department) ManagerName() string {
	if d.Manager == nil {
		return "None"
	}
	return d.Manager.FullName
}
