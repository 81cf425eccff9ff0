package entity

import (
	"time"
)

// ProjectStatus is a kanban column. Rank orders columns left to right;
// new statuses are appended with rank = max(rank)+1. Ties (possible via
// manual edits) are broken by creation order.
type ProjectStatus struct {
	ID        string    `json:"id" gorm:"primaryKey;size:32"`
	Name      string    `json:"name" gorm:"size:100;not null;uniqueIndex"`
	Color     string    `json:"color" gorm:"size:7;not null;default:#6c757d"`
	Rank      int       `json:"rank" gorm:"not null;default:0"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	CreatedAt time.Time `json:"created_at"`
}

func (ProjectStatus) TableName() string {
	return "project_statuses"
}
