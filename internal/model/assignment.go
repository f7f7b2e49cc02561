package model

import "time"

// swagger:model Assignment
type Assignment struct {
	BaseModel
	Title       string        `gorm:"size:255;not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	DueDate     time.Time     `json:"dueDate"`
	ModuleID    uint          `gorm:"index;type:bigint unsigned" json:"moduleId"`
	Module      *CourseModule `gorm:"foreignKey:ModuleID" json:"module,omitempty"`
}

func (Assignment) TableName() string {
	return "assignments"
}
