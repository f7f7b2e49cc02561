package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "student"
	Lecturer UserRole = "lecturer"
	Admin    UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:100;unique;not null" json:"email"`
	Password   string    `gorm:"size:100;not null" json:"-"`
	Role       UserRole  `gorm:"size:20;default:'lecturer'" json:"role"`
	University string    `gorm:"size:100" json:"university"`
	Department string    `gorm:"size:100" json:"department"`
	IndexNo    string    `gorm:"size:100" json:"indexNo"` // 学生学号
	Avatar     string    `gorm:"size:255" json:"avatar"`
	Disabled   bool      `gorm:"default:false" json:"disabled"`
	LastLogin  time.Time `json:"lastLogin"`
	LastSeen   time.Time `json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
