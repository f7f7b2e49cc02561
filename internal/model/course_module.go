package model

// CourseModule 课程模块，归属某位讲师
// swagger:model CourseModule
type CourseModule struct {
	BaseModel
	Name        string `gorm:"size:255;not null" json:"name"`
	Code        string `gorm:"size:20;unique;not null" json:"code"`
	Description string `gorm:"type:text" json:"description"`
	LecturerID  uint   `gorm:"index;type:bigint unsigned" json:"lecturerId"`
	Lecturer    *User  `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
}

func (CourseModule) TableName() string {
	return "course_modules"
}
