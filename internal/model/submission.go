package model

// Submission 学生提交的作答文件
// Score 为空表示未评分，和评 0 分是两种状态
// swagger:model Submission
type Submission struct {
	BaseModel
	AssignmentID uint        `gorm:"index;type:bigint unsigned" json:"assignmentId"`
	Assignment   *Assignment `gorm:"foreignKey:AssignmentID" json:"assignment,omitempty"`
	FileName     string      `gorm:"size:255" json:"fileName"`
	FilePath     string      `gorm:"size:512" json:"filePath"`
	FileHash     string      `gorm:"size:64;index" json:"fileHash"`
	Score        *int        `json:"score"`
}

func (Submission) TableName() string {
	return "submissions"
}
