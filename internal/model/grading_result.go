package model

// GradingResult 单题判分结果，(submission_id, question_number) 唯一
// 创建后不再修改，重评只能整体删除重建
// swagger:model GradingResult
type GradingResult struct {
	BaseModel
	SubmissionID    uint    `gorm:"index:idx_submission_question,unique;type:bigint unsigned" json:"submissionId"`
	QuestionNumber  int     `gorm:"index:idx_submission_question,unique;not null" json:"questionNumber"`
	StudentAnswer   string  `gorm:"type:text" json:"studentAnswer"`
	CorrectAnswer   string  `gorm:"type:text" json:"correctAnswer"`
	IsCorrect       bool    `gorm:"default:false" json:"isCorrect"`
	MarksAwarded    int     `gorm:"default:0" json:"marksAwarded"`
	AllocatedMarks  int     `gorm:"default:0" json:"allocatedMarks"`
	GradingType     string  `gorm:"size:20" json:"gradingType"`
	ScorePercentage float64 `gorm:"default:0" json:"scorePercentage"`
	Explanation     string  `gorm:"type:text" json:"explanation"`
}

func (GradingResult) TableName() string {
	return "grading_results"
}
