package model

import "encoding/json"

// DefaultPassScore 未显式配置时的及格线（百分比）
const DefaultPassScore = 40

// MarkingScheme 评分方案，与作业一一对应
// swagger:model MarkingScheme
type MarkingScheme struct {
	BaseModel
	AssignmentID uint           `gorm:"uniqueIndex;type:bigint unsigned" json:"assignmentId"`
	Title        string         `gorm:"size:255;not null" json:"title"`
	PassScore    int            `gorm:"default:40" json:"passScore"` // 及格线
	Answers      []SchemeAnswer `gorm:"foreignKey:MarkingSchemeID" json:"answers,omitempty"`
}

func (MarkingScheme) TableName() string {
	return "marking_schemes"
}

// SchemeAnswer 评分方案中的单题标准答案与判分策略
// swagger:model SchemeAnswer
type SchemeAnswer struct {
	BaseModel
	MarkingSchemeID   uint            `gorm:"index:idx_scheme_question,unique;type:bigint unsigned" json:"markingSchemeId"`
	QuestionNumber    int             `gorm:"index:idx_scheme_question,unique;not null" json:"questionNumber"`
	QuestionText      string          `gorm:"type:text" json:"questionText"`
	AnswerText        string          `gorm:"type:text;not null" json:"answerText"`
	Marks             int             `gorm:"default:0" json:"marks"`
	GradingType       string          `gorm:"size:20;default:'one-word'" json:"gradingType"` // one-word, short-phrase, list, numerical
	CaseSensitive     bool            `gorm:"default:false" json:"caseSensitive"`
	OrderSensitive    bool            `gorm:"default:false" json:"orderSensitive"`   // 仅 list
	RangeSensitive    bool            `gorm:"default:false" json:"rangeSensitive"`   // 仅 numerical
	PartialMatching   bool            `gorm:"default:false" json:"partialMatching"`  // 仅 list
	SemanticThreshold float64         `gorm:"default:0.7" json:"semanticThreshold"`  // 仅 short-phrase
	NumericRange      json.RawMessage `gorm:"type:json" json:"numericRange,omitempty"` // {"min":..,"max":..,"tolerance_percent":..}
}

func (SchemeAnswer) TableName() string {
	return "scheme_answers"
}
