package grading

import "fmt"

// Type 判分类型，对应评分方案里每题的 grading_type
type Type string

const (
	TypeOneWord     Type = "one-word"
	TypeShortPhrase Type = "short-phrase"
	TypeList        Type = "list"
	TypeNumerical   Type = "numerical"
)

// ParseType 未知类型在方案加载时就报错，而不是判题时静默判错
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeOneWord, TypeShortPhrase, TypeList, TypeNumerical:
		return Type(s), nil
	}
	return "", fmt.Errorf("unknown grading type: %q", s)
}

// NumericRange 数值题的区间与容差配置
type NumericRange struct {
	Min              float64 `json:"min"`
	Max              float64 `json:"max"`
	TolerancePercent float64 `json:"tolerance_percent"`
}

// Question 加载进内存的单题判分规格，判分过程中不可变
type Question struct {
	Number            int
	Text              string
	Answer            string
	Marks             int
	Type              Type
	CaseSensitive     bool
	OrderSensitive    bool // 仅 list
	RangeSensitive    bool // 仅 numerical
	PartialMatching   bool // 仅 list
	SemanticThreshold float64
	Range             *NumericRange
}

// Scheme 一次评分所用的完整评分方案快照
type Scheme struct {
	AssignmentID uint
	PassScore    int
	Questions    []Question // 按题号升序

	byNumber map[int]*Question
}

func NewScheme(assignmentID uint, passScore int, questions []Question) *Scheme {
	s := &Scheme{
		AssignmentID: assignmentID,
		PassScore:    passScore,
		Questions:    questions,
		byNumber:     make(map[int]*Question, len(questions)),
	}
	for i := range s.Questions {
		s.byNumber[s.Questions[i].Number] = &s.Questions[i]
	}
	return s
}

func (s *Scheme) Lookup(number int) (*Question, bool) {
	q, ok := s.byNumber[number]
	return q, ok
}

// TotalMarks 方案满分
func (s *Scheme) TotalMarks() int {
	total := 0
	for i := range s.Questions {
		total += s.Questions[i].Marks
	}
	return total
}

// Outcome 所有匹配器统一返回的判分结论
// 只需要布尔结论的调用方读 IsCorrect 即可
type Outcome struct {
	IsCorrect       bool
	ScorePercentage float64
	Explanation     string
}
