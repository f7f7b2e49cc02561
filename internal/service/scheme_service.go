package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"exam_marking_backend/internal/grading"
	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SchemeAnswerInput 创建/更新评分方案时的单题输入
type SchemeAnswerInput struct {
	QuestionNumber    int                   `json:"question_number" binding:"required,min=1"`
	QuestionText      string                `json:"question_text"`
	AnswerText        string                `json:"answer_text" binding:"required"`
	Marks             int                   `json:"marks" binding:"required,min=1"`
	GradingType       string                `json:"grading_type" binding:"required"`
	CaseSensitive     bool                  `json:"case_sensitive"`
	OrderSensitive    bool                  `json:"order_sensitive"`
	RangeSensitive    bool                  `json:"range_sensitive"`
	PartialMatching   bool                  `json:"partial_matching"`
	SemanticThreshold float64               `json:"semantic_threshold"`
	NumericRange      *grading.NumericRange `json:"numeric_range"`
}

type SchemeService struct {
	SchemeRepo     *repository.MarkingSchemeRepository
	AssignmentRepo *repository.AssignmentRepository
	Inference      *InferenceService
	Logger         *zap.Logger
}

func NewSchemeService(
	schemeRepo *repository.MarkingSchemeRepository,
	assignmentRepo *repository.AssignmentRepository,
	inference *InferenceService,
	logger *zap.Logger,
) *SchemeService {
	return &SchemeService{
		SchemeRepo:     schemeRepo,
		AssignmentRepo: assignmentRepo,
		Inference:      inference,
		Logger:         logger,
	}
}

// CreateScheme 为作业创建评分方案，一个作业只允许一份方案
func (s *SchemeService) CreateScheme(assignmentID uint, title string, passScore int, answers []SchemeAnswerInput) (*model.MarkingScheme, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}

	if _, err := s.SchemeRepo.FindByAssignment(assignmentID); err == nil {
		return nil, util.ErrSchemeExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	rows, err := s.buildAnswerRows(answers)
	if err != nil {
		return nil, err
	}

	if passScore <= 0 {
		passScore = model.DefaultPassScore
	}

	scheme := &model.MarkingScheme{
		AssignmentID: assignmentID,
		Title:        title,
		PassScore:    passScore,
		Answers:      rows,
	}
	if err := s.SchemeRepo.Create(scheme); err != nil {
		return nil, err
	}

	s.Logger.Info("marking scheme created",
		zap.Uint("assignment_id", assignmentID),
		zap.Int("questions", len(rows)))
	return scheme, nil
}

func (s *SchemeService) GetScheme(assignmentID uint) (*model.MarkingScheme, error) {
	scheme, err := s.SchemeRepo.FindByAssignment(assignmentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSchemeNotFound
		}
		return nil, err
	}
	return scheme, nil
}

// UpdateScheme 整体替换方案标题、及格线和全部题目答案
func (s *SchemeService) UpdateScheme(assignmentID uint, title string, passScore int, answers []SchemeAnswerInput) (*model.MarkingScheme, error) {
	scheme, err := s.GetScheme(assignmentID)
	if err != nil {
		return nil, err
	}

	rows, err := s.buildAnswerRows(answers)
	if err != nil {
		return nil, err
	}

	if title != "" {
		scheme.Title = title
	}
	if passScore > 0 {
		scheme.PassScore = passScore
	}
	scheme.Answers = nil
	if err := s.SchemeRepo.Update(scheme); err != nil {
		return nil, err
	}
	if err := s.SchemeRepo.ReplaceAnswers(scheme.ID, rows); err != nil {
		return nil, err
	}

	return s.GetScheme(assignmentID)
}

func (s *SchemeService) DeleteScheme(assignmentID uint) error {
	err := s.SchemeRepo.DeleteByAssignment(assignmentID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrSchemeNotFound
	}
	return err
}

// LoadScheme 把落库的方案装配成判分引擎用的内存快照
// 配置错误（未知判分类型、区间 JSON 损坏）在这里暴露，而不是判题中途
func (s *SchemeService) LoadScheme(assignmentID uint) (*grading.Scheme, error) {
	scheme, err := s.GetScheme(assignmentID)
	if err != nil {
		return nil, err
	}

	questions := make([]grading.Question, 0, len(scheme.Answers))
	for _, row := range scheme.Answers {
		gradingType, err := grading.ParseType(row.GradingType)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", row.QuestionNumber, err)
		}

		q := grading.Question{
			Number:            row.QuestionNumber,
			Text:              row.QuestionText,
			Answer:            row.AnswerText,
			Marks:             row.Marks,
			Type:              gradingType,
			CaseSensitive:     row.CaseSensitive,
			OrderSensitive:    row.OrderSensitive,
			RangeSensitive:    row.RangeSensitive,
			PartialMatching:   row.PartialMatching,
			SemanticThreshold: row.SemanticThreshold,
		}

		if len(row.NumericRange) > 0 && string(row.NumericRange) != "null" {
			var nr grading.NumericRange
			if err := json.Unmarshal(row.NumericRange, &nr); err != nil {
				return nil, fmt.Errorf("question %d: invalid numeric range: %w", row.QuestionNumber, err)
			}
			if nr.Min > nr.Max {
				return nil, fmt.Errorf("question %d: numeric range min %v exceeds max %v", row.QuestionNumber, nr.Min, nr.Max)
			}
			q.Range = &nr
		}
		if q.RangeSensitive && q.Range == nil {
			return nil, fmt.Errorf("question %d: range_sensitive set but no numeric range configured", row.QuestionNumber)
		}

		questions = append(questions, q)
	}

	return grading.NewScheme(assignmentID, scheme.PassScore, questions), nil
}

func (s *SchemeService) buildAnswerRows(answers []SchemeAnswerInput) ([]model.SchemeAnswer, error) {
	if len(answers) == 0 {
		return nil, fmt.Errorf("marking scheme must contain at least one question")
	}

	seen := make(map[int]bool, len(answers))
	rows := make([]model.SchemeAnswer, 0, len(answers))
	for _, in := range answers {
		if seen[in.QuestionNumber] {
			return nil, fmt.Errorf("duplicate question number %d", in.QuestionNumber)
		}
		seen[in.QuestionNumber] = true

		if _, err := grading.ParseType(in.GradingType); err != nil {
			return nil, fmt.Errorf("question %d: %w", in.QuestionNumber, err)
		}

		row := model.SchemeAnswer{
			QuestionNumber:    in.QuestionNumber,
			QuestionText:      in.QuestionText,
			AnswerText:        in.AnswerText,
			Marks:             in.Marks,
			GradingType:       in.GradingType,
			CaseSensitive:     in.CaseSensitive,
			OrderSensitive:    in.OrderSensitive,
			RangeSensitive:    in.RangeSensitive,
			PartialMatching:   in.PartialMatching,
			SemanticThreshold: in.SemanticThreshold,
		}
		if in.NumericRange != nil {
			data, err := json.Marshal(in.NumericRange)
			if err != nil {
				return nil, err
			}
			row.NumericRange = data
		}
		rows = append(rows, row)
	}
	return rows, nil
}

const schemeImportSystemPrompt = "You are an assistant that converts raw marking scheme documents into structured JSON. " +
	"Output ONLY a JSON array, no prose. Each element must have: question_number (int), question_text (string), " +
	"answer_text (string), marks (int), grading_type (one of \"one-word\", \"short-phrase\", \"list\", \"numerical\")."

// schemeLineRe 兜底解析：形如 "1) Paris (2 marks)" 的行
var schemeLineRe = regexp.MustCompile(`^\s*(\d+)\s*[).:\-]?\s+(.*?)(?:\s*[\[(](\d+)\s*marks?[\])])?\s*$`)

// ImportSchemeText 把原始评分方案文本解析成结构化题目
// 优先走推理服务，服务不可用或输出不合法时退回正则解析
func (s *SchemeService) ImportSchemeText(ctx context.Context, raw string) ([]SchemeAnswerInput, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("marking scheme text is empty")
	}

	if s.Inference != nil {
		if parsed, err := s.importWithInference(ctx, raw); err == nil && len(parsed) > 0 {
			return parsed, nil
		} else if err != nil {
			s.Logger.Warn("scheme import via inference failed, falling back to line parser", zap.Error(err))
		}
	}

	parsed := parseSchemeLines(raw)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("could not extract any questions from scheme text")
	}
	return parsed, nil
}

func (s *SchemeService) importWithInference(ctx context.Context, raw string) ([]SchemeAnswerInput, error) {
	content, err := s.Inference.Complete(ctx, schemeImportSystemPrompt, raw)
	if err != nil {
		return nil, err
	}

	// 模型偶尔会把 JSON 包在代码块里
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed []SchemeAnswerInput
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return nil, fmt.Errorf("inference output is not valid JSON: %w", err)
	}

	for i := range parsed {
		applySchemeDefaults(&parsed[i])
		if _, err := grading.ParseType(parsed[i].GradingType); err != nil {
			parsed[i].GradingType = inferGradingType(parsed[i].AnswerText)
		}
	}
	return parsed, nil
}

// parseSchemeLines 逐行正则解析，未标注分值的题目默认 10 分
func parseSchemeLines(raw string) []SchemeAnswerInput {
	var parsed []SchemeAnswerInput
	seen := make(map[int]bool)

	for _, line := range strings.Split(raw, "\n") {
		m := schemeLineRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil || num <= 0 || seen[num] {
			continue
		}
		answer := strings.TrimSpace(m[2])
		if answer == "" {
			continue
		}
		marks := 0
		if m[3] != "" {
			if v, err := strconv.Atoi(m[3]); err == nil && v > 0 {
				marks = v
			}
		}

		seen[num] = true
		in := SchemeAnswerInput{
			QuestionNumber: num,
			AnswerText:     answer,
			Marks:          marks,
			GradingType:    inferGradingType(answer),
		}
		applySchemeDefaults(&in)
		parsed = append(parsed, in)
	}
	return parsed
}

func applySchemeDefaults(in *SchemeAnswerInput) {
	if in.Marks <= 0 {
		in.Marks = 10
	}
	switch in.GradingType {
	case string(grading.TypeOneWord):
		// 答案里带大写字母时视为大小写敏感
		in.CaseSensitive = strings.ToLower(in.AnswerText) != in.AnswerText
	case string(grading.TypeShortPhrase):
		if in.SemanticThreshold <= 0 {
			in.SemanticThreshold = grading.DefaultSemanticThreshold
		}
	case string(grading.TypeList):
		in.PartialMatching = true
	}
}

// inferGradingType 根据标准答案形态推断判分类型
func inferGradingType(answer string) string {
	if _, err := grading.ParseNumber(answer); err == nil {
		return string(grading.TypeNumerical)
	}
	if len(grading.TokenizeList(answer)) > 1 {
		return string(grading.TypeList)
	}
	if len(strings.Fields(answer)) == 1 {
		return string(grading.TypeOneWord)
	}
	return string(grading.TypeShortPhrase)
}
