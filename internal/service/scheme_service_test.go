package service

import (
	"context"
	"testing"

	"exam_marking_backend/internal/grading"
	"exam_marking_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSchemeValidation(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)

	t.Run("rejects unknown grading type", func(t *testing.T) {
		_, err := env.schemeService.CreateScheme(a.ID, "s", 40, []SchemeAnswerInput{
			{QuestionNumber: 1, AnswerText: "x", Marks: 1, GradingType: "essay"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown grading type")
	})

	t.Run("rejects duplicate question numbers", func(t *testing.T) {
		_, err := env.schemeService.CreateScheme(a.ID, "s", 40, []SchemeAnswerInput{
			{QuestionNumber: 1, AnswerText: "x", Marks: 1, GradingType: "one-word"},
			{QuestionNumber: 1, AnswerText: "y", Marks: 1, GradingType: "one-word"},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate question number")
	})

	t.Run("rejects empty scheme", func(t *testing.T) {
		_, err := env.schemeService.CreateScheme(a.ID, "s", 40, nil)
		assert.Error(t, err)
	})

	t.Run("rejects second scheme for same assignment", func(t *testing.T) {
		answers := []SchemeAnswerInput{{QuestionNumber: 1, AnswerText: "x", Marks: 1, GradingType: "one-word"}}
		_, err := env.schemeService.CreateScheme(a.ID, "s", 40, answers)
		require.NoError(t, err)
		_, err = env.schemeService.CreateScheme(a.ID, "s2", 40, answers)
		assert.ErrorIs(t, err, util.ErrSchemeExists)
	})
}

func TestLoadScheme(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, []SchemeAnswerInput{
		{QuestionNumber: 2, AnswerText: "42", Marks: 2, GradingType: "numerical",
			RangeSensitive: true, NumericRange: &grading.NumericRange{Min: 40, Max: 50, TolerancePercent: 10}},
		{QuestionNumber: 1, AnswerText: "Paris", Marks: 3, GradingType: "one-word"},
	})

	scheme, err := env.schemeService.LoadScheme(a.ID)
	require.NoError(t, err)

	// 题目按题号升序装载
	require.Len(t, scheme.Questions, 2)
	assert.Equal(t, 1, scheme.Questions[0].Number)
	assert.Equal(t, 2, scheme.Questions[1].Number)
	assert.Equal(t, 5, scheme.TotalMarks())
	assert.Equal(t, 40, scheme.PassScore)

	q, ok := scheme.Lookup(2)
	require.True(t, ok)
	require.NotNil(t, q.Range)
	assert.Equal(t, float64(40), q.Range.Min)
	assert.Equal(t, float64(10), q.Range.TolerancePercent)
}

func TestLoadSchemeRejectsBadRangeConfig(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)

	_, err := env.schemeService.CreateScheme(a.ID, "s", 40, []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "42", Marks: 1, GradingType: "numerical", RangeSensitive: true},
	})
	require.NoError(t, err)

	// 配置错误在装载时暴露，不留到判题中途
	_, err = env.schemeService.LoadScheme(a.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "range_sensitive")
}

func TestLoadSchemeMissing(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	_, err := env.schemeService.LoadScheme(a.ID)
	assert.ErrorIs(t, err, util.ErrSchemeNotFound)
}

func TestUpdateSchemeReplacesAnswers(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "Paris", Marks: 2, GradingType: "one-word"},
		{QuestionNumber: 2, AnswerText: "42", Marks: 2, GradingType: "numerical"},
	})

	updated, err := env.schemeService.UpdateScheme(a.ID, "revised", 50, []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "London", Marks: 5, GradingType: "one-word"},
	})
	require.NoError(t, err)

	assert.Equal(t, "revised", updated.Title)
	assert.Equal(t, 50, updated.PassScore)
	require.Len(t, updated.Answers, 1)
	assert.Equal(t, "London", updated.Answers[0].AnswerText)
}

func TestParseSchemeLines(t *testing.T) {
	raw := "Quiz 1 marking scheme\n" +
		"1) Paris (2 marks)\n" +
		"2. red, green, blue (3 marks)\n" +
		"3: 42\n"

	parsed := parseSchemeLines(raw)
	require.Len(t, parsed, 3)

	assert.Equal(t, 1, parsed[0].QuestionNumber)
	assert.Equal(t, "Paris", parsed[0].AnswerText)
	assert.Equal(t, 2, parsed[0].Marks)
	assert.Equal(t, "one-word", parsed[0].GradingType)
	assert.True(t, parsed[0].CaseSensitive) // 答案含大写，推断为大小写敏感

	assert.Equal(t, "red, green, blue", parsed[1].AnswerText)
	assert.Equal(t, 3, parsed[1].Marks)
	assert.Equal(t, "list", parsed[1].GradingType)
	assert.True(t, parsed[1].PartialMatching)

	assert.Equal(t, "42", parsed[2].AnswerText)
	assert.Equal(t, 10, parsed[2].Marks) // 未标注分值默认 10 分
	assert.Equal(t, "numerical", parsed[2].GradingType)
}

func TestImportSchemeTextWithoutInference(t *testing.T) {
	env := newTestEnv(t)

	// 未配置推理服务时直接走正则解析，不 panic
	parsed, err := env.schemeService.ImportSchemeText(context.Background(), "1) Paris (2 marks)\n2) 42\n")
	require.NoError(t, err)
	require.Len(t, parsed, 2)
	assert.Equal(t, "Paris", parsed[0].AnswerText)
	assert.Equal(t, "numerical", parsed[1].GradingType)

	_, err = env.schemeService.ImportSchemeText(context.Background(), "   ")
	assert.Error(t, err)
}

func TestInferGradingType(t *testing.T) {
	tests := []struct {
		answer string
		want   string
	}{
		{"42", "numerical"},
		{"3.14", "numerical"},
		{"Paris", "one-word"},
		{"red, green, blue", "list"},
		{"light scattering in the atmosphere", "short-phrase"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, inferGradingType(tt.answer), tt.answer)
	}
}
