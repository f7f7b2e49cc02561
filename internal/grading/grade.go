package grading

import (
	"context"
	"math"
	"strings"
)

// DefaultSemanticThreshold 短语题未配置阈值时的默认值
const DefaultSemanticThreshold = 0.7

// Result 单题判分结果，MarksAwarded 恒在 [0, AllocatedMarks] 内
type Result struct {
	QuestionNumber int
	StudentAnswer  string
	CorrectAnswer  string
	Type           Type
	AllocatedMarks int
	MarksAwarded   int
	Outcome
}

// GradeQuestion 按题目策略判一道题
// answered 为 false 表示提交中没有这道题的作答，仍然产出 0 分结果供下游展示
// 返回的 error 只用于记录语义判分的服务故障，Result 始终可用
func GradeQuestion(ctx context.Context, scorer Scorer, q *Question, rawAnswer string, answered bool) (Result, error) {
	result := Result{
		QuestionNumber: q.Number,
		StudentAnswer:  rawAnswer,
		CorrectAnswer:  q.Answer,
		Type:           q.Type,
		AllocatedMarks: q.Marks,
	}

	if !answered {
		result.Explanation = "no answer submitted"
		return result, nil
	}

	student := NormalizeScalar(rawAnswer)
	correct := NormalizeScalar(q.Answer)

	// 数值题不做大小写折叠
	if !q.CaseSensitive && q.Type != TypeNumerical {
		student = strings.ToLower(student)
		correct = strings.ToLower(correct)
	}

	var scoreErr error

	switch q.Type {
	case TypeOneWord:
		if student == correct {
			result.Outcome = Outcome{IsCorrect: true, ScorePercentage: 100}
		} else {
			result.Outcome = Outcome{Explanation: "answer does not match"}
		}

	case TypeShortPhrase:
		threshold := q.SemanticThreshold
		if threshold <= 0 {
			threshold = DefaultSemanticThreshold
		}
		result.Outcome, scoreErr = CheckMeaning(ctx, scorer, student, correct, q.Text, threshold)

	case TypeList:
		// 换行和制表符本身是列表分隔符，标量归一化会把它们吞掉，这里用原文分词
		listStudent, listCorrect := rawAnswer, q.Answer
		if !q.CaseSensitive {
			listStudent = strings.ToLower(listStudent)
			listCorrect = strings.ToLower(listCorrect)
		}
		result.Outcome = MatchList(TokenizeList(listStudent), TokenizeList(listCorrect), q.OrderSensitive, q.PartialMatching)

	case TypeNumerical:
		result.Outcome = MatchNumeric(student, correct, q.RangeSensitive, q.Range)
	}

	result.MarksAwarded = awardMarks(q, result.Outcome)
	return result, scoreErr
}

// awardMarks 列表题开启部分匹配时按比例给分，其余全对才得分
func awardMarks(q *Question, outcome Outcome) int {
	if q.Type == TypeList && q.PartialMatching {
		marks := int(math.Round(float64(q.Marks) * outcome.ScorePercentage / 100))
		if marks < 0 {
			marks = 0
		}
		if marks > q.Marks {
			marks = q.Marks
		}
		return marks
	}

	if outcome.IsCorrect {
		return q.Marks
	}
	return 0
}
