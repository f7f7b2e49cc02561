package grading

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Scorer 语义判分的窄接口，真实实现走外部推理服务，测试里用确定性桩
type Scorer interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

const semanticSystemPrompt = "You are an AI assistant for grading papers. " +
	"You compare a student's answer against the correct answer and judge whether they are semantically equivalent."

var confidenceNumberRe = regexp.MustCompile(`\d+(?:\.\d+)?`)

// CheckMeaning 调用推理服务判断自由文本作答与标准答案是否同义
// 服务超时、异常或响应无法解析一律按置信度 0 处理，绝不让判分流程失败
func CheckMeaning(ctx context.Context, scorer Scorer, studentAnswer, correctAnswer, questionText string, threshold float64) (Outcome, error) {
	userPrompt := buildSemanticPrompt(studentAnswer, correctAnswer, questionText)

	response, err := scorer.Complete(ctx, semanticSystemPrompt, userPrompt)
	if err != nil {
		return Outcome{Explanation: "semantic check unavailable, treated as not equivalent"}, err
	}

	confidence := ExtractConfidence(response)
	return Outcome{
		IsCorrect:       confidence >= threshold,
		ScorePercentage: confidence * 100,
		Explanation:     fmt.Sprintf("semantic confidence %.2f (threshold %.2f)", confidence, threshold),
	}, nil
}

func buildSemanticPrompt(studentAnswer, correctAnswer, questionText string) string {
	var b strings.Builder
	if questionText != "" {
		fmt.Fprintf(&b, "Question: %s\n", questionText)
	}
	fmt.Fprintf(&b, "Check if the following answers have the same meaning. Student Answer: %s, Correct Answer: %s. ", studentAnswer, correctAnswer)
	b.WriteString("Respond with a confidence score between 0 and 1 indicating how semantically equivalent they are.")
	return b.String()
}

// ExtractConfidence 从响应文本中找第一个落在 [0,1] 的小数
// 找不到时退回 true/false 关键字，分别记 1.0 和 0.0
func ExtractConfidence(response string) float64 {
	for _, match := range confidenceNumberRe.FindAllString(response, -1) {
		value, err := strconv.ParseFloat(match, 64)
		if err == nil && value >= 0 && value <= 1 {
			return value
		}
	}

	lowered := strings.ToLower(response)
	if strings.Contains(lowered, "true") {
		return 1.0
	}
	if strings.Contains(lowered, "false") {
		return 0.0
	}
	return 0.0
}
