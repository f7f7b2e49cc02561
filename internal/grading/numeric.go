package grading

import (
	"fmt"
	"strconv"
	"strings"
)

// numericEpsilon 吸收浮点表示噪声，"42.0" 和 "42" 视为相等
const numericEpsilon = 1e-4

// ParseNumber 解析数值作答，允许千分位逗号和空白
func ParseNumber(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	s = strings.ReplaceAll(s, " ", "")
	return strconv.ParseFloat(s, 64)
}

// MatchNumeric 数值判分
// 非区间模式按 epsilon 相等比较；区间模式判 min<=x<=max，
// 落在区间外且配置了容差时，按离学生值最近的边界外扩 tolerance_percent
func MatchNumeric(student, correct string, rangeSensitive bool, r *NumericRange) Outcome {
	studentValue, err := ParseNumber(student)
	if err != nil {
		return Outcome{Explanation: "invalid numeric format in student answer"}
	}

	if !rangeSensitive || r == nil {
		correctValue, err := ParseNumber(correct)
		if err != nil {
			return Outcome{Explanation: "invalid numeric format in correct answer"}
		}
		diff := studentValue - correctValue
		if diff < 0 {
			diff = -diff
		}
		if diff <= numericEpsilon {
			return Outcome{IsCorrect: true, ScorePercentage: 100}
		}
		return Outcome{Explanation: fmt.Sprintf("expected %s, got %s", correct, student)}
	}

	if studentValue >= r.Min && studentValue <= r.Max {
		return Outcome{IsCorrect: true, ScorePercentage: 100}
	}

	if r.TolerancePercent > 0 {
		if studentValue < r.Min {
			tolerance := r.TolerancePercent / 100 * abs(r.Min)
			if studentValue >= r.Min-tolerance {
				return Outcome{
					IsCorrect:       true,
					ScorePercentage: 100,
					Explanation:     fmt.Sprintf("within %.4g%% tolerance of lower bound %.4g", r.TolerancePercent, r.Min),
				}
			}
		} else {
			tolerance := r.TolerancePercent / 100 * abs(r.Max)
			if studentValue <= r.Max+tolerance {
				return Outcome{
					IsCorrect:       true,
					ScorePercentage: 100,
					Explanation:     fmt.Sprintf("within %.4g%% tolerance of upper bound %.4g", r.TolerancePercent, r.Max),
				}
			}
		}
	}

	return Outcome{Explanation: fmt.Sprintf("value %s outside range [%.4g, %.4g]", student, r.Min, r.Max)}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
