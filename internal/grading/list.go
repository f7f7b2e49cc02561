package grading

import "fmt"

// LongestCommonSubsequence 经典 O(m*n) 动态规划，返回最长公共子序列长度
func LongestCommonSubsequence(a, b []string) int {
	m, n := len(a), len(b)
	if m == 0 || n == 0 {
		return 0
	}

	dp := make([][]int, m+1)
	for i := range dp {
		dp[i] = make([]int, n+1)
	}

	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if a[i-1] == b[j-1] {
				dp[i][j] = dp[i-1][j-1] + 1
			} else if dp[i-1][j] >= dp[i][j-1] {
				dp[i][j] = dp[i-1][j]
			} else {
				dp[i][j] = dp[i][j-1]
			}
		}
	}
	return dp[m][n]
}

// MatchList 比较学生与标准答案的条目序列
// 先做完全匹配（按序或按集合），不满足且开启部分匹配时给按比例分：
// 按序用 LCS 占标准条目数的比例，不按序用交集占标准集合的比例，多写不扣分也不加分
func MatchList(student, correct []string, orderSensitive, partialMatching bool) Outcome {
	// 标准答案为空视为不匹配，避免除零
	if len(correct) == 0 {
		return Outcome{Explanation: "marking scheme has no list items"}
	}

	if exactListMatch(student, correct, orderSensitive) {
		return Outcome{IsCorrect: true, ScorePercentage: 100}
	}

	if !partialMatching {
		return Outcome{Explanation: "list does not match expected items"}
	}

	if orderSensitive {
		lcs := LongestCommonSubsequence(student, correct)
		score := float64(lcs) / float64(len(correct)) * 100
		return Outcome{
			IsCorrect:       score >= 100,
			ScorePercentage: score,
			Explanation:     fmt.Sprintf("matched %d of %d items in order", lcs, len(correct)),
		}
	}

	correctSet := toSet(correct)
	matched := 0
	for item := range toSet(student) {
		if correctSet[item] {
			matched++
		}
	}
	score := float64(matched) / float64(len(correctSet)) * 100
	return Outcome{
		IsCorrect:       matched == len(correctSet),
		ScorePercentage: score,
		Explanation:     fmt.Sprintf("matched %d of %d items", matched, len(correctSet)),
	}
}

func exactListMatch(student, correct []string, orderSensitive bool) bool {
	if orderSensitive {
		if len(student) != len(correct) {
			return false
		}
		for i := range student {
			if student[i] != correct[i] {
				return false
			}
		}
		return true
	}

	studentSet, correctSet := toSet(student), toSet(correct)
	if len(studentSet) != len(correctSet) {
		return false
	}
	for item := range correctSet {
		if !studentSet[item] {
			return false
		}
	}
	return true
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}
