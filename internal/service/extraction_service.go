package service

import (
	"bufio"
	"context"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"exam_marking_backend/internal/model"

	"go.uber.org/zap"
)

// answerLineRe 匹配 "1) answer" / "2. answer" / "3: answer" / "4 - answer" 形式的题号行
var answerLineRe = regexp.MustCompile(`^\s*(\d+)\s*[).:\-]?\s+(.*)$`)

// ExtractionService 把提交文件解析为 题号->作答文本
// 解析失败不报错，返回空集合，后续按未作答处理
type ExtractionService struct {
	Storage *StorageService
	Logger  *zap.Logger
}

func NewExtractionService(storage *StorageService, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{Storage: storage, Logger: logger}
}

func (s *ExtractionService) ExtractAnswers(ctx context.Context, submission *model.Submission) map[int]string {
	answers := make(map[int]string)

	ext := strings.ToLower(filepath.Ext(submission.FileName))
	if ext != ".txt" {
		// PDF/DOCX 的文本抽取由上传侧预转换，这里只认纯文本
		s.Logger.Warn("unsupported submission format, treating as empty",
			zap.Uint("submission_id", submission.ID),
			zap.String("file_name", submission.FileName))
		return answers
	}

	// 文件读不到按空作答处理，评分总能产出完整结果
	reader, err := s.Storage.Open(ctx, submission.FilePath)
	if err != nil {
		s.Logger.Error("failed to open submission file, treating as empty",
			zap.Uint("submission_id", submission.ID),
			zap.Error(err))
		return answers
	}
	defer reader.Close()

	current := 0
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := answerLineRe.FindStringSubmatch(line); m != nil {
			num, convErr := strconv.Atoi(m[1])
			if convErr == nil && num > 0 {
				current = num
				answers[num] = strings.TrimSpace(m[2])
				continue
			}
		}
		// 续行追加到当前题目，保留换行以便列表题按行拆分
		if current > 0 && strings.TrimSpace(line) != "" {
			answers[current] = answers[current] + "\n" + strings.TrimSpace(line)
		}
	}
	if err := scanner.Err(); err != nil {
		s.Logger.Error("failed to read submission file, treating as empty",
			zap.Uint("submission_id", submission.ID),
			zap.Error(err))
		return map[int]string{}
	}

	return answers
}
