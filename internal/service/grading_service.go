package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"sync"
	"time"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/grading"
	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"
	"exam_marking_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// GradingService 评分流水线编排：方案装载、答案抽取、并发判题、结果落库
// 同一份提交的评分是幂等的：已有结果直接返回，绝不重复判题
type GradingService struct {
	SchemeService  *SchemeService
	Extraction     *ExtractionService
	SubmissionRepo *repository.SubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
	ResultRepo     *repository.GradingResultRepository
	Scorer         grading.Scorer
	Redis          *redis.Client
	Config         config.GradingConfig
	Logger         *zap.Logger
}

func NewGradingService(
	schemeService *SchemeService,
	extraction *ExtractionService,
	submissionRepo *repository.SubmissionRepository,
	assignmentRepo *repository.AssignmentRepository,
	resultRepo *repository.GradingResultRepository,
	scorer grading.Scorer,
	redisClient *redis.Client,
	cfg config.GradingConfig,
	logger *zap.Logger,
) *GradingService {
	// 并发与锁参数兜底，防止未初始化的配置把流水线卡死
	if cfg.QuestionWorkers <= 0 {
		cfg.QuestionWorkers = 4
	}
	if cfg.SubmissionWorkers <= 0 {
		cfg.SubmissionWorkers = 8
	}
	if cfg.LockTTL < time.Second {
		cfg.LockTTL = 5 * time.Minute
	}
	if cfg.LockWait < time.Second {
		cfg.LockWait = 2 * time.Minute
	}
	return &GradingService{
		SchemeService:  schemeService,
		Extraction:     extraction,
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
		ResultRepo:     resultRepo,
		Scorer:         scorer,
		Redis:          redisClient,
		Config:         cfg,
		Logger:         logger,
	}
}

// GradingDetails 单份提交的完整评分视图
type GradingDetails struct {
	Submission *model.Submission     `json:"submission"`
	Results    []model.GradingResult `json:"results"`
	TotalMarks int                   `json:"totalMarks"`
	FullMarks  int                   `json:"fullMarks"`
	PassScore  int                   `json:"passScore"`
	Passed     bool                  `json:"passed"`
}

// BatchOutcome 批量评分汇总，单份失败不影响其它提交
type BatchOutcome struct {
	Total    int             `json:"total"`
	Graded   int             `json:"graded"`
	Failed   int             `json:"failed"`
	Failures map[uint]string `json:"failures,omitempty"`
}

// GradeSubmission 对一份提交判分
// 已评过的提交是纯读操作；并发调用通过 Redis 锁收敛成一次判题
func (s *GradingService) GradeSubmission(ctx context.Context, submissionID uint) ([]model.GradingResult, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	if results, ok, err := s.existingResults(submissionID); err != nil {
		return nil, err
	} else if ok {
		return results, nil
	}

	acquired, err := s.acquireLock(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		// 别的请求正在评这份提交，等它写完结果
		return s.waitForResults(ctx, submissionID)
	}
	defer s.releaseLock(submissionID)

	// 拿到锁后再查一次，锁竞争窗口内可能已被评完
	if results, ok, err := s.existingResults(submissionID); err != nil {
		return nil, err
	} else if ok {
		return results, nil
	}

	return s.gradeLocked(ctx, submission)
}

func (s *GradingService) gradeLocked(ctx context.Context, submission *model.Submission) ([]model.GradingResult, error) {
	scheme, err := s.SchemeService.LoadScheme(submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	// 抽取失败返回空集合，所有题目按未作答判 0 分，评分总能走完
	answers := s.Extraction.ExtractAnswers(ctx, submission)

	results := make([]grading.Result, len(scheme.Questions))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.QuestionWorkers)
	var mu sync.Mutex
	semanticFailures := 0

	for i := range scheme.Questions {
		i := i
		q := &scheme.Questions[i]
		g.Go(func() error {
			answer, answered := answers[q.Number]
			result, gradeErr := grading.GradeQuestion(gctx, s.Scorer, q, answer, answered)
			if gradeErr != nil {
				// 语义判分服务故障不终止整卷，该题按 0 分结论落库
				mu.Lock()
				semanticFailures++
				mu.Unlock()
				s.Logger.Warn("semantic check failed",
					zap.Uint("submission_id", submission.ID),
					zap.Int("question", q.Number),
					zap.Error(gradeErr))
			}
			results[i] = result
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	rows := make([]model.GradingResult, 0, len(results))
	for _, r := range results {
		total += r.MarksAwarded
		rows = append(rows, model.GradingResult{
			SubmissionID:    submission.ID,
			QuestionNumber:  r.QuestionNumber,
			StudentAnswer:   r.StudentAnswer,
			CorrectAnswer:   r.CorrectAnswer,
			IsCorrect:       r.IsCorrect,
			MarksAwarded:    r.MarksAwarded,
			AllocatedMarks:  r.AllocatedMarks,
			GradingType:     string(r.Type),
			ScorePercentage: r.ScorePercentage,
			Explanation:     r.Explanation,
		})
		monitoring.GradedQuestionCounter.WithLabelValues(
			string(r.Type), strconv.FormatBool(r.IsCorrect)).Inc()
	}

	// 提交总分就是各题得分之和，与结果行严格一致
	if err := s.ResultRepo.CreateBatch(rows, submission.ID, total); err != nil {
		// 唯一索引兜底：极端竞争下让先写入者生效
		if existing, ok, checkErr := s.existingResults(submission.ID); checkErr == nil && ok {
			return existing, nil
		}
		return nil, err
	}

	s.Logger.Info("submission graded",
		zap.Uint("submission_id", submission.ID),
		zap.Int("questions", len(rows)),
		zap.Int("score", total),
		zap.Int("full_marks", scheme.TotalMarks()),
		zap.Int("semantic_failures", semanticFailures))

	return s.ResultRepo.ListBySubmission(submission.ID)
}

// GradeAssignment 批量评一个作业下的全部提交，失败彼此隔离
func (s *GradingService) GradeAssignment(ctx context.Context, assignmentID uint) (*BatchOutcome, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}

	// 方案缺失/损坏是整批失败，提前暴露
	if _, err := s.SchemeService.LoadScheme(assignmentID); err != nil {
		return nil, err
	}

	submissions, err := s.SubmissionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	outcome := &BatchOutcome{
		Total:    len(submissions),
		Failures: make(map[uint]string),
	}
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Config.SubmissionWorkers)
	for _, sub := range submissions {
		sub := sub
		g.Go(func() error {
			_, gradeErr := s.GradeSubmission(gctx, sub.ID)
			mu.Lock()
			defer mu.Unlock()
			if gradeErr != nil {
				outcome.Failed++
				outcome.Failures[sub.ID] = gradeErr.Error()
			} else {
				outcome.Graded++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.Logger.Info("assignment graded",
		zap.Uint("assignment_id", assignmentID),
		zap.Int("total", outcome.Total),
		zap.Int("graded", outcome.Graded),
		zap.Int("failed", outcome.Failed))
	return outcome, nil
}

// GetGradingDetails 查询一份提交的逐题结果与及格结论
func (s *GradingService) GetGradingDetails(submissionID uint) (*GradingDetails, error) {
	submission, err := s.SubmissionRepo.FindByID(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}

	results, err := s.ResultRepo.ListBySubmission(submissionID)
	if err != nil {
		return nil, err
	}

	details := &GradingDetails{
		Submission: submission,
		Results:    results,
		PassScore:  model.DefaultPassScore,
	}
	for _, r := range results {
		details.TotalMarks += r.MarksAwarded
		details.FullMarks += r.AllocatedMarks
	}

	if scheme, err := s.SchemeService.GetScheme(submission.AssignmentID); err == nil {
		details.PassScore = scheme.PassScore
	}
	// 总分是原始分，及格线是百分比，换算后再比较
	if submission.Score != nil {
		details.Passed = percentScore(details.TotalMarks, details.FullMarks) >= details.PassScore
	}
	return details, nil
}

// ClearResults 清空作业下全部评分结果，提交总分回到未评分状态
func (s *GradingService) ClearResults(assignmentID uint) (int64, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, util.ErrAssignmentNotFound
		}
		return 0, err
	}

	deleted, err := s.ResultRepo.DeleteByAssignment(assignmentID)
	if err != nil {
		return 0, err
	}
	if _, err := s.SubmissionRepo.ClearScoresByAssignment(assignmentID); err != nil {
		return deleted, err
	}

	s.Logger.Info("grading results cleared",
		zap.Uint("assignment_id", assignmentID),
		zap.Int64("deleted", deleted))
	return deleted, nil
}

// AssignmentReport 作业维度的评分汇总
type AssignmentReport struct {
	AssignmentID uint    `json:"assignmentId"`
	Submissions  int     `json:"submissions"`
	Graded       int     `json:"graded"`
	Ungraded     int     `json:"ungraded"`
	PassScore    int     `json:"passScore"`
	Passed       int     `json:"passed"`
	AverageScore float64 `json:"averageScore"`
	MedianScore  float64 `json:"medianScore"`
	HighestScore int     `json:"highestScore"`
	LowestScore  int     `json:"lowestScore"`
}

// Report 汇总作业下各提交的成绩分布，仅统计已评分的提交
// 落库的总分是原始分，报表统一换算成百分制后再做及格与分布统计
func (s *GradingService) Report(assignmentID uint) (*AssignmentReport, error) {
	scheme, err := s.SchemeService.LoadScheme(assignmentID)
	if err != nil {
		return nil, err
	}
	fullMarks := scheme.TotalMarks()

	submissions, err := s.SubmissionRepo.ListByAssignment(assignmentID)
	if err != nil {
		return nil, err
	}

	report := &AssignmentReport{
		AssignmentID: assignmentID,
		Submissions:  len(submissions),
		PassScore:    scheme.PassScore,
	}

	sum := 0
	var scores []int
	for _, sub := range submissions {
		if sub.Score == nil {
			report.Ungraded++
			continue
		}
		percent := percentScore(*sub.Score, fullMarks)
		report.Graded++
		sum += percent
		scores = append(scores, percent)
		if percent >= scheme.PassScore {
			report.Passed++
		}
		if report.Graded == 1 || percent > report.HighestScore {
			report.HighestScore = percent
		}
		if report.Graded == 1 || percent < report.LowestScore {
			report.LowestScore = percent
		}
	}
	if report.Graded > 0 {
		report.AverageScore = math.Round(float64(sum)/float64(report.Graded)*100) / 100
		report.MedianScore = medianOf(scores)
	}
	return report, nil
}

func medianOf(scores []int) float64 {
	sort.Ints(scores)
	n := len(scores)
	if n%2 == 1 {
		return float64(scores[n/2])
	}
	return float64(scores[n/2-1]+scores[n/2]) / 2
}

func (s *GradingService) existingResults(submissionID uint) ([]model.GradingResult, bool, error) {
	count, err := s.ResultRepo.CountBySubmission(submissionID)
	if err != nil {
		return nil, false, err
	}
	if count == 0 {
		return nil, false, nil
	}
	results, err := s.ResultRepo.ListBySubmission(submissionID)
	return results, err == nil, err
}

func (s *GradingService) lockKey(submissionID uint) string {
	return fmt.Sprintf("grading:lock:submission:%d", submissionID)
}

// acquireLock Redis 不可用时退化为无锁评分，靠唯一索引兜底
func (s *GradingService) acquireLock(ctx context.Context, submissionID uint) (bool, error) {
	if s.Redis == nil {
		return true, nil
	}
	ok, err := s.Redis.SetNX(ctx, s.lockKey(submissionID), "1", s.Config.LockTTL).Result()
	if err != nil {
		s.Logger.Warn("grading lock unavailable, proceeding without it", zap.Error(err))
		return true, nil
	}
	return ok, nil
}

func (s *GradingService) releaseLock(submissionID uint) {
	if s.Redis == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := s.Redis.Del(ctx, s.lockKey(submissionID)).Err(); err != nil {
		s.Logger.Warn("failed to release grading lock",
			zap.Uint("submission_id", submissionID), zap.Error(err))
	}
}

// waitForResults 轮询等待持锁方写入结果
func (s *GradingService) waitForResults(ctx context.Context, submissionID uint) ([]model.GradingResult, error) {
	deadline := time.Now().Add(s.Config.LockWait)
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}

		if results, ok, err := s.existingResults(submissionID); err != nil {
			return nil, err
		} else if ok {
			return results, nil
		}

		if time.Now().After(deadline) {
			return nil, util.ErrGradingLockTimeout
		}

		// 持锁方可能失败退出且没留下结果，锁空出来就接手
		if acquired, _ := s.acquireLock(ctx, submissionID); acquired {
			defer s.releaseLock(submissionID)
			if results, ok, err := s.existingResults(submissionID); err != nil {
				return nil, err
			} else if ok {
				return results, nil
			}
			submission, err := s.SubmissionRepo.FindByID(submissionID)
			if err != nil {
				return nil, err
			}
			return s.gradeLocked(ctx, submission)
		}
	}
}

// percentScore 总分换算成百分制，及格线按百分比配置
func percentScore(awarded, full int) int {
	if full <= 0 {
		return 0
	}
	return int(math.Round(float64(awarded) / float64(full) * 100))
}
