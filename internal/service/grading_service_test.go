package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"
	"exam_marking_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// countingScorer 记录调用次数的确定性语义判分桩
type countingScorer struct {
	mu       sync.Mutex
	response string
	calls    int
}

func (s *countingScorer) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.response, nil
}

func (s *countingScorer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type testEnv struct {
	db             *gorm.DB
	storage        *StorageService
	scorer         *countingScorer
	submissionRepo *repository.SubmissionRepository
	resultRepo     *repository.GradingResultRepository
	schemeService  *SchemeService
	grading        *GradingService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "grading_test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	storageCfg := config.StorageConfig{Type: "local", LocalPath: t.TempDir()}
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &storageCfg}}

	log := zap.NewNop()
	scorer := &countingScorer{response: "0.9"}

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	schemeRepo := repository.NewMarkingSchemeRepository(db)
	resultRepo := repository.NewGradingResultRepository(db)

	schemeService := NewSchemeService(schemeRepo, assignmentRepo, nil, log)
	extraction := NewExtractionService(storage, log)

	gradingCfg := config.GradingConfig{
		QuestionWorkers:   2,
		SubmissionWorkers: 1,
		LockTTL:           time.Minute,
		LockWait:          time.Second,
	}

	grading := NewGradingService(
		schemeService, extraction,
		submissionRepo, assignmentRepo, resultRepo,
		scorer, nil, gradingCfg, log,
	)

	return &testEnv{
		db:             db,
		storage:        storage,
		scorer:         scorer,
		submissionRepo: submissionRepo,
		resultRepo:     resultRepo,
		schemeService:  schemeService,
		grading:        grading,
	}
}

func (e *testEnv) createAssignment(t *testing.T) *model.Assignment {
	t.Helper()
	m := &model.CourseModule{Name: "Databases", Code: "CS2040", LecturerID: 1}
	require.NoError(t, e.db.Create(m).Error)
	a := &model.Assignment{Title: "Quiz 1", ModuleID: m.ID, DueDate: time.Now().Add(24 * time.Hour)}
	require.NoError(t, e.db.Create(a).Error)
	return a
}

func (e *testEnv) createScheme(t *testing.T, assignmentID uint, answers []SchemeAnswerInput) {
	t.Helper()
	_, err := e.schemeService.CreateScheme(assignmentID, "Quiz 1 scheme", 40, answers)
	require.NoError(t, err)
}

func (e *testEnv) createSubmission(t *testing.T, assignmentID uint, content string) *model.Submission {
	t.Helper()
	key := "submissions/answers-" + time.Now().Format("150405.000000000") + ".txt"
	_, err := e.storage.Upload(context.Background(), key, strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)

	s := &model.Submission{
		AssignmentID: assignmentID,
		FileName:     "answers.txt",
		FilePath:     key,
		FileHash:     key,
	}
	require.NoError(t, e.submissionRepo.Create(s))
	return s
}

func standardAnswers() []SchemeAnswerInput {
	return []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "Paris", Marks: 2, GradingType: "one-word"},
		{QuestionNumber: 2, AnswerText: "red, green, blue", Marks: 3, GradingType: "list", PartialMatching: true},
		{QuestionNumber: 3, AnswerText: "42", Marks: 2, GradingType: "numerical"},
	}
}

func TestGradeSubmission(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())
	sub := env.createSubmission(t, a.ID, "1) Paris\n2) red, green\n3) 42\n")

	results, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 按题号升序返回
	assert.Equal(t, 1, results[0].QuestionNumber)
	assert.Equal(t, 2, results[1].QuestionNumber)
	assert.Equal(t, 3, results[2].QuestionNumber)

	assert.True(t, results[0].IsCorrect)
	assert.Equal(t, 2, results[0].MarksAwarded)

	assert.False(t, results[1].IsCorrect)
	assert.Equal(t, 2, results[1].MarksAwarded) // 2/3 条目，3 分按比例取整

	assert.True(t, results[2].IsCorrect)
	assert.Equal(t, 2, results[2].MarksAwarded)

	// 写回提交的总分等于各题得分之和
	updated, err := env.submissionRepo.FindByID(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 6, *updated.Score)

	for _, r := range results {
		assert.GreaterOrEqual(t, r.MarksAwarded, 0)
		assert.LessOrEqual(t, r.MarksAwarded, r.AllocatedMarks)
	}
}

// 列表题作答写成多行时，续行抽取出的换行要能按条目拆开判分
func TestGradeSubmissionMultilineListAnswer(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())
	sub := env.createSubmission(t, a.ID, "1) Paris\n2) red\ngreen\nblue\n3) 42\n")

	results, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[1].IsCorrect)
	assert.Equal(t, 3, results[1].MarksAwarded)

	updated, err := env.submissionRepo.FindByID(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 7, *updated.Score)
}

func TestGradeSubmissionIdempotent(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "light scattering", Marks: 4, GradingType: "short-phrase", SemanticThreshold: 0.7},
	})
	sub := env.createSubmission(t, a.ID, "1) rayleigh scattering\n")

	first, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	second, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)

	// 两次调用结果一致，语义判分只发生一次
	require.Len(t, first, 1)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, first[0].MarksAwarded, second[0].MarksAwarded)
	assert.Equal(t, 1, env.scorer.callCount())
}

func TestClearResultsThenRegrade(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, []SchemeAnswerInput{
		{QuestionNumber: 1, AnswerText: "light scattering", Marks: 4, GradingType: "short-phrase", SemanticThreshold: 0.7},
	})
	sub := env.createSubmission(t, a.ID, "1) rayleigh scattering\n")

	_, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, env.scorer.callCount())

	deleted, err := env.grading.ClearResults(a.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	// 清空后总分回到未评分，而不是 0 分
	cleared, err := env.submissionRepo.FindByID(sub.ID)
	require.NoError(t, err)
	assert.Nil(t, cleared.Score)

	// 重评会重新触发语义判分
	_, err = env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, env.scorer.callCount())
}

func TestGradeSubmissionMissingAnswers(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())
	sub := env.createSubmission(t, a.ID, "nothing parseable here\n")

	results, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	for _, r := range results {
		assert.False(t, r.IsCorrect)
		assert.Equal(t, 0, r.MarksAwarded)
		assert.Equal(t, "no answer submitted", r.Explanation)
	}

	updated, err := env.submissionRepo.FindByID(sub.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 0, *updated.Score)
}

func TestGradeSubmissionPartiallyAnswered(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())
	sub := env.createSubmission(t, a.ID, "1) Paris\n")

	results, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)
	require.Len(t, results, 3)

	// 缺答的题也要出结果，不能静默丢题
	assert.True(t, results[0].IsCorrect)
	assert.Equal(t, "no answer submitted", results[1].Explanation)
	assert.Equal(t, "no answer submitted", results[2].Explanation)
}

func TestGradeSubmissionWithoutScheme(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	sub := env.createSubmission(t, a.ID, "1) Paris\n")

	_, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	assert.ErrorIs(t, err, util.ErrSchemeNotFound)
}

func TestGradeSubmissionNotFound(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.grading.GradeSubmission(context.Background(), 9999)
	assert.ErrorIs(t, err, util.ErrSubmissionNotFound)
}

func TestGradeAssignmentMissingFileGradesZero(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())

	good := env.createSubmission(t, a.ID, "1) Paris\n2) red, green, blue\n3) 42\n")

	// 文件缺失的提交按空作答判 0 分，评分照常走完，不算失败
	broken := &model.Submission{
		AssignmentID: a.ID,
		FileName:     "missing.txt",
		FilePath:     "submissions/does-not-exist.txt",
		FileHash:     "missing",
	}
	require.NoError(t, env.submissionRepo.Create(broken))

	outcome, err := env.grading.GradeAssignment(context.Background(), a.ID)
	require.NoError(t, err)

	assert.Equal(t, 2, outcome.Total)
	assert.Equal(t, 2, outcome.Graded)
	assert.Equal(t, 0, outcome.Failed)

	results, err := env.resultRepo.ListBySubmission(good.ID)
	require.NoError(t, err)
	assert.Len(t, results, 3)

	brokenResults, err := env.resultRepo.ListBySubmission(broken.ID)
	require.NoError(t, err)
	require.Len(t, brokenResults, 3)
	for _, r := range brokenResults {
		assert.Equal(t, 0, r.MarksAwarded)
		assert.Equal(t, "no answer submitted", r.Explanation)
	}

	updated, err := env.submissionRepo.FindByID(broken.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Score)
	assert.Equal(t, 0, *updated.Score)
}

func TestGradeAssignmentWithoutScheme(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	_, err := env.grading.GradeAssignment(context.Background(), a.ID)
	assert.ErrorIs(t, err, util.ErrSchemeNotFound)
}

func TestGradingDetailsAndReport(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)
	env.createScheme(t, a.ID, standardAnswers())
	sub := env.createSubmission(t, a.ID, "1) Paris\n2) red, green, blue\n3) 42\n")

	_, err := env.grading.GradeSubmission(context.Background(), sub.ID)
	require.NoError(t, err)

	details, err := env.grading.GetGradingDetails(sub.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, details.TotalMarks)
	assert.Equal(t, 7, details.FullMarks)
	assert.Equal(t, 40, details.PassScore)
	assert.True(t, details.Passed)

	report, err := env.grading.Report(a.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Submissions)
	assert.Equal(t, 1, report.Graded)
	assert.Equal(t, 1, report.Passed)
	assert.Equal(t, 100, report.HighestScore)
	assert.Equal(t, float64(100), report.MedianScore)
}
