package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newExtractionEnv(t *testing.T) (*ExtractionService, *StorageService) {
	t.Helper()
	storageCfg := config.StorageConfig{Type: "local", LocalPath: t.TempDir()}
	storage := &StorageService{Provider: &LocalStorageProvider{Config: &storageCfg}}
	return NewExtractionService(storage, zap.NewNop()), storage
}

func storedSubmission(t *testing.T, storage *StorageService, name, content string) *model.Submission {
	t.Helper()
	key := "submissions/" + time.Now().Format("150405.000000000") + "-" + name
	_, err := storage.Upload(context.Background(), key, strings.NewReader(content), int64(len(content)), "text/plain")
	require.NoError(t, err)
	return &model.Submission{FileName: name, FilePath: key}
}

func TestExtractAnswers(t *testing.T) {
	svc, storage := newExtractionEnv(t)

	t.Run("numbered answers", func(t *testing.T) {
		sub := storedSubmission(t, storage, "a.txt", "1) Paris\n2. 42\n3: red, green\n")
		answers := svc.ExtractAnswers(context.Background(), sub)
		assert.Equal(t, map[int]string{1: "Paris", 2: "42", 3: "red, green"}, answers)
	})

	t.Run("continuation lines append to current question", func(t *testing.T) {
		sub := storedSubmission(t, storage, "b.txt", "1) red\ngreen\nblue\n2) Paris\n")
		answers := svc.ExtractAnswers(context.Background(), sub)
		assert.Equal(t, "red\ngreen\nblue", answers[1])
		assert.Equal(t, "Paris", answers[2])
	})

	t.Run("unparseable content yields empty map", func(t *testing.T) {
		sub := storedSubmission(t, storage, "c.txt", "no question markers anywhere\n")
		answers := svc.ExtractAnswers(context.Background(), sub)
		assert.Empty(t, answers)
	})

	t.Run("unsupported format treated as empty", func(t *testing.T) {
		sub := storedSubmission(t, storage, "d.pdf", "%PDF-1.4")
		answers := svc.ExtractAnswers(context.Background(), sub)
		assert.Empty(t, answers)
	})

	t.Run("missing file treated as empty", func(t *testing.T) {
		sub := &model.Submission{FileName: "x.txt", FilePath: "submissions/never-written.txt"}
		answers := svc.ExtractAnswers(context.Background(), sub)
		assert.Empty(t, answers)
	})
}
