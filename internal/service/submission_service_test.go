package service

import (
	"bytes"
	"context"
	"mime/multipart"
	"testing"

	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func makeFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	reader := multipart.NewReader(&buf, w.Boundary())
	form, err := reader.ReadForm(32 << 20)
	require.NoError(t, err)
	return form.File["file"][0]
}

func TestSubmissionUpload(t *testing.T) {
	env := newTestEnv(t)
	a := env.createAssignment(t)

	svc := NewSubmissionService(
		env.submissionRepo,
		repository.NewAssignmentRepository(env.db),
		env.storage,
		zap.NewNop(),
	)

	t.Run("successful upload", func(t *testing.T) {
		sub, err := svc.Upload(context.Background(), a.ID, makeFileHeader(t, "answers.txt", "1) Paris\n"))
		require.NoError(t, err)
		assert.Equal(t, "answers.txt", sub.FileName)
		assert.NotEmpty(t, sub.FileHash)
		assert.Nil(t, sub.Score)

		// 落盘内容可以读回
		reader, err := env.storage.Open(context.Background(), sub.FilePath)
		require.NoError(t, err)
		defer reader.Close()
	})

	t.Run("identical content is a duplicate", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), a.ID, makeFileHeader(t, "renamed.txt", "1) Paris\n"))
		assert.ErrorIs(t, err, util.ErrDuplicateUpload)
	})

	t.Run("different content accepted", func(t *testing.T) {
		sub, err := svc.Upload(context.Background(), a.ID, makeFileHeader(t, "answers.txt", "1) London\n"))
		require.NoError(t, err)
		assert.NotZero(t, sub.ID)
	})

	t.Run("unsupported extension rejected", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), a.ID, makeFileHeader(t, "answers.exe", "boom"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported file type")
	})

	t.Run("unknown assignment", func(t *testing.T) {
		_, err := svc.Upload(context.Background(), 9999, makeFileHeader(t, "answers.txt", "1) Paris\n"))
		assert.ErrorIs(t, err, util.ErrAssignmentNotFound)
	})
}
