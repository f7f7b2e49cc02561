package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"

	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxSubmissionSize 单个作答文件上限 10MB
const maxSubmissionSize = 10 << 20

type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	AssignmentRepo *repository.AssignmentRepository
	Storage        *StorageService
	Logger         *zap.Logger
}

func NewSubmissionService(
	submissionRepo *repository.SubmissionRepository,
	assignmentRepo *repository.AssignmentRepository,
	storage *StorageService,
	logger *zap.Logger,
) *SubmissionService {
	return &SubmissionService{
		SubmissionRepo: submissionRepo,
		AssignmentRepo: assignmentRepo,
		Storage:        storage,
		Logger:         logger,
	}
}

// Upload 上传一份作答文件
// 同一作业下内容完全相同的文件按重复提交拒绝
func (s *SubmissionService) Upload(ctx context.Context, assignmentID uint, file *multipart.FileHeader) (*model.Submission, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}

	if !util.IsAllowedSubmissionFile(file.Filename) {
		return nil, fmt.Errorf("unsupported file type, allowed: %s",
			strings.Join(util.AllowedSubmissionExtensions, ", "))
	}
	if file.Size > maxSubmissionSize {
		return nil, fmt.Errorf("file too large, max %d bytes", maxSubmissionSize)
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	// 先读进内存算哈希，再重放同一份内容给存储层
	data, err := io.ReadAll(io.LimitReader(src, maxSubmissionSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxSubmissionSize {
		return nil, fmt.Errorf("file too large, max %d bytes", maxSubmissionSize)
	}

	hash, err := util.HashFile(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	if existing, err := s.SubmissionRepo.FindByHash(assignmentID, hash); err == nil {
		s.Logger.Info("duplicate submission rejected",
			zap.Uint("assignment_id", assignmentID),
			zap.Uint("existing_submission_id", existing.ID))
		return existing, util.ErrDuplicateUpload
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	storageKey := fmt.Sprintf("submissions/%d/%s%s", assignmentID, uuid.New().String(), ext)

	contentType := util.MimeOctetStream
	switch ext {
	case ".txt":
		contentType = util.MimeText
	case ".pdf":
		contentType = util.MimePDF
	case ".docx":
		contentType = util.MimeDocx
	}

	if _, err := s.Storage.Upload(ctx, storageKey, bytes.NewReader(data), int64(len(data)), contentType); err != nil {
		return nil, err
	}

	submission := &model.Submission{
		AssignmentID: assignmentID,
		FileName:     file.Filename,
		FilePath:     storageKey,
		FileHash:     hash,
	}
	if err := s.SubmissionRepo.Create(submission); err != nil {
		// 并发上传同一文件时唯一性的最终防线在库里，落库失败回滚存储
		_ = s.Storage.Delete(ctx, storageKey)
		return nil, err
	}

	s.Logger.Info("submission uploaded",
		zap.Uint("assignment_id", assignmentID),
		zap.Uint("submission_id", submission.ID),
		zap.String("file_name", file.Filename))
	return submission, nil
}

func (s *SubmissionService) Get(id uint) (*model.Submission, error) {
	submission, err := s.SubmissionRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSubmissionNotFound
		}
		return nil, err
	}
	return submission, nil
}

func (s *SubmissionService) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	if _, err := s.AssignmentRepo.FindByID(assignmentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return s.SubmissionRepo.ListByAssignment(assignmentID)
}

func (s *SubmissionService) Delete(ctx context.Context, id uint) error {
	submission, err := s.Get(id)
	if err != nil {
		return err
	}
	if err := s.SubmissionRepo.Delete(id); err != nil {
		return err
	}
	if err := s.Storage.Delete(ctx, submission.FilePath); err != nil {
		s.Logger.Warn("failed to delete submission file",
			zap.Uint("submission_id", id), zap.Error(err))
	}
	return nil
}
