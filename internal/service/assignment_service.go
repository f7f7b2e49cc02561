package service

import (
	"errors"
	"time"

	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"

	"gorm.io/gorm"
)

type AssignmentService struct {
	AssignmentRepo *repository.AssignmentRepository
	ModuleRepo     *repository.ModuleRepository
}

func NewAssignmentService(assignmentRepo *repository.AssignmentRepository, moduleRepo *repository.ModuleRepository) *AssignmentService {
	return &AssignmentService{
		AssignmentRepo: assignmentRepo,
		ModuleRepo:     moduleRepo,
	}
}

// Create 建作业前校验模块归属，防止跨讲师写入
func (s *AssignmentService) Create(lecturerID, moduleID uint, title, description string, dueDate time.Time) (*model.Assignment, error) {
	if _, err := s.ModuleRepo.FindByIDForLecturer(moduleID, lecturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}

	a := &model.Assignment{
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		ModuleID:    moduleID,
	}
	if err := s.AssignmentRepo.Create(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Get(id uint) (*model.Assignment, error) {
	a, err := s.AssignmentRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAssignmentNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) ListByModule(moduleID uint, page, limit int) ([]model.Assignment, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.AssignmentRepo.ListByModule(moduleID, page, limit)
}

func (s *AssignmentService) Update(id uint, title, description string, dueDate *time.Time) (*model.Assignment, error) {
	a, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	if title != "" {
		a.Title = title
	}
	if description != "" {
		a.Description = description
	}
	if dueDate != nil {
		a.DueDate = *dueDate
	}

	if err := s.AssignmentRepo.Update(a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *AssignmentService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.AssignmentRepo.Delete(id)
}
