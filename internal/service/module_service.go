package service

import (
	"errors"

	"exam_marking_backend/internal/model"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/util"

	"gorm.io/gorm"
)

// ModuleService 课程模块管理，模块永远归属创建它的讲师
type ModuleService struct {
	ModuleRepo *repository.ModuleRepository
}

func NewModuleService(moduleRepo *repository.ModuleRepository) *ModuleService {
	return &ModuleService{ModuleRepo: moduleRepo}
}

func (s *ModuleService) Create(lecturerID uint, name, code, description string) (*model.CourseModule, error) {
	m := &model.CourseModule{
		Name:        name,
		Code:        code,
		Description: description,
		LecturerID:  lecturerID,
	}
	if err := s.ModuleRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) Get(id, lecturerID uint) (*model.CourseModule, error) {
	m, err := s.ModuleRepo.FindByIDForLecturer(id, lecturerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrModuleNotFound
		}
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) List(lecturerID uint, page, limit int) ([]model.CourseModule, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.ModuleRepo.ListByLecturer(lecturerID, page, limit)
}

func (s *ModuleService) Update(id, lecturerID uint, name, code, description string) (*model.CourseModule, error) {
	m, err := s.Get(id, lecturerID)
	if err != nil {
		return nil, err
	}

	if name != "" {
		m.Name = name
	}
	if code != "" {
		m.Code = code
	}
	if description != "" {
		m.Description = description
	}

	if err := s.ModuleRepo.Update(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *ModuleService) Delete(id, lecturerID uint) error {
	if _, err := s.Get(id, lecturerID); err != nil {
		return err
	}
	return s.ModuleRepo.Delete(id)
}
