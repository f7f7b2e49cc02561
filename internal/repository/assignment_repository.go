package repository

import (
	"exam_marking_backend/internal/model"

	"gorm.io/gorm"
)

type AssignmentRepository struct {
	DB *gorm.DB
}

func NewAssignmentRepository(db *gorm.DB) *AssignmentRepository {
	return &AssignmentRepository{DB: db}
}

func (r *AssignmentRepository) Create(a *model.Assignment) error {
	return r.DB.Create(a).Error
}

func (r *AssignmentRepository) FindByID(id uint) (*model.Assignment, error) {
	var a model.Assignment
	err := r.DB.Preload("Module").First(&a, id).Error
	return &a, err
}

func (r *AssignmentRepository) ListByModule(moduleID uint, page, limit int) ([]model.Assignment, int64, error) {
	var as []model.Assignment
	var total int64
	query := r.DB.Model(&model.Assignment{}).Where("module_id = ?", moduleID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("due_date asc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *AssignmentRepository) ListByLecturer(lecturerID uint) ([]model.Assignment, error) {
	var as []model.Assignment
	err := r.DB.Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.lecturer_id = ?", lecturerID).
		Order("assignments.due_date asc").
		Find(&as).Error
	return as, err
}

func (r *AssignmentRepository) Update(a *model.Assignment) error {
	return r.DB.Save(a).Error
}

func (r *AssignmentRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Assignment{}, id).Error
}

func (r *AssignmentRepository) CountByLecturer(lecturerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Assignment{}).
		Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.lecturer_id = ?", lecturerID).
		Count(&count).Error
	return count, err
}

func (r *AssignmentRepository) MonthlyTrend(lecturerID uint) ([]MonthCount, error) {
	var rows []MonthCount
	err := r.DB.Model(&model.Assignment{}).
		Select("DATE_FORMAT(assignments.created_at, '%Y-%m') as month, COUNT(*) as count").
		Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.lecturer_id = ?", lecturerID).
		Group("month").
		Order("month asc").
		Scan(&rows).Error
	return rows, err
}
