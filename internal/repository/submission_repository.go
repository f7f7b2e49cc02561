package repository

import (
	"exam_marking_backend/internal/model"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) Create(s *model.Submission) error {
	return r.DB.Create(s).Error
}

func (r *SubmissionRepository) FindByID(id uint) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.First(&s, id).Error
	return &s, err
}

func (r *SubmissionRepository) FindByHash(assignmentID uint, hash string) (*model.Submission, error) {
	var s model.Submission
	err := r.DB.Where("assignment_id = ? AND file_hash = ?", assignmentID, hash).First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) ListByAssignment(assignmentID uint) ([]model.Submission, error) {
	var ss []model.Submission
	err := r.DB.Where("assignment_id = ?", assignmentID).Order("created_at asc").Find(&ss).Error
	return ss, err
}

func (r *SubmissionRepository) Delete(id uint) error {
	return r.DB.Delete(&model.Submission{}, id).Error
}

// UpdateScore 写入评分总分，score 传 nil 表示回到未评分状态
func (r *SubmissionRepository) UpdateScore(id uint, score *int) error {
	return r.DB.Model(&model.Submission{}).Where("id = ?", id).Update("score", score).Error
}

// ClearScoresByAssignment 把作业下所有提交的总分置空（未评分 ≠ 0 分）
func (r *SubmissionRepository) ClearScoresByAssignment(assignmentID uint) (int64, error) {
	result := r.DB.Model(&model.Submission{}).
		Where("assignment_id = ?", assignmentID).
		Update("score", nil)
	return result.RowsAffected, result.Error
}

func (r *SubmissionRepository) CountByLecturer(lecturerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Submission{}).
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.lecturer_id = ?", lecturerID).
		Count(&count).Error
	return count, err
}

func (r *SubmissionRepository) MonthlyTrend(lecturerID uint) ([]MonthCount, error) {
	var rows []MonthCount
	err := r.DB.Model(&model.Submission{}).
		Select("DATE_FORMAT(submissions.created_at, '%Y-%m') as month, COUNT(*) as count").
		Joins("JOIN assignments ON assignments.id = submissions.assignment_id").
		Joins("JOIN course_modules ON course_modules.id = assignments.module_id").
		Where("course_modules.lecturer_id = ?", lecturerID).
		Group("month").
		Order("month asc").
		Scan(&rows).Error
	return rows, err
}
