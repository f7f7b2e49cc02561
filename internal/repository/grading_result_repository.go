package repository

import (
	"exam_marking_backend/internal/model"

	"gorm.io/gorm"
)

type GradingResultRepository struct {
	DB *gorm.DB
}

func NewGradingResultRepository(db *gorm.DB) *GradingResultRepository {
	return &GradingResultRepository{DB: db}
}

// CreateBatch 一次评分的全部结果原子写入，并同步提交总分
// (submission_id, question_number) 上有唯一索引，并发重复评分会在这里失败
func (r *GradingResultRepository) CreateBatch(results []model.GradingResult, submissionID uint, totalScore int) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if len(results) > 0 {
			if err := tx.Create(&results).Error; err != nil {
				return err
			}
		}
		return tx.Model(&model.Submission{}).
			Where("id = ?", submissionID).
			Update("score", totalScore).Error
	})
}

func (r *GradingResultRepository) ListBySubmission(submissionID uint) ([]model.GradingResult, error) {
	var results []model.GradingResult
	err := r.DB.Where("submission_id = ?", submissionID).
		Order("question_number asc").
		Find(&results).Error
	return results, err
}

func (r *GradingResultRepository) CountBySubmission(submissionID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.GradingResult{}).
		Where("submission_id = ?", submissionID).
		Count(&count).Error
	return count, err
}

// DeleteByAssignment 清空作业下所有提交的判分结果，返回删除行数
func (r *GradingResultRepository) DeleteByAssignment(assignmentID uint) (int64, error) {
	result := r.DB.Where("submission_id IN (?)",
		r.DB.Model(&model.Submission{}).Select("id").Where("assignment_id = ?", assignmentID),
	).Delete(&model.GradingResult{})
	return result.RowsAffected, result.Error
}
