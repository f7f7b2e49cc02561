package repository

import (
	"exam_marking_backend/internal/model"

	"gorm.io/gorm"
)

type MarkingSchemeRepository struct {
	DB *gorm.DB
}

func NewMarkingSchemeRepository(db *gorm.DB) *MarkingSchemeRepository {
	return &MarkingSchemeRepository{DB: db}
}

// Create 方案和题目答案在一个事务里落库
func (r *MarkingSchemeRepository) Create(scheme *model.MarkingScheme) error {
	return r.DB.Create(scheme).Error
}

func (r *MarkingSchemeRepository) FindByAssignment(assignmentID uint) (*model.MarkingScheme, error) {
	var scheme model.MarkingScheme
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("question_number asc")
	}).Where("assignment_id = ?", assignmentID).First(&scheme).Error
	return &scheme, err
}

func (r *MarkingSchemeRepository) Update(scheme *model.MarkingScheme) error {
	return r.DB.Save(scheme).Error
}

// ReplaceAnswers 整体替换方案内的题目答案
func (r *MarkingSchemeRepository) ReplaceAnswers(schemeID uint, answers []model.SchemeAnswer) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("marking_scheme_id = ?", schemeID).Delete(&model.SchemeAnswer{}).Error; err != nil {
			return err
		}
		for i := range answers {
			answers[i].MarkingSchemeID = schemeID
		}
		if len(answers) == 0 {
			return nil
		}
		return tx.Create(&answers).Error
	})
}

func (r *MarkingSchemeRepository) DeleteByAssignment(assignmentID uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var scheme model.MarkingScheme
		if err := tx.Where("assignment_id = ?", assignmentID).First(&scheme).Error; err != nil {
			return err
		}
		if err := tx.Where("marking_scheme_id = ?", scheme.ID).Delete(&model.SchemeAnswer{}).Error; err != nil {
			return err
		}
		return tx.Delete(&scheme).Error
	})
}
