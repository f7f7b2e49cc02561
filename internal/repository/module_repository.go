package repository

import (
	"exam_marking_backend/internal/model"

	"gorm.io/gorm"
)

type ModuleRepository struct {
	DB *gorm.DB
}

func NewModuleRepository(db *gorm.DB) *ModuleRepository {
	return &ModuleRepository{DB: db}
}

func (r *ModuleRepository) Create(m *model.CourseModule) error {
	return r.DB.Create(m).Error
}

func (r *ModuleRepository) FindByID(id uint) (*model.CourseModule, error) {
	var m model.CourseModule
	err := r.DB.First(&m, id).Error
	return &m, err
}

func (r *ModuleRepository) FindByIDForLecturer(id, lecturerID uint) (*model.CourseModule, error) {
	var m model.CourseModule
	err := r.DB.Where("id = ? AND lecturer_id = ?", id, lecturerID).First(&m).Error
	return &m, err
}

func (r *ModuleRepository) ListByLecturer(lecturerID uint, page, limit int) ([]model.CourseModule, int64, error) {
	var ms []model.CourseModule
	var total int64
	query := r.DB.Model(&model.CourseModule{}).Where("lecturer_id = ?", lecturerID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&ms).Error
	return ms, total, err
}

func (r *ModuleRepository) Update(m *model.CourseModule) error {
	return r.DB.Save(m).Error
}

func (r *ModuleRepository) Delete(id uint) error {
	return r.DB.Delete(&model.CourseModule{}, id).Error
}

// CountByLecturer 讲师名下模块总数，仪表盘用
func (r *ModuleRepository) CountByLecturer(lecturerID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.CourseModule{}).Where("lecturer_id = ?", lecturerID).Count(&count).Error
	return count, err
}

// MonthlyTrend 按月统计模块创建数
func (r *ModuleRepository) MonthlyTrend(lecturerID uint) ([]MonthCount, error) {
	var rows []MonthCount
	err := r.DB.Model(&model.CourseModule{}).
		Select("DATE_FORMAT(created_at, '%Y-%m') as month, COUNT(*) as count").
		Where("lecturer_id = ?", lecturerID).
		Group("month").
		Order("month asc").
		Scan(&rows).Error
	return rows, err
}

// MonthCount 按月聚合行
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}
