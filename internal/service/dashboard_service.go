package service

import (
	"exam_marking_backend/internal/repository"
)

// DashboardService 讲师首页的统计数据
type DashboardService struct {
	ModuleRepo     *repository.ModuleRepository
	AssignmentRepo *repository.AssignmentRepository
	SubmissionRepo *repository.SubmissionRepository
}

func NewDashboardService(
	moduleRepo *repository.ModuleRepository,
	assignmentRepo *repository.AssignmentRepository,
	submissionRepo *repository.SubmissionRepository,
) *DashboardService {
	return &DashboardService{
		ModuleRepo:     moduleRepo,
		AssignmentRepo: assignmentRepo,
		SubmissionRepo: submissionRepo,
	}
}

type DashboardStats struct {
	Modules     int64 `json:"modules"`
	Assignments int64 `json:"assignments"`
	Submissions int64 `json:"submissions"`
}

type DashboardTrends struct {
	Modules     []repository.MonthCount `json:"modules"`
	Assignments []repository.MonthCount `json:"assignments"`
	Submissions []repository.MonthCount `json:"submissions"`
}

func (s *DashboardService) Stats(lecturerID uint) (*DashboardStats, error) {
	modules, err := s.ModuleRepo.CountByLecturer(lecturerID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.AssignmentRepo.CountByLecturer(lecturerID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.SubmissionRepo.CountByLecturer(lecturerID)
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Modules:     modules,
		Assignments: assignments,
		Submissions: submissions,
	}, nil
}

func (s *DashboardService) Trends(lecturerID uint) (*DashboardTrends, error) {
	modules, err := s.ModuleRepo.MonthlyTrend(lecturerID)
	if err != nil {
		return nil, err
	}
	assignments, err := s.AssignmentRepo.MonthlyTrend(lecturerID)
	if err != nil {
		return nil, err
	}
	submissions, err := s.SubmissionRepo.MonthlyTrend(lecturerID)
	if err != nil {
		return nil, err
	}
	return &DashboardTrends{
		Modules:     modules,
		Assignments: assignments,
		Submissions: submissions,
	}, nil
}
