// 手动触发整个作业的重评脚本
//
// 评分接口本身是幂等的，已有结果不会重算。评分方案修订后需要推翻旧结果时，
// 用本脚本先清空再重评。
//
// 用法: go run scripts/regrade.go <assignment_id>

package main

import (
	"context"
	"log"
	"os"
	"strconv"

	"exam_marking_backend/internal/config"
	"exam_marking_backend/internal/repository"
	"exam_marking_backend/internal/service"
	"exam_marking_backend/pkg/database"
	"exam_marking_backend/pkg/logger"

	"gopkg.in/yaml.v3"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/regrade.go <assignment_id>")
	}
	assignmentID, err := strconv.ParseUint(os.Args[1], 10, 32)
	if err != nil {
		log.Fatalf("非法的作业 ID: %v", err)
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	schemeRepo := repository.NewMarkingSchemeRepository(db)
	resultRepo := repository.NewGradingResultRepository(db)

	storage := service.NewStorageService(&cfg)
	inference := service.NewInferenceService(cfg.Inference)
	extraction := service.NewExtractionService(storage, logger.Log)
	schemeService := service.NewSchemeService(schemeRepo, assignmentRepo, inference, logger.Log)

	grading := service.NewGradingService(
		schemeService, extraction,
		submissionRepo, assignmentRepo, resultRepo,
		inference, nil, cfg.Grading, logger.Log,
	)

	deleted, err := grading.ClearResults(uint(assignmentID))
	if err != nil {
		log.Fatalf("清空旧结果失败: %v", err)
	}
	log.Printf("已清空 %d 条旧结果", deleted)

	outcome, err := grading.GradeAssignment(context.Background(), uint(assignmentID))
	if err != nil {
		log.Fatalf("重评失败: %v", err)
	}
	log.Printf("重评完成: 共 %d 份, 成功 %d, 失败 %d", outcome.Total, outcome.Graded, outcome.Failed)
	for id, msg := range outcome.Failures {
		log.Printf("  提交 %d: %s", id, msg)
	}
}
