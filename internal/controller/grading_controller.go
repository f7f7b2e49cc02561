package controller

import (
	"errors"

	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GradingController struct {
	GradingService *service.GradingService
}

func NewGradingController(gradingService *service.GradingService) *GradingController {
	return &GradingController{GradingService: gradingService}
}

// GradeSubmission godoc
// @Summary 评一份提交
// @Description 按评分方案判分；已评过的提交直接返回已有结果，不会重复判题
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=[]model.GradingResult}
// @Failure 404 {object} util.Response "提交或评分方案不存在"
// @Failure 409 {object} util.Response "等待并发评分超时"
// @Router /api/submissions/{id}/grade [post]
func (c *GradingController) GradeSubmission(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	results, err := c.GradingService.GradeSubmission(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSubmissionNotFound), errors.Is(err, util.ErrSchemeNotFound):
			util.Error(ctx, 404, err.Error())
		case errors.Is(err, util.ErrGradingLockTimeout):
			util.Error(ctx, 409, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, results)
}

// GradeAssignment godoc
// @Summary 批量评一个作业
// @Description 并发评作业下所有提交，单份失败不影响其它提交
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=service.BatchOutcome}
// @Failure 404 {object} util.Response "作业或评分方案不存在"
// @Router /api/assignments/{id}/grade [post]
func (c *GradingController) GradeAssignment(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	outcome, err := c.GradingService.GradeAssignment(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssignmentNotFound), errors.Is(err, util.ErrSchemeNotFound):
			util.Error(ctx, 404, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, outcome)
}

// Details godoc
// @Summary 查看提交的逐题评分结果
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=service.GradingDetails}
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id}/results [get]
func (c *GradingController) Details(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	details, err := c.GradingService.GetGradingDetails(id)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, details)
}

// Clear godoc
// @Summary 清空作业的评分结果
// @Description 删除作业下全部逐题结果，并把提交总分重置为未评分
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=object}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/results [delete]
func (c *GradingController) Clear(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	deleted, err := c.GradingService.ClearResults(id)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}

// Report godoc
// @Summary 作业成绩报告
// @Description 汇总作业下已评分提交的成绩分布与及格情况
// @Tags 评分
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=service.AssignmentReport}
// @Failure 404 {object} util.Response "评分方案不存在"
// @Router /api/assignments/{id}/report [get]
func (c *GradingController) Report(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	report, err := c.GradingService.Report(id)
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, report)
}
