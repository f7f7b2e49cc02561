package controller

import (
	"errors"

	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SubmissionController struct {
	SubmissionService *service.SubmissionService
}

func NewSubmissionController(submissionService *service.SubmissionService) *SubmissionController {
	return &SubmissionController{SubmissionService: submissionService}
}

// Upload godoc
// @Summary 上传作答文件
// @Description 为指定作业上传一份学生作答，内容相同的文件会被判为重复提交
// @Tags 提交
// @Accept  multipart/form-data
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   file formData file true "作答文件(.txt/.pdf/.docx)"
// @Success 201 {object} util.Response{data=model.Submission}
// @Failure 400 {object} util.Response "文件类型不支持"
// @Failure 404 {object} util.Response "作业不存在"
// @Failure 409 {object} util.Response "重复提交"
// @Router /api/assignments/{id}/submissions [post]
func (c *SubmissionController) Upload(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	submission, err := c.SubmissionService.Upload(ctx.Request.Context(), assignmentID, file)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssignmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrDuplicateUpload):
			util.Error(ctx, 409, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, submission)
}

// List godoc
// @Summary 作业下的提交列表
// @Tags 提交
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=[]model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/submissions [get]
func (c *SubmissionController) List(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	submissions, err := c.SubmissionService.ListByAssignment(assignmentID)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submissions)
}

// Get godoc
// @Summary 查看提交
// @Tags 提交
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response{data=model.Submission}
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id} [get]
func (c *SubmissionController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	submission, err := c.SubmissionService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, submission)
}

// Delete godoc
// @Summary 删除提交
// @Tags 提交
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "提交ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/submissions/{id} [delete]
func (c *SubmissionController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.SubmissionService.Delete(ctx.Request.Context(), id); err != nil {
		if errors.Is(err, util.ErrSubmissionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
