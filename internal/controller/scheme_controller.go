package controller

import (
	"errors"

	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type SchemeController struct {
	SchemeService *service.SchemeService
}

func NewSchemeController(schemeService *service.SchemeService) *SchemeController {
	return &SchemeController{SchemeService: schemeService}
}

// SchemeRequest 评分方案创建/更新请求
// swagger:model SchemeRequest
type SchemeRequest struct {
	Title     string                      `json:"title" binding:"required"`
	PassScore int                         `json:"passScore"`
	Answers   []service.SchemeAnswerInput `json:"answers" binding:"required,dive"`
}

// Create godoc
// @Summary 创建评分方案
// @Description 为作业创建评分方案，每个作业只允许一份
// @Tags 评分方案
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body SchemeRequest true "方案内容"
// @Success 201 {object} util.Response{data=model.MarkingScheme}
// @Failure 400 {object} util.Response "判分类型或区间配置非法"
// @Failure 404 {object} util.Response "作业不存在"
// @Failure 409 {object} util.Response "方案已存在"
// @Router /api/assignments/{id}/scheme [post]
func (c *SchemeController) Create(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	var req SchemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	scheme, err := c.SchemeService.CreateScheme(assignmentID, req.Title, req.PassScore, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAssignmentNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrSchemeExists):
			util.Error(ctx, 409, err.Error())
		default:
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Created(ctx, scheme)
}

// Get godoc
// @Summary 查看评分方案
// @Tags 评分方案
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.MarkingScheme}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/scheme [get]
func (c *SchemeController) Get(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	scheme, err := c.SchemeService.GetScheme(assignmentID)
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, scheme)
}

// Update godoc
// @Summary 更新评分方案
// @Description 整体替换方案标题、及格线与全部题目
// @Tags 评分方案
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body SchemeRequest true "方案内容"
// @Success 200 {object} util.Response{data=model.MarkingScheme}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/scheme [put]
func (c *SchemeController) Update(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	var req SchemeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	scheme, err := c.SchemeService.UpdateScheme(assignmentID, req.Title, req.PassScore, req.Answers)
	if err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}
	util.Success(ctx, scheme)
}

// Delete godoc
// @Summary 删除评分方案
// @Tags 评分方案
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id}/scheme [delete]
func (c *SchemeController) Delete(ctx *gin.Context) {
	assignmentID := util.MustParseUint(ctx.Param("id"))

	if err := c.SchemeService.DeleteScheme(assignmentID); err != nil {
		if errors.Is(err, util.ErrSchemeNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// ImportRequest 原始方案文本导入请求
type ImportRequest struct {
	Text string `json:"text" binding:"required"`
}

// Import godoc
// @Summary 解析评分方案文本
// @Description 把原始方案文本解析成结构化题目，优先使用推理服务，失败时退回行解析；结果仅返回不落库
// @Tags 评分方案
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ImportRequest true "方案原始文本"
// @Success 200 {object} util.Response{data=[]service.SchemeAnswerInput}
// @Failure 400 {object} util.Response "无法解析出任何题目"
// @Router /api/schemes/parse [post]
func (c *SchemeController) Import(ctx *gin.Context) {
	var req ImportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	parsed, err := c.SchemeService.ImportSchemeText(ctx.Request.Context(), req.Text)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, parsed)
}
