package controller

import (
	"errors"
	"strconv"
	"time"

	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AssignmentController struct {
	AssignmentService *service.AssignmentService
}

func NewAssignmentController(assignmentService *service.AssignmentService) *AssignmentController {
	return &AssignmentController{AssignmentService: assignmentService}
}

// CreateAssignmentRequest 作业创建请求
// swagger:model CreateAssignmentRequest
type CreateAssignmentRequest struct {
	ModuleID    uint      `json:"moduleId" binding:"required"`
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"dueDate" binding:"required"`
}

// Create godoc
// @Summary 创建作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body CreateAssignmentRequest true "作业信息"
// @Success 201 {object} util.Response{data=model.Assignment}
// @Failure 400 {object} util.Response
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/assignments [post]
func (c *AssignmentController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req CreateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssignmentService.Create(claims.UserID, req.ModuleID, req.Title, req.Description, req.DueDate)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, a)
}

// List godoc
// @Summary 模块下的作业列表
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   moduleId query int true "模块ID"
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/assignments [get]
func (c *AssignmentController) List(ctx *gin.Context) {
	moduleID := util.MustParseUint(ctx.Query("moduleId"))
	if moduleID == 0 {
		util.BadRequest(ctx, "moduleId is required")
		return
	}
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	assignments, total, err := c.AssignmentService.ListByModule(moduleID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: assignments, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 查看作业
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [get]
func (c *AssignmentController) Get(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	a, err := c.AssignmentService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, a)
}

// UpdateAssignmentRequest 作业更新请求
type UpdateAssignmentRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
}

// Update godoc
// @Summary 更新作业
// @Tags 作业
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Param   body body UpdateAssignmentRequest true "作业信息"
// @Success 200 {object} util.Response{data=model.Assignment}
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [put]
func (c *AssignmentController) Update(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req UpdateAssignmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	a, err := c.AssignmentService.Update(id, req.Title, req.Description, req.DueDate)
	if err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, a)
}

// Delete godoc
// @Summary 删除作业
// @Tags 作业
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "作业ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/assignments/{id} [delete]
func (c *AssignmentController) Delete(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.AssignmentService.Delete(id); err != nil {
		if errors.Is(err, util.ErrAssignmentNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
