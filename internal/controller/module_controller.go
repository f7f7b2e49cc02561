package controller

import (
	"errors"
	"strconv"

	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ModuleController struct {
	ModuleService *service.ModuleService
}

func NewModuleController(moduleService *service.ModuleService) *ModuleController {
	return &ModuleController{ModuleService: moduleService}
}

// ModuleRequest 课程模块创建/更新请求
// swagger:model ModuleRequest
type ModuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Code        string `json:"code" binding:"required"`
	Description string `json:"description"`
}

// Create godoc
// @Summary 创建课程模块
// @Tags 课程模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   body body ModuleRequest true "模块信息"
// @Success 201 {object} util.Response{data=model.CourseModule}
// @Failure 400 {object} util.Response
// @Router /api/modules [post]
func (c *ModuleController) Create(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.ModuleService.Create(claims.UserID, req.Name, req.Code, req.Description)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, m)
}

// List godoc
// @Summary 讲师名下的课程模块列表
// @Tags 课程模块
// @Produce  json
// @Security BearerAuth
// @Param   page query int false "页码" default(1)
// @Param   limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/modules [get]
func (c *ModuleController) List(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	modules, total, err := c.ModuleService.List(claims.UserID, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{List: modules, Total: total, Page: page, Limit: limit})
}

// Get godoc
// @Summary 查看课程模块
// @Tags 课程模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [get]
func (c *ModuleController) Get(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	m, err := c.ModuleService.Get(id, claims.UserID)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, m)
}

// Update godoc
// @Summary 更新课程模块
// @Tags 课程模块
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Param   body body ModuleRequest true "模块信息"
// @Success 200 {object} util.Response{data=model.CourseModule}
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [put]
func (c *ModuleController) Update(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	var req ModuleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	m, err := c.ModuleService.Update(id, claims.UserID, req.Name, req.Code, req.Description)
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, m)
}

// Delete godoc
// @Summary 删除课程模块
// @Tags 课程模块
// @Produce  json
// @Security BearerAuth
// @Param   id path int true "模块ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/modules/{id} [delete]
func (c *ModuleController) Delete(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.ModuleService.Delete(id, claims.UserID); err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}
