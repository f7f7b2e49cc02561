package controller

import (
	"exam_marking_backend/internal/service"
	"exam_marking_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
}

func NewDashboardController(dashboardService *service.DashboardService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService}
}

// Stats godoc
// @Summary 讲师仪表盘统计
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardStats}
// @Router /api/dashboard/stats [get]
func (c *DashboardController) Stats(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	stats, err := c.DashboardService.Stats(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Trends godoc
// @Summary 讲师仪表盘按月趋势
// @Tags 仪表盘
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} util.Response{data=service.DashboardTrends}
// @Router /api/dashboard/trends [get]
func (c *DashboardController) Trends(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)

	trends, err := c.DashboardService.Trends(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, trends)
}
