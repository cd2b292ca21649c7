package controller

import (
	"fmt"
	"net/http"
	"time"

	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/service"
	"teacourse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ExportController struct {
	exportSvc *service.ExportService
}

func NewExportController(exportSvc *service.ExportService) *ExportController {
	return &ExportController{exportSvc: exportSvc}
}

func exportFilter(ctx *gin.Context) repository.GroupFilter {
	return repository.GroupFilter{
		School:      ctx.Query("school"),
		Grade:       ctx.Query("grade"),
		ClassNumber: ctx.Query("class_number"),
	}
}

// ExportJSON godoc
// @Summary 导出JSON报表
// @Description 导出筛选范围内全部小组的完整聚合数据
// @Tags 导出
// @Produce json
// @Param school query string false "学校（模糊匹配）"
// @Param grade query string false "年级"
// @Param class_number query string false "班级号"
// @Success 200 {object} object
// @Router /api/export/json [get]
func (c *ExportController) ExportJSON(ctx *gin.Context) {
	data, err := c.exportSvc.ExportJSON(exportFilter(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("teacourse_export_%s.json", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "application/json; charset=utf-8", data)
}

// ExportCSV godoc
// @Summary 导出CSV汇总表
// @Description 每组一行，含字数、照片数和提问次数统计
// @Tags 导出
// @Produce text/csv
// @Param school query string false "学校（模糊匹配）"
// @Param grade query string false "年级"
// @Param class_number query string false "班级号"
// @Success 200 {string} string
// @Router /api/export/csv [get]
func (c *ExportController) ExportCSV(ctx *gin.Context) {
	data, err := c.exportSvc.ExportCSV(exportFilter(ctx))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	filename := fmt.Sprintf("teacourse_export_%s.csv", time.Now().Format("20060102_150405"))
	ctx.Header("Content-Disposition", "attachment; filename="+filename)
	ctx.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
