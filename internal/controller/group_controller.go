package controller

import (
	"errors"
	"strconv"

	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/service"
	"teacourse_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type GroupController struct {
	groupSvc *service.GroupService
}

func NewGroupController(groupSvc *service.GroupService) *GroupController {
	return &GroupController{groupSvc: groupSvc}
}

// ListStudents godoc
// @Summary 学生组列表
// @Description 按学校、年级、班级、日期范围筛选，分页返回，按提交时间倒序
// @Tags 教师端
// @Produce json
// @Param school query string false "学校（模糊匹配）"
// @Param grade query string false "年级"
// @Param class_number query string false "班级号"
// @Param date_from query string false "活动日期起"
// @Param date_to query string false "活动日期止"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页条数" default(20)
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/students [get]
func (c *GroupController) ListStudents(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	filter := repository.GroupFilter{
		School:      ctx.Query("school"),
		Grade:       ctx.Query("grade"),
		ClassNumber: ctx.Query("class_number"),
		DateFrom:    ctx.Query("date_from"),
		DateTo:      ctx.Query("date_to"),
	}

	summaries, total, err := c.groupSvc.List(filter, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  summaries,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// StudentDetail godoc
// @Summary 学生组详情
// @Description 返回完整聚合：成员、两个任务、思考题、照片地址、问答记录
// @Tags 教师端
// @Produce json
// @Param submission_id path string true "提交ID"
// @Success 200 {object} util.Response{data=service.GroupDetail}
// @Failure 404 {object} util.Response
// @Router /api/students/{submission_id} [get]
func (c *GroupController) StudentDetail(ctx *gin.Context) {
	submissionID := ctx.Param("submission_id")

	detail, err := c.groupSvc.Detail(ctx.Request.Context(), submissionID)
	if err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx, util.ErrGroupNotFound.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, detail)
}

// DeleteStudent godoc
// @Summary 删除学生组
// @Description 删除小组及成员、任务、思考题、照片记录和照片文件
// @Tags 教师端
// @Produce json
// @Param submission_id path string true "提交ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/students/{submission_id} [delete]
func (c *GroupController) DeleteStudent(ctx *gin.Context) {
	submissionID := ctx.Param("submission_id")

	if err := c.groupSvc.Delete(ctx.Request.Context(), submissionID); err != nil {
		if errors.Is(err, util.ErrGroupNotFound) {
			util.NotFound(ctx, util.ErrGroupNotFound.Error())
			return
		}
		util.LogInternalError(ctx, err)
		return
	}

	util.SuccessMessage(ctx, "删除成功", nil)
}

// Stats godoc
// @Summary 教师端首页汇总
// @Tags 教师端
// @Produce json
// @Success 200 {object} util.Response{data=repository.Stats}
// @Router /api/stats [get]
func (c *GroupController) Stats(ctx *gin.Context) {
	stats, err := c.groupSvc.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}
