package controller

import (
	"errors"

	"teacourse_backend/internal/service"
	"teacourse_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type SubmissionController struct {
	submission *service.SubmissionService
	groupSvc   *service.GroupService
}

func NewSubmissionController(submission *service.SubmissionService, groupSvc *service.GroupService) *SubmissionController {
	return &SubmissionController{submission: submission, groupSvc: groupSvc}
}

// SubmitRequest 兼容 submission_id 和 submissionId 两种字段名
type SubmitRequest struct {
	SubmissionID      string `json:"submission_id"`
	SubmissionIDCamel string `json:"submissionId"`
	service.SubmissionPayload
}

func (r *SubmitRequest) clientSubmissionID() string {
	if r.SubmissionID != "" {
		return r.SubmissionID
	}
	return r.SubmissionIDCamel
}

// Submit godoc
// @Summary 接收学生组提交
// @Description 不带提交ID则按内容匹配已有小组，匹配不到就新建；带提交ID则校验身份后更新
// @Tags 提交
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "提交数据"
// @Success 200 {object} util.Response{data=service.SubmitResult}
// @Failure 400 {object} util.Response
// @Failure 409 {object} util.Response
// @Router /api/submit [post]
func (c *SubmissionController) Submit(ctx *gin.Context) {
	var req SubmitRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, util.ErrEmptyPayload.Error())
		return
	}

	result, err := c.submission.Submit(ctx.Request.Context(), &req.SubmissionPayload, req.clientSubmissionID())
	if err != nil {
		writeSubmitError(ctx, err)
		return
	}

	c.groupSvc.InvalidateCache(ctx.Request.Context(), result.SubmissionID)
	util.SuccessMessage(ctx, "数据保存成功", result)
}

// HealthCheck godoc
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/health [get]
func (c *SubmissionController) HealthCheck(ctx *gin.Context) {
	util.SuccessMessage(ctx, "服务器运行正常", nil)
}

func writeSubmitError(ctx *gin.Context, err error) {
	var verr *util.ValidationError
	if errors.As(err, &verr) {
		util.BadRequest(ctx, verr.Error())
		return
	}
	var cerr *util.IdentityConflictError
	if errors.As(err, &cerr) {
		util.Conflict(ctx, cerr.Error())
		return
	}
	if errors.Is(err, util.ErrEmptyPayload) {
		util.BadRequest(ctx, err.Error())
		return
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		util.NotFound(ctx, util.ErrGroupNotFound.Error())
		return
	}
	util.LogInternalError(ctx, err)
}
