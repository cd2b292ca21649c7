package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/util"
	"teacourse_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const detailCacheTTL = 5 * time.Minute

func detailCacheKey(submissionID string) string {
	return "teacourse:student:" + submissionID
}

// GroupSummary 列表页的一行
type GroupSummary struct {
	ID           uint     `json:"id"`
	SubmissionID string   `json:"submissionId"`
	School       string   `json:"school"`
	Grade        string   `json:"grade"`
	ClassNumber  string   `json:"classNumber"`
	ActivityDate string   `json:"activityDate"`
	MemberCount  int      `json:"memberCount"`
	GroupNumber  int      `json:"groupNumber"`
	MemberNames  []string `json:"memberNames"`
	SubmitTime   string   `json:"submitTime"`
}

// PhotoView 带访问地址的照片
type PhotoView struct {
	URL        string `json:"url"`
	FileName   string `json:"fileName"`
	PhotoIndex int    `json:"photoIndex"`
}

// ThinkingView 思考题答案和照片
type ThinkingView struct {
	QuestionType string      `json:"questionType"`
	Answer       string      `json:"answer"`
	SubmitTime   string      `json:"submitTime"`
	Photos       []PhotoView `json:"photos"`
}

// GroupDetail 一个小组的完整聚合视图
type GroupDetail struct {
	GroupSummary
	Task1             *model.Task1Data               `json:"task1,omitempty"`
	Task1Sensory      map[string]model.SensoryRecord `json:"task1Sensory,omitempty"`
	Task1Photos       []PhotoView                    `json:"task1Photos,omitempty"`
	Task2             *model.Task2Data               `json:"task2,omitempty"`
	Task2Photos       []PhotoView                    `json:"task2Photos,omitempty"`
	ThinkingQuestions map[string]ThinkingView        `json:"thinkingQuestions"`
	ChatMessages      []model.ChatMessage            `json:"chatMessages"`
}

// GroupService 教师端读接口：列表、详情、删除、汇总。
// 详情带Redis旁路缓存，提交和删除后失效。
type GroupService struct {
	groups   *repository.GroupRepository
	photoSvc *PhotoService
	rdb      *redis.Client
}

func NewGroupService(groups *repository.GroupRepository, photoSvc *PhotoService, rdb *redis.Client) *GroupService {
	return &GroupService{groups: groups, photoSvc: photoSvc, rdb: rdb}
}

func (s *GroupService) List(filter repository.GroupFilter, page, limit int) ([]GroupSummary, int64, error) {
	groups, total, err := s.groups.List(filter, page, limit)
	if err != nil {
		return nil, 0, util.NewStorageError("list groups", err)
	}
	summaries := make([]GroupSummary, 0, len(groups))
	for i := range groups {
		summaries = append(summaries, summarize(&groups[i]))
	}
	return summaries, total, nil
}

func (s *GroupService) Detail(ctx context.Context, submissionID string) (*GroupDetail, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, detailCacheKey(submissionID)).Result()
		if err == nil {
			var detail GroupDetail
			if err := json.Unmarshal([]byte(cached), &detail); err == nil {
				return &detail, nil
			}
		}
	}

	group, err := s.groups.FindAggregate(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrGroupNotFound
		}
		return nil, util.NewStorageError("find aggregate", err)
	}

	detail := s.buildDetail(group)

	if s.rdb != nil {
		if data, err := json.Marshal(detail); err == nil {
			if err := s.rdb.Set(ctx, detailCacheKey(submissionID), data, detailCacheTTL).Err(); err != nil {
				logger.Log.Warn("failed to cache group detail", zap.Error(err))
			}
		}
	}
	return detail, nil
}

// InvalidateCache 提交或删除之后让详情缓存失效
func (s *GroupService) InvalidateCache(ctx context.Context, submissionID string) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, detailCacheKey(submissionID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate group detail cache",
			zap.String("submissionId", submissionID), zap.Error(err))
	}
}

// Delete 删除小组及全部子记录，并清理照片文件。文件已丢失不影响删除。
func (s *GroupService) Delete(ctx context.Context, submissionID string) error {
	group, err := s.groups.FindAggregate(submissionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrGroupNotFound
		}
		return util.NewStorageError("find aggregate", err)
	}

	for _, p := range group.Photos {
		s.photoSvc.Remove(ctx, p.FileName)
	}

	if err := s.groups.DeleteCascade(group); err != nil {
		return util.NewStorageError("delete group", err)
	}

	s.InvalidateCache(ctx, submissionID)
	logger.Log.Info("group deleted",
		zap.String("submissionId", submissionID),
		zap.Int("photos", len(group.Photos)))
	return nil
}

func (s *GroupService) Stats() (*repository.Stats, error) {
	stats, err := s.groups.CountStats()
	if err != nil {
		return nil, util.NewStorageError("count stats", err)
	}
	return stats, nil
}

func (s *GroupService) buildDetail(group *model.StudentGroup) *GroupDetail {
	detail := &GroupDetail{
		GroupSummary:      summarize(group),
		ThinkingQuestions: make(map[string]ThinkingView),
		ChatMessages:      group.ChatMessages,
	}
	if detail.ChatMessages == nil {
		detail.ChatMessages = []model.ChatMessage{}
	}

	photosByType := make(map[string][]PhotoView)
	for _, p := range group.Photos {
		photosByType[p.PhotoType] = append(photosByType[p.PhotoType], PhotoView{
			URL:        s.photoSvc.URL(p.FileName),
			FileName:   p.FileName,
			PhotoIndex: p.PhotoIndex,
		})
	}

	if group.Task1 != nil {
		detail.Task1 = group.Task1
		detail.Task1Sensory = group.Task1.GetSensoryRecords()
		detail.Task1Photos = photosByType["task1"]
	}
	if group.Task2 != nil {
		detail.Task2 = group.Task2
		detail.Task2Photos = photosByType["task2"]
	}
	for _, t := range group.ThinkingQuestions {
		detail.ThinkingQuestions[t.QuestionType] = ThinkingView{
			QuestionType: t.QuestionType,
			Answer:       t.Answer,
			SubmitTime:   model.FormatDateTime(t.SubmitTime),
			Photos:       photosByType[t.QuestionType],
		}
	}
	return detail
}

func summarize(group *model.StudentGroup) GroupSummary {
	return GroupSummary{
		ID:           group.ID,
		SubmissionID: group.SubmissionID,
		School:       group.School,
		Grade:        group.Grade,
		ClassNumber:  group.ClassNumber,
		ActivityDate: model.FormatDate(group.ActivityDate),
		MemberCount:  group.MemberCount,
		GroupNumber:  group.GroupNumber,
		MemberNames:  group.MemberNames(),
		SubmitTime:   model.FormatDateTime(group.SubmitTime),
	}
}
