package service

import (
	"context"
	"errors"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/util"
	"teacourse_backend/pkg/logger"
	"teacourse_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SubmitResult 一次提交的处理结果
type SubmitResult struct {
	SubmissionID  string  `json:"submissionId"`
	Outcome       Outcome `json:"outcome"`
	PhotosSaved   int     `json:"photosSaved"`
	PhotosSkipped int     `json:"photosSkipped"`
}

// photoFileSet 事务内登记的文件变更。数据库没提交前旧文件一律不动：
// 回滚时照片行会被恢复，文件必须还在。
type photoFileSet struct {
	stale    []string // 被替换的旧文件，提交成功后删除
	uploaded []string // 本次新落盘的文件，回滚后清理
}

// SubmissionService 提交编排：身份解析 + 各任务段落盘，整体在一个事务里。
// 任一环节出错全部回滚，不会出现半份提交。
type SubmissionService struct {
	db       *gorm.DB
	identity *IdentityService
	groups   *repository.GroupRepository
	photos   *repository.PhotoRepository
	chats    *repository.ChatRepository
	photoSvc *PhotoService
}

func NewSubmissionService(
	db *gorm.DB,
	identity *IdentityService,
	groups *repository.GroupRepository,
	photos *repository.PhotoRepository,
	chats *repository.ChatRepository,
	photoSvc *PhotoService,
) *SubmissionService {
	return &SubmissionService{
		db:       db,
		identity: identity,
		groups:   groups,
		photos:   photos,
		chats:    chats,
		photoSvc: photoSvc,
	}
}

// Submit 处理一次学生提交。clientSubmissionID 可为空。
// 新建路径撞上唯一键冲突时（并发重复提交）重试一次，第二轮会在
// 内容匹配里找到先落地的那条记录并走更新路径。
func (s *SubmissionService) Submit(ctx context.Context, payload *SubmissionPayload, clientSubmissionID string) (*SubmitResult, error) {
	if payload == nil {
		return nil, util.ErrEmptyPayload
	}

	var result *SubmitResult
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		result, err = s.submitOnce(ctx, payload, clientSubmissionID)
		if err == nil {
			break
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) || clientSubmissionID != "" {
			break
		}
		logger.Log.Warn("duplicate key on create, retrying as update lookup")
	}
	if err != nil {
		return nil, err
	}

	monitoring.SubmissionCounter.WithLabelValues(string(result.Outcome)).Inc()
	logger.Log.Info("submission processed",
		zap.String("submissionId", result.SubmissionID),
		zap.String("outcome", string(result.Outcome)),
		zap.Int("photosSaved", result.PhotosSaved),
		zap.Int("photosSkipped", result.PhotosSkipped))
	return result, nil
}

func (s *SubmissionService) submitOnce(ctx context.Context, payload *SubmissionPayload, clientSubmissionID string) (*SubmitResult, error) {
	result := &SubmitResult{}
	files := &photoFileSet{}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		group, outcome, err := s.identity.Resolve(tx, &payload.StudentInfo, clientSubmissionID)
		if err != nil {
			return err
		}
		result.SubmissionID = group.SubmissionID
		result.Outcome = outcome

		if payload.Task1 != nil {
			if err := s.saveTask1(ctx, tx, group, payload.Task1, outcome, result, files); err != nil {
				return err
			}
		}
		if payload.Task2 != nil {
			if err := s.saveTask2(ctx, tx, group, payload.Task2, outcome, result, files); err != nil {
				return err
			}
		}
		thinkingSections := []struct {
			questionType string
			section      *QuestionSection
		}{
			{model.QuestionThinking1, payload.Thinking1},
			{model.QuestionThinking2, payload.Thinking2},
			{model.QuestionCreative, payload.Creative},
		}
		for _, t := range thinkingSections {
			if t.section == nil {
				continue
			}
			if err := s.saveThinking(ctx, tx, group, t.questionType, t.section, outcome, result, files); err != nil {
				return err
			}
		}
		if len(payload.ChatMessages) > 0 {
			if err := s.appendChat(tx, group, payload.ChatMessages); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// 回滚后照片行已恢复，只清理本次新上传的文件
		for _, f := range files.uploaded {
			s.photoSvc.Remove(ctx, f)
		}
		return nil, err
	}
	for _, f := range files.stale {
		s.photoSvc.Remove(ctx, f)
	}
	return result, nil
}

// saveTask1 任务一段：单条记录按组唯一，已存在就原地覆盖
func (s *SubmissionService) saveTask1(ctx context.Context, tx *gorm.DB, group *model.StudentGroup, sec *Task1Section, outcome Outcome, result *SubmitResult, files *photoFileSet) error {
	var task1 model.Task1Data
	err := tx.Where("group_id = ?", group.ID).First(&task1).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewStorageError("find task1", err)
	}

	task1.GroupID = group.ID
	task1.TeaName = sec.TeaName
	task1.TeacherTeaName = sec.TeacherTeaName
	task1.TeaCategory = sec.TeaCategory
	task1.WaterTemperature = sec.WaterTemperature
	task1.BrewingDuration = sec.BrewingDuration
	task1.ReflectionAnswer = sec.ReflectionAnswer
	task1.SubmitTime = time.Now()
	if task1.Version == "" {
		task1.Version = "1.0"
	}
	records := map[string]model.SensoryRecord{
		model.SpecimenDryTea:      sensoryRecord(sec.DryTea),
		model.SpecimenTeaLiquor:   sensoryRecord(sec.TeaLiquor),
		model.SpecimenSpentLeaves: sensoryRecord(sec.SpentLeaves),
	}
	if err := task1.SetSensoryRecords(records); err != nil {
		return util.NewStorageError("encode sensory records", err)
	}

	if err := tx.Save(&task1).Error; err != nil {
		return util.NewStorageError("save task1", err)
	}

	return s.replacePhotos(ctx, tx, group, "task1", sec.Photos, outcome, result, files)
}

// saveTask2 任务二段，同任务一
func (s *SubmissionService) saveTask2(ctx context.Context, tx *gorm.DB, group *model.StudentGroup, sec *Task2Section, outcome Outcome, result *SubmitResult, files *photoFileSet) error {
	var task2 model.Task2Data
	err := tx.Where("group_id = ?", group.ID).First(&task2).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewStorageError("find task2", err)
	}

	task2.GroupID = group.ID
	task2.TeaName = sec.TeaName
	task2.WaterTemperature = sec.WaterTemperature
	task2.SteepingDuration = sec.SteepingDuration
	task2.TeaColor = sec.TeaColor
	task2.TeaAroma = sec.TeaAroma
	task2.TeaTaste = sec.TeaTaste
	task2.MeetsExpectation = sec.MeetsExpectation
	task2.NotMeetsExpectation = sec.NotMeetsExpectation
	task2.ReflectionAnswer = sec.ReflectionAnswer
	task2.SubmitTime = time.Now()
	if task2.Version == "" {
		task2.Version = "1.0"
	}

	if err := tx.Save(&task2).Error; err != nil {
		return util.NewStorageError("save task2", err)
	}

	return s.replacePhotos(ctx, tx, group, "task2", sec.Photos, outcome, result, files)
}

// saveThinking 思考题段：(组, 题型) 唯一，已存在就原地覆盖
func (s *SubmissionService) saveThinking(ctx context.Context, tx *gorm.DB, group *model.StudentGroup, questionType string, sec *QuestionSection, outcome Outcome, result *SubmitResult, files *photoFileSet) error {
	var thinking model.ThinkingQuestion
	err := tx.Where("group_id = ? AND question_type = ?", group.ID, questionType).First(&thinking).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return util.NewStorageError("find thinking question", err)
	}

	thinking.GroupID = group.ID
	thinking.QuestionType = questionType
	thinking.Answer = sec.Answer
	thinking.SubmitTime = time.Now()
	if thinking.Version == "" {
		thinking.Version = "1.0"
	}

	if err := tx.Save(&thinking).Error; err != nil {
		return util.NewStorageError("save thinking question", err)
	}

	return s.replacePhotos(ctx, tx, group, questionType, sec.Photos, outcome, result, files)
}

// replacePhotos 某组某类型的照片整体重建：更新时清掉旧记录，旧文件只登记
// 不删，等事务提交后再清理。单张照片无效只跳过计数，不让整次提交失败。
func (s *SubmissionService) replacePhotos(ctx context.Context, tx *gorm.DB, group *model.StudentGroup, photoType string, encoded []string, outcome Outcome, result *SubmitResult, files *photoFileSet) error {
	photos := s.photos.WithTx(tx)

	if outcome.IsUpdate() {
		old, err := photos.DeleteByGroupAndType(group.ID, photoType)
		if err != nil {
			return util.NewStorageError("purge photos", err)
		}
		for _, p := range old {
			files.stale = append(files.stale, p.FileName)
		}
	}

	for i, enc := range encoded {
		photo, err := s.photoSvc.Save(ctx, enc, photoType, i, group.SubmissionID)
		if err != nil {
			var verr *util.ValidationError
			if errors.As(err, &verr) {
				result.PhotosSkipped++
				monitoring.PhotoRejectedCounter.Inc()
				logger.Log.Warn("invalid photo skipped",
					zap.String("submissionId", group.SubmissionID),
					zap.String("photoType", photoType),
					zap.Int("photoIndex", i))
				continue
			}
			return err
		}
		files.uploaded = append(files.uploaded, photo.FileName)
		photo.GroupID = group.ID
		if err := photos.Create(photo); err != nil {
			return util.NewStorageError("save photo record", err)
		}
		result.PhotosSaved++
		monitoring.PhotoSavedCounter.Inc()
	}
	return nil
}

// appendChat 问答记录只追加：传来的记录比已存的长才把多出的尾部入库
func (s *SubmissionService) appendChat(tx *gorm.DB, group *model.StudentGroup, entries []ChatEntry) error {
	chats := s.chats.WithTx(tx)
	count, err := chats.Count(group.ID)
	if err != nil {
		return util.NewStorageError("count chat messages", err)
	}
	if int64(len(entries)) <= count {
		return nil
	}

	messages := make([]model.ChatMessage, 0, int64(len(entries))-count)
	for i := int(count); i < len(entries); i++ {
		role := entries[i].Role
		if role != model.ChatRoleUser && role != model.ChatRoleAssistant {
			role = model.ChatRoleUser
		}
		messages = append(messages, model.ChatMessage{
			GroupID:      group.ID,
			Role:         role,
			Content:      entries[i].Content,
			MessageIndex: i,
		})
	}
	if err := chats.Append(messages); err != nil {
		return util.NewStorageError("append chat messages", err)
	}
	return nil
}

func sensoryRecord(sec SensorySection) model.SensoryRecord {
	return model.SensoryRecord{
		Color: sec.Color,
		Aroma: sec.Aroma,
		Shape: sec.Shape,
		Taste: sec.Taste,
	}
}
