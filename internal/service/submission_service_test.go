package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/util"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitNilPayload(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.submission.Submit(context.Background(), nil, "")
	assert.ErrorIs(t, err, util.ErrEmptyPayload)
}

func TestSubmitCreateTask1(t *testing.T) {
	env := newTestEnv(t)
	payload := samplePayload()

	result, err := env.submission.Submit(context.Background(), payload, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeCreate, result.Outcome)
	require.NotEmpty(t, result.SubmissionID)

	group, err := env.groups.FindAggregate(result.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, group.Task1)
	assert.Equal(t, "龙井", group.Task1.TeaName)
	assert.Equal(t, "1.0", group.Task1.Version)

	records := group.Task1.GetSensoryRecords()
	require.Len(t, records, 3)
	assert.Equal(t, "翠绿", records[model.SpecimenDryTea].Color)
	assert.Equal(t, "鲜爽", records[model.SpecimenTeaLiquor].Taste)
	assert.Equal(t, "舒展", records[model.SpecimenSpentLeaves].Shape)
}

func TestSubmitResubmitOverwritesInPlace(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.submission.Submit(ctx, samplePayload(), "")
	require.NoError(t, err)

	// 同一小组改了答案再提交，记录原地覆盖不翻倍
	payload := samplePayload()
	payload.Task1.TeaName = "碧螺春"
	payload.Task1.ReflectionAnswer = "改过的答案"
	second, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeImplicitUpdate, second.Outcome)
	assert.Equal(t, first.SubmissionID, second.SubmissionID)

	var task1Count int64
	require.NoError(t, env.db.Model(&model.Task1Data{}).Count(&task1Count).Error)
	assert.EqualValues(t, 1, task1Count)

	group, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, "碧螺春", group.Task1.TeaName)
	assert.Equal(t, "改过的答案", group.Task1.ReflectionAnswer)
}

func TestSubmitReorderedMembersNoDuplicate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.submission.Submit(ctx, samplePayload(), "")
	require.NoError(t, err)

	payload := samplePayload()
	payload.StudentInfo.MemberNames = []string{"王五", "张三", "李四"}
	second, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)
	assert.Equal(t, first.SubmissionID, second.SubmissionID)

	var groups int64
	require.NoError(t, env.db.Model(&model.StudentGroup{}).Count(&groups).Error)
	assert.EqualValues(t, 1, groups)

	// 成员表也不膨胀
	var members int64
	require.NoError(t, env.db.Model(&model.GroupMember{}).Count(&members).Error)
	assert.EqualValues(t, 3, members)
}

func TestSubmitTask1ThenTask2SameGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.submission.Submit(ctx, samplePayload(), "")
	require.NoError(t, err)

	payload := &SubmissionPayload{
		StudentInfo: sampleInfo(),
		Task2: &Task2Section{
			TeaName:          "龙井",
			WaterTemperature: "80",
			SteepingDuration: "90秒",
			TeaColor:         "清澈嫩黄",
			TeaAroma:         "栗香",
			TeaTaste:         "回甘",
			MeetsExpectation: true,
			ReflectionAnswer: "比任务一更顺利",
		},
	}
	second, err := env.submission.Submit(ctx, payload, first.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, OutcomeUpdate, second.Outcome)
	assert.Equal(t, first.SubmissionID, second.SubmissionID)

	group, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	require.NotNil(t, group.Task1, "任务一数据不能被后续提交冲掉")
	require.NotNil(t, group.Task2)
	assert.Equal(t, "栗香", group.Task2.TeaAroma)
	assert.True(t, group.Task2.MeetsExpectation)
}

func TestSubmitThinkingQuestions(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := &SubmissionPayload{
		StudentInfo: sampleInfo(),
		Thinking1:   &QuestionSection{Answer: "茶多酚遇热氧化"},
		Creative:    &QuestionSection{Answer: "设计一款冷泡茶饮"},
	}
	result, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)

	group, err := env.groups.FindAggregate(result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.ThinkingQuestions, 2)

	// 改答案重交，(组, 题型) 仍然唯一
	payload2 := &SubmissionPayload{
		StudentInfo: sampleInfo(),
		Thinking1:   &QuestionSection{Answer: "修正后的答案"},
	}
	_, err = env.submission.Submit(ctx, payload2, result.SubmissionID)
	require.NoError(t, err)

	group, err = env.groups.FindAggregate(result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.ThinkingQuestions, 2)
	answers := make(map[string]string)
	for _, q := range group.ThinkingQuestions {
		answers[q.QuestionType] = q.Answer
	}
	assert.Equal(t, "修正后的答案", answers[model.QuestionThinking1])
	assert.Equal(t, "设计一款冷泡茶饮", answers[model.QuestionCreative])
}

func TestSubmitPhotosSavedAndInvalidSkipped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.Task1.Photos = []string{pngBase64(t), "definitely-not-base64!!!", pngBase64(t)}

	result, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)
	assert.Equal(t, 2, result.PhotosSaved)
	assert.Equal(t, 1, result.PhotosSkipped)

	group, err := env.groups.FindAggregate(result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.Photos, 2)
	for _, p := range group.Photos {
		assert.Equal(t, "task1", p.PhotoType)
		// 统一转成JPEG落盘
		assert.FileExists(t, filepath.Join(env.photoDir, p.FileName))
	}
}

func TestSubmitUpdateReplacesPhotos(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.Task1.Photos = []string{pngBase64(t), pngBase64(t)}
	first, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)
	require.Equal(t, 2, first.PhotosSaved)

	oldGroup, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	oldFiles := make([]string, 0, len(oldGroup.Photos))
	for _, p := range oldGroup.Photos {
		oldFiles = append(oldFiles, p.FileName)
	}

	// 更新时该类型照片整体重建
	payload2 := samplePayload()
	payload2.Task1.Photos = []string{pngBase64(t)}
	second, err := env.submission.Submit(ctx, payload2, "")
	require.NoError(t, err)
	assert.Equal(t, OutcomeImplicitUpdate, second.Outcome)

	group, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.Photos, 1)
	for _, f := range oldFiles {
		_, err := os.Stat(filepath.Join(env.photoDir, f))
		assert.True(t, os.IsNotExist(err), "旧照片文件应被清理: %s", f)
	}
}

func TestSubmitFailureKeepsExistingPhotoFiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.Task1.Photos = []string{pngBase64(t)}
	first, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)

	group, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.Photos, 1)
	oldFile := group.Photos[0].FileName
	require.FileExists(t, filepath.Join(env.photoDir, oldFile))

	// 把思考题表弄没，事务会在照片重建之后才失败回滚
	require.NoError(t, env.db.Migrator().DropTable(&model.ThinkingQuestion{}))

	payload2 := samplePayload()
	payload2.Task1.Photos = []string{pngBase64(t)}
	payload2.Thinking1 = &QuestionSection{Answer: "答案"}
	_, err = env.submission.Submit(ctx, payload2, "")
	require.Error(t, err)

	// 照片行随回滚恢复，对应的旧文件必须还在
	var photos []model.Photo
	require.NoError(t, env.db.Where("group_id = ?", group.ID).Find(&photos).Error)
	require.Len(t, photos, 1)
	assert.Equal(t, oldFile, photos[0].FileName)
	assert.FileExists(t, filepath.Join(env.photoDir, oldFile))

	// 失败提交里新上传的文件不能留下孤儿
	entries, err := os.ReadDir(env.photoDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSubmitChatAppendOnly(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.ChatMessages = []ChatEntry{
		{Role: "user", Content: "绿茶为什么不能用沸水泡？"},
		{Role: "assistant", Content: "高温会破坏茶多酚和氨基酸。"},
	}
	first, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)

	// 客户端把全量历史再传一遍，只追加多出的尾部
	payload2 := samplePayload()
	payload2.ChatMessages = []ChatEntry{
		{Role: "user", Content: "绿茶为什么不能用沸水泡？"},
		{Role: "assistant", Content: "高温会破坏茶多酚和氨基酸。"},
		{Role: "user", Content: "那红茶呢？"},
	}
	_, err = env.submission.Submit(ctx, payload2, "")
	require.NoError(t, err)

	group, err := env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.ChatMessages, 3)
	assert.Equal(t, "那红茶呢？", group.ChatMessages[2].Content)
	assert.Equal(t, 2, group.ChatMessages[2].MessageIndex)

	// 传一份更短的历史不会删也不会重插
	payload3 := samplePayload()
	payload3.ChatMessages = payload2.ChatMessages[:1]
	_, err = env.submission.Submit(ctx, payload3, "")
	require.NoError(t, err)

	group, err = env.groups.FindAggregate(first.SubmissionID)
	require.NoError(t, err)
	assert.Len(t, group.ChatMessages, 3)
}

func TestSubmitValidationFailureRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.StudentInfo.Grade = "高三"
	_, err := env.submission.Submit(ctx, payload, "")
	var verr *util.ValidationError
	require.ErrorAs(t, err, &verr)

	var groups int64
	require.NoError(t, env.db.Model(&model.StudentGroup{}).Count(&groups).Error)
	assert.EqualValues(t, 0, groups)
}

func TestSubmitUnknownClientID(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.submission.Submit(context.Background(), samplePayload(), "deadbeef0000_20260412_1")
	var cerr *util.IdentityConflictError
	require.ErrorAs(t, err, &cerr)
}

func TestDeleteGroupCascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.Task1.Photos = []string{pngBase64(t)}
	payload.ChatMessages = []ChatEntry{{Role: "user", Content: "问题"}}
	result, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)

	// 先把照片文件挪走，删除要能容忍文件缺失
	group, err := env.groups.FindAggregate(result.SubmissionID)
	require.NoError(t, err)
	require.Len(t, group.Photos, 1)
	require.NoError(t, os.Remove(filepath.Join(env.photoDir, group.Photos[0].FileName)))

	require.NoError(t, env.groupSvc.Delete(ctx, result.SubmissionID))

	for _, m := range []interface{}{
		&model.StudentGroup{}, &model.GroupMember{}, &model.Task1Data{},
		&model.Photo{}, &model.ChatMessage{},
	} {
		var n int64
		require.NoError(t, env.db.Model(m).Count(&n).Error)
		assert.EqualValues(t, 0, n)
	}

	err = env.groupSvc.Delete(ctx, result.SubmissionID)
	assert.ErrorIs(t, err, util.ErrGroupNotFound)
}

func TestGroupDetail(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	payload := samplePayload()
	payload.Task1.Photos = []string{pngBase64(t)}
	payload.Thinking1 = &QuestionSection{Answer: "思考题答案"}
	result, err := env.submission.Submit(ctx, payload, "")
	require.NoError(t, err)

	detail, err := env.groupSvc.Detail(ctx, result.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, result.SubmissionID, detail.SubmissionID)
	assert.Equal(t, "2026-04-12", detail.ActivityDate)
	require.NotNil(t, detail.Task1)
	require.Len(t, detail.Task1Photos, 1)
	assert.Contains(t, detail.Task1Photos[0].URL, "/static/photos/")
	assert.Contains(t, detail.ThinkingQuestions, model.QuestionThinking1)

	_, err = env.groupSvc.Detail(ctx, "no_such_id")
	assert.ErrorIs(t, err, util.ErrGroupNotFound)
}

func TestGroupListAndStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.submission.Submit(ctx, samplePayload(), "")
	require.NoError(t, err)

	other := samplePayload()
	other.StudentInfo.School = "宁波中学"
	other.StudentInfo.Grade = "高二"
	other.StudentInfo.MemberNames = []string{"赵六"}
	other.StudentInfo.MemberCount = 1
	_, err = env.submission.Submit(ctx, other, "")
	require.NoError(t, err)

	all, total, err := env.groupSvc.List(repository.GroupFilter{}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, all, 2)

	filtered, total, err := env.groupSvc.List(repository.GroupFilter{School: "宁波"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered, 1)
	assert.Equal(t, "宁波中学", filtered[0].School)

	stats, err := env.groupSvc.Stats()
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.TotalGroups)
	assert.EqualValues(t, 2, stats.TotalSchools)
}
