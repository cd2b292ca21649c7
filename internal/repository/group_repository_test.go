package repository

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/pkg/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

func seedGroup(t *testing.T, db *gorm.DB, submissionID, school, grade, class string, date time.Time, names ...string) *model.StudentGroup {
	t.Helper()
	group := &model.StudentGroup{
		SubmissionID: submissionID,
		School:       school,
		Grade:        grade,
		ClassNumber:  class,
		ActivityDate: date,
		MemberCount:  len(names),
		SubmitTime:   time.Now(),
		Version:      "1.0",
	}
	for i, name := range names {
		group.Members = append(group.Members, model.GroupMember{MemberIndex: i + 1, MemberName: name})
	}
	require.NoError(t, db.Create(group).Error)
	return group
}

func TestFindBySubmissionID(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	seedGroup(t, db, "abc_20260412_1", "杭州第一中学", "高一", "3", date, "张三", "李四")

	group, err := repo.FindBySubmissionID("abc_20260412_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"张三", "李四"}, group.MemberNames())

	_, err = repo.FindBySubmissionID("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDuplicateSubmissionIDTranslated(t *testing.T) {
	db := setupTestDB(t)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	seedGroup(t, db, "dup_20260412_1", "杭州第一中学", "高一", "3", date, "张三")

	// 唯一键冲突要归一成 gorm.ErrDuplicatedKey，提交路径靠它识别并发重复
	dup := &model.StudentGroup{
		SubmissionID: "dup_20260412_1",
		School:       "杭州第一中学",
		Grade:        "高一",
		ClassNumber:  "3",
		ActivityDate: date,
		MemberCount:  1,
		SubmitTime:   time.Now(),
	}
	err := db.Create(dup).Error
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)
}

func TestFindByIdentityTuple(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	seedGroup(t, db, "a_20260412_1", "杭州第一中学", "高一", "3", date, "张三")
	seedGroup(t, db, "b_20260412_2", "杭州第一中学", "高一", "3", date, "李四")
	seedGroup(t, db, "c_20260412_3", "杭州第一中学", "高二", "3", date, "王五")

	groups, err := repo.FindByIdentityTuple("杭州第一中学", "高一", "3", date, false)
	require.NoError(t, err)
	assert.Len(t, groups, 2)

	groups, err = repo.FindByIdentityTuple("杭州第一中学", "高二", "3", date, false)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"王五"}, groups[0].MemberNames())
}

func TestReplaceMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	group := seedGroup(t, db, "r_20260412_1", "杭州第一中学", "高一", "3", date, "张三", "李四")

	require.NoError(t, repo.ReplaceMembers(group.ID, []string{"王五", "赵六", "孙七"}))

	fresh, err := repo.FindBySubmissionID("r_20260412_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"王五", "赵六", "孙七"}, fresh.MemberNames())
	assert.Equal(t, 1, fresh.Members[0].MemberIndex)
}

func TestUpdateOnResubmitAfterReplaceMembers(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	seedGroup(t, db, "u_20260412_1", "杭州第一中学", "高一", "3", date, "张三", "李四")

	// 提交路径拿到的组都带着预载的成员列表
	group, err := repo.FindBySubmissionID("u_20260412_1")
	require.NoError(t, err)
	require.Len(t, group.Members, 2)

	require.NoError(t, repo.ReplaceMembers(group.ID, []string{"李四", "张三", "王五"}))

	// 成员刚被整体替换，更新组字段不能把预载的旧成员再存回去
	require.NoError(t, repo.UpdateOnResubmit(group, 3, 7))

	fresh, err := repo.FindBySubmissionID("u_20260412_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"李四", "张三", "王五"}, fresh.MemberNames())
	assert.Equal(t, 3, fresh.MemberCount)
	assert.Equal(t, 7, fresh.GroupNumber)
}

func TestListFilterAndPagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedGroup(t, db, fmt.Sprintf("p_20260412_%d", i), "杭州第一中学", "高一", "3", date, "张三")
	}
	seedGroup(t, db, "q_20260412_9", "宁波中学", "高二", "1", date, "李四")

	groups, total, err := repo.List(GroupFilter{}, 1, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, groups, 4)

	groups, total, err = repo.List(GroupFilter{}, 2, 4)
	require.NoError(t, err)
	assert.EqualValues(t, 6, total)
	assert.Len(t, groups, 2)

	groups, total, err = repo.List(GroupFilter{School: "宁波", Grade: "高二"}, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, groups, 1)
	assert.Equal(t, "宁波中学", groups[0].School)
}

func TestDeleteCascade(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	group := seedGroup(t, db, "d_20260412_1", "杭州第一中学", "高一", "3", date, "张三")

	require.NoError(t, db.Create(&model.Task1Data{GroupID: group.ID, TeaName: "龙井", SubmitTime: time.Now()}).Error)
	require.NoError(t, db.Create(&model.ThinkingQuestion{GroupID: group.ID, QuestionType: model.QuestionThinking1, Answer: "答案", SubmitTime: time.Now()}).Error)
	require.NoError(t, db.Create(&model.Photo{GroupID: group.ID, PhotoType: "task1", FilePath: "/p", FileName: "p.jpg", UploadTime: time.Now()}).Error)
	require.NoError(t, db.Create(&model.ChatMessage{GroupID: group.ID, Role: model.ChatRoleUser, Content: "问题", MessageIndex: 0}).Error)

	keep := seedGroup(t, db, "k_20260412_2", "杭州第一中学", "高一", "4", date, "李四")

	require.NoError(t, repo.DeleteCascade(group))

	for _, m := range []interface{}{
		&model.GroupMember{}, &model.Task1Data{}, &model.ThinkingQuestion{},
		&model.Photo{}, &model.ChatMessage{},
	} {
		var n int64
		require.NoError(t, db.Model(m).Where("group_id = ?", group.ID).Count(&n).Error)
		assert.EqualValues(t, 0, n)
	}

	// 别的组不受影响
	fresh, err := repo.FindBySubmissionID(keep.SubmissionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"李四"}, fresh.MemberNames())
}

func TestCountStats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGroupRepository(db)
	date := time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC)
	g1 := seedGroup(t, db, "s_20260412_1", "杭州第一中学", "高一", "3", date, "张三")
	seedGroup(t, db, "s_20260412_2", "杭州第一中学", "高一", "4", date, "李四")
	seedGroup(t, db, "s_20260412_3", "宁波中学", "高二", "1", date, "王五")

	require.NoError(t, db.Create(&model.Photo{GroupID: g1.ID, PhotoType: "task1", FilePath: "/p", FileName: "p.jpg", UploadTime: time.Now()}).Error)
	require.NoError(t, db.Create(&model.ChatMessage{GroupID: g1.ID, Role: model.ChatRoleUser, Content: "q1", MessageIndex: 0}).Error)
	require.NoError(t, db.Create(&model.ChatMessage{GroupID: g1.ID, Role: model.ChatRoleAssistant, Content: "a1", MessageIndex: 1}).Error)

	stats, err := repo.CountStats()
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.TotalGroups)
	assert.EqualValues(t, 2, stats.TotalSchools)
	assert.EqualValues(t, 1, stats.TotalPhotos)
	assert.EqualValues(t, 1, stats.TotalQuestions)
}
