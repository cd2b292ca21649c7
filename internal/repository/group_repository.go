package repository

import (
	"time"

	"teacourse_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GroupRepository struct {
	DB *gorm.DB
}

func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: db}
}

// WithTx 返回绑定到指定事务的仓库，写路径统一由编排方传入事务
func (r *GroupRepository) WithTx(tx *gorm.DB) *GroupRepository {
	return &GroupRepository{DB: tx}
}

func (r *GroupRepository) Create(group *model.StudentGroup) error {
	return r.DB.Create(group).Error
}

func (r *GroupRepository) FindBySubmissionID(submissionID string) (*model.StudentGroup, error) {
	var group model.StudentGroup
	err := r.DB.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("member_index ASC")
	}).Where("submission_id = ?", submissionID).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// FindByIdentityTuple 查询同 (学校, 年级, 班级, 活动日期) 的候选组，带成员列表。
// forUpdate 时锁住候选行，串行化同一身份的并发提交。
func (r *GroupRepository) FindByIdentityTuple(school, grade, classNumber string, activityDate time.Time, forUpdate bool) ([]model.StudentGroup, error) {
	var groups []model.StudentGroup
	db := r.DB.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("member_index ASC")
	}).Where("school = ? AND grade = ? AND class_number = ? AND activity_date = ?",
		school, grade, classNumber, activityDate)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := db.Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// ReplaceMembers 整体替换成员列表：先删后插，从1开始编号
func (r *GroupRepository) ReplaceMembers(groupID uint, names []string) error {
	if err := r.DB.Where("group_id = ?", groupID).Delete(&model.GroupMember{}).Error; err != nil {
		return err
	}
	for i, name := range names {
		member := model.GroupMember{
			GroupID:     groupID,
			MemberIndex: i + 1,
			MemberName:  name,
		}
		if err := r.DB.Create(&member).Error; err != nil {
			return err
		}
	}
	return nil
}

// UpdateOnResubmit 重复提交时刷新时间戳和人数；正的组号才覆盖旧值。
// 按主键更新，不能走 Model(group)：传入的组带着预载的成员列表，
// 级联保存会把 ReplaceMembers 刚换掉的旧成员再插一遍。
func (r *GroupRepository) UpdateOnResubmit(group *model.StudentGroup, memberCount, groupNumber int) error {
	updates := map[string]interface{}{
		"member_count": memberCount,
		"submit_time":  time.Now(),
	}
	if groupNumber > 0 {
		updates["group_number"] = groupNumber
	}
	return r.DB.Model(&model.StudentGroup{}).Where("id = ?", group.ID).Updates(updates).Error
}

type GroupFilter struct {
	School      string
	Grade       string
	ClassNumber string
	DateFrom    string
	DateTo      string
}

// List 分页查询学生组，按提交时间倒序
func (r *GroupRepository) List(filter GroupFilter, page, limit int) ([]model.StudentGroup, int64, error) {
	var groups []model.StudentGroup
	var total int64

	query := r.DB.Model(&model.StudentGroup{})
	if filter.School != "" {
		query = query.Where("school LIKE ?", "%"+filter.School+"%")
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}
	if filter.ClassNumber != "" {
		query = query.Where("class_number = ?", filter.ClassNumber)
	}
	if filter.DateFrom != "" {
		query = query.Where("activity_date >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		query = query.Where("activity_date <= ?", filter.DateTo)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("member_index ASC")
	}).Order("submit_time DESC").Offset(offset).Limit(limit).Find(&groups).Error
	if err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

// FindAggregate 按提交ID取完整聚合：成员、任务、思考题、照片、问答记录
func (r *GroupRepository) FindAggregate(submissionID string) (*model.StudentGroup, error) {
	var group model.StudentGroup
	err := r.DB.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("member_index ASC") }).
		Preload("Task1").
		Preload("Task2").
		Preload("ThinkingQuestions").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("photo_type ASC, photo_index ASC") }).
		Preload("ChatMessages", func(db *gorm.DB) *gorm.DB { return db.Order("message_index ASC") }).
		Where("submission_id = ?", submissionID).First(&group).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListAggregates 取全部聚合，导出用
func (r *GroupRepository) ListAggregates(filter GroupFilter) ([]model.StudentGroup, error) {
	var groups []model.StudentGroup
	query := r.DB.
		Preload("Members", func(db *gorm.DB) *gorm.DB { return db.Order("member_index ASC") }).
		Preload("Task1").
		Preload("Task2").
		Preload("ThinkingQuestions").
		Preload("Photos", func(db *gorm.DB) *gorm.DB { return db.Order("photo_type ASC, photo_index ASC") }).
		Preload("ChatMessages", func(db *gorm.DB) *gorm.DB { return db.Order("message_index ASC") })
	if filter.School != "" {
		query = query.Where("school LIKE ?", "%"+filter.School+"%")
	}
	if filter.Grade != "" {
		query = query.Where("grade = ?", filter.Grade)
	}
	if filter.ClassNumber != "" {
		query = query.Where("class_number = ?", filter.ClassNumber)
	}
	if err := query.Order("submit_time DESC").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// DeleteCascade 删除学生组及全部子记录。子表逐一显式删除，
// 不依赖外键级联，保证在不支持级联的存储上行为一致。
func (r *GroupRepository) DeleteCascade(group *model.StudentGroup) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		children := []interface{}{
			&model.GroupMember{},
			&model.Task1Data{},
			&model.Task2Data{},
			&model.ThinkingQuestion{},
			&model.Photo{},
			&model.ChatMessage{},
		}
		for _, child := range children {
			if err := tx.Where("group_id = ?", group.ID).Delete(child).Error; err != nil {
				return err
			}
		}
		return tx.Delete(group).Error
	})
}

type Stats struct {
	TotalGroups    int64 `json:"totalGroups"`
	TotalSchools   int64 `json:"totalSchools"`
	TotalPhotos    int64 `json:"totalPhotos"`
	TotalQuestions int64 `json:"totalQuestions"`
}

// CountStats 教师端首页的汇总数字
func (r *GroupRepository) CountStats() (*Stats, error) {
	var stats Stats
	if err := r.DB.Model(&model.StudentGroup{}).Count(&stats.TotalGroups).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.StudentGroup{}).Distinct("school").Count(&stats.TotalSchools).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.Photo{}).Count(&stats.TotalPhotos).Error; err != nil {
		return nil, err
	}
	if err := r.DB.Model(&model.ChatMessage{}).Where("role = ?", model.ChatRoleUser).Count(&stats.TotalQuestions).Error; err != nil {
		return nil, err
	}
	return &stats, nil
}
