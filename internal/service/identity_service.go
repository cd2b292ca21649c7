package service

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/repository"
	"teacourse_backend/internal/util"
	"teacourse_backend/internal/validate"
	"teacourse_backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Outcome 身份解析结果：新建、显式更新（客户端带ID）、隐式更新（内容匹配）
type Outcome string

const (
	OutcomeCreate         Outcome = "create"
	OutcomeUpdate         Outcome = "update"
	OutcomeImplicitUpdate Outcome = "implicit_update"
)

// IsUpdate 显式或隐式更新均视为更新
func (o Outcome) IsUpdate() bool {
	return o == OutcomeUpdate || o == OutcomeImplicitUpdate
}

// GroupCode 小组身份的确定性摘要。成员名先排序，同一批人无论提交顺序
// 如何都得到同一个码。取 SHA-1 前12个十六进制字符。
func GroupCode(school, grade, classNumber string, memberNames []string) string {
	names := make([]string, len(memberNames))
	copy(names, memberNames)
	sort.Strings(names)

	parts := append([]string{school, grade, classNumber}, names...)
	sum := sha1.Sum([]byte(strings.Join(parts, "|")))
	return hex.EncodeToString(sum[:])[:12]
}

// NewSubmissionID 生成提交ID：组码_活动日期_纳秒时间戳
func NewSubmissionID(groupCode string, activityDate time.Time) string {
	return fmt.Sprintf("%s_%s_%d", groupCode, activityDate.Format("20060102"), time.Now().UnixNano())
}

// IdentityService 提交身份解析：把一次提交映射到唯一的学生组记录
type IdentityService struct {
	groups *repository.GroupRepository
}

func NewIdentityService(groups *repository.GroupRepository) *IdentityService {
	return &IdentityService{groups: groups}
}

// ValidateStudentInfo 按固定顺序校验学生信息，返回解析后的活动日期。
// 遇到第一个失败字段立即返回，错误信息直接展示给学生。
func (s *IdentityService) ValidateStudentInfo(info *StudentInfo) (time.Time, error) {
	if err := validate.School(info.School); err != nil {
		return time.Time{}, err
	}
	if err := validate.Grade(info.Grade); err != nil {
		return time.Time{}, err
	}
	if err := validate.ClassNumber(info.ClassNumber); err != nil {
		return time.Time{}, err
	}
	activityDate, err := validate.Date(info.Date)
	if err != nil {
		return time.Time{}, err
	}
	if err := validate.MemberCount(info.MemberCount); err != nil {
		return time.Time{}, err
	}
	if len(info.MemberNames) == 0 {
		return time.Time{}, util.NewValidationError("memberNames", "成员姓名不能为空")
	}
	for _, name := range info.MemberNames {
		if err := validate.MemberName(name); err != nil {
			return time.Time{}, err
		}
	}
	return activityDate, nil
}

// Resolve 把一次提交解析到一个学生组。客户端给了提交ID就按ID校验，
// 没给就按 (学校, 年级, 班级, 日期, 成员名集合) 做内容匹配，匹配不到则新建。
// 必须在编排方的事务里调用。
func (s *IdentityService) Resolve(tx *gorm.DB, info *StudentInfo, clientSubmissionID string) (*model.StudentGroup, Outcome, error) {
	activityDate, err := s.ValidateStudentInfo(info)
	if err != nil {
		return nil, "", err
	}

	groups := s.groups.WithTx(tx)
	freshCode := GroupCode(info.School, info.Grade, info.ClassNumber, info.MemberNames)

	if clientSubmissionID != "" {
		group, err := groups.FindBySubmissionID(clientSubmissionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, "", util.NewIdentityConflictError("提交ID不存在")
			}
			return nil, "", util.NewStorageError("find by submission id", err)
		}

		storedCode := GroupCode(group.School, group.Grade, group.ClassNumber, group.MemberNames())
		if storedCode != freshCode {
			return nil, "", util.NewIdentityConflictError("提交ID与小组身份不匹配，可能用错了ID或换了小组")
		}

		if err := s.applyUpdate(tx, group, info); err != nil {
			return nil, "", err
		}
		return group, OutcomeUpdate, nil
	}

	candidates, err := groups.FindByIdentityTuple(info.School, info.Grade, info.ClassNumber, activityDate, true)
	if err != nil {
		return nil, "", util.NewStorageError("find by identity tuple", err)
	}
	for i := range candidates {
		if sameNameSet(candidates[i].MemberNames(), info.MemberNames) {
			group := &candidates[i]
			if err := s.applyUpdate(tx, group, info); err != nil {
				return nil, "", err
			}
			return group, OutcomeImplicitUpdate, nil
		}
	}

	submissionID, err := s.mintSubmissionID(groups, freshCode, activityDate)
	if err != nil {
		return nil, "", err
	}

	group := &model.StudentGroup{
		SubmissionID: submissionID,
		School:       info.School,
		Grade:        info.Grade,
		ClassNumber:  info.ClassNumber,
		ActivityDate: activityDate,
		MemberCount:  info.MemberCount,
		SubmitTime:   time.Now(),
		Version:      "1.0",
	}
	if info.GroupNumber > 0 {
		group.GroupNumber = info.GroupNumber
	}
	for i, name := range info.MemberNames {
		group.Members = append(group.Members, model.GroupMember{
			MemberIndex: i + 1,
			MemberName:  name,
		})
	}
	if err := groups.Create(group); err != nil {
		return nil, "", util.NewStorageError("create group", err)
	}
	return group, OutcomeCreate, nil
}

// mintSubmissionID 生成未被占用的提交ID。纳秒时间戳撞车几乎不可能，
// 兜底加随机后缀再查一次。查询出错要上抛，不能当成没有冲突。
func (s *IdentityService) mintSubmissionID(groups *repository.GroupRepository, code string, activityDate time.Time) (string, error) {
	submissionID := NewSubmissionID(code, activityDate)
	_, err := groups.FindBySubmissionID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return submissionID, nil
	}
	if err != nil {
		return "", util.NewStorageError("check submission id", err)
	}

	submissionID = fmt.Sprintf("%s_%s", submissionID, uuid.New().String()[:8])
	_, err = groups.FindBySubmissionID(submissionID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Log.Warn("submission id collision, random suffix appended",
			zap.String("submissionId", submissionID))
		return submissionID, nil
	}
	if err != nil {
		return "", util.NewStorageError("check submission id", err)
	}
	return "", util.NewStorageError("mint submission id", errors.New("submission id collision"))
}

// applyUpdate 更新路径的公共部分：整体替换成员列表并刷新时间戳
func (s *IdentityService) applyUpdate(tx *gorm.DB, group *model.StudentGroup, info *StudentInfo) error {
	groups := s.groups.WithTx(tx)
	if err := groups.ReplaceMembers(group.ID, info.MemberNames); err != nil {
		return util.NewStorageError("replace members", err)
	}
	if err := groups.UpdateOnResubmit(group, info.MemberCount, info.GroupNumber); err != nil {
		return util.NewStorageError("update group", err)
	}
	group.MemberCount = info.MemberCount
	if info.GroupNumber > 0 {
		group.GroupNumber = info.GroupNumber
	}
	group.SubmitTime = time.Now()
	return nil
}

// sameNameSet 排序后逐项比较两份成员名单
func sameNameSet(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	as := make([]string, len(a))
	bs := make([]string, len(b))
	copy(as, a)
	copy(bs, b)
	sort.Strings(as)
	sort.Strings(bs)
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}
