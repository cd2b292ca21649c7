package model

import (
	"strings"
	"time"
)

// StudentGroup 学生组表，一条记录对应一个小组一次活动的全部提交数据
// swagger:model
type StudentGroup struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	SubmissionID string    `gorm:"type:varchar(64);uniqueIndex;not null;comment:提交ID" json:"submissionId"`
	School       string    `gorm:"type:varchar(100);not null;index;comment:学校" json:"school"`
	Grade        string    `gorm:"type:varchar(10);not null;index;comment:年级" json:"grade"`
	ClassNumber  string    `gorm:"type:varchar(10);not null;index;comment:班级号" json:"classNumber"`
	ActivityDate time.Time `gorm:"type:date;not null;index;comment:活动日期" json:"-"`
	MemberCount  int       `gorm:"not null;comment:成员人数" json:"memberCount"`
	GroupNumber  int       `gorm:"default:0;comment:组号" json:"groupNumber"`
	SubmitTime   time.Time `gorm:"index;comment:提交时间" json:"submitTime"`
	Version      string    `gorm:"type:varchar(10);default:1.0" json:"version"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Members           []GroupMember      `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Task1             *Task1Data         `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"task1,omitempty"`
	Task2             *Task2Data         `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"task2,omitempty"`
	ThinkingQuestions []ThinkingQuestion `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"thinkingQuestions,omitempty"`
	Photos            []Photo            `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"photos,omitempty"`
	ChatMessages      []ChatMessage      `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"chatMessages,omitempty"`
}

func (StudentGroup) TableName() string {
	return "student_groups"
}

// MemberNames 按 member_index 顺序返回成员姓名
func (g *StudentGroup) MemberNames() []string {
	names := make([]string, 0, len(g.Members))
	for _, m := range g.Members {
		names = append(names, m.MemberName)
	}
	return names
}

// Task1CharCount 任务一填写的总字符数，用于导出统计
func (g *StudentGroup) Task1CharCount() int {
	if g.Task1 == nil {
		return 0
	}
	count := len([]rune(g.Task1.TeaName)) +
		len([]rune(g.Task1.TeacherTeaName)) +
		len([]rune(g.Task1.ReflectionAnswer))
	for _, rec := range g.Task1.GetSensoryRecords() {
		count += len([]rune(rec.Color)) + len([]rune(rec.Aroma)) +
			len([]rune(rec.Shape)) + len([]rune(rec.Taste))
	}
	return count
}

// Task2CharCount 任务二填写的总字符数
func (g *StudentGroup) Task2CharCount() int {
	if g.Task2 == nil {
		return 0
	}
	return len([]rune(g.Task2.TeaName)) +
		len([]rune(g.Task2.TeaColor)) +
		len([]rune(g.Task2.TeaAroma)) +
		len([]rune(g.Task2.TeaTaste)) +
		len([]rune(g.Task2.ReflectionAnswer))
}

// ThinkingCharCount 指定思考题的答案字符数
func (g *StudentGroup) ThinkingCharCount(questionType string) int {
	for _, t := range g.ThinkingQuestions {
		if t.QuestionType == questionType {
			return len([]rune(strings.TrimSpace(t.Answer)))
		}
	}
	return 0
}

// ChatQuestionCount 学生提问条数
func (g *StudentGroup) ChatQuestionCount() int {
	count := 0
	for _, m := range g.ChatMessages {
		if m.Role == ChatRoleUser {
			count++
		}
	}
	return count
}
