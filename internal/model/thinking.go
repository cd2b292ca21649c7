package model

import "time"

// 思考题类型
const (
	QuestionThinking1 = "thinking1"
	QuestionThinking2 = "thinking2"
	QuestionCreative  = "creative"
)

// QuestionTypes 全部思考题类型，按提交顺序
var QuestionTypes = []string{QuestionThinking1, QuestionThinking2, QuestionCreative}

// ThinkingQuestion 思考题数据表，(group_id, question_type) 唯一
// swagger:model
type ThinkingQuestion struct {
	ID           uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID      uint      `gorm:"not null;uniqueIndex:uq_group_question;comment:学生组ID" json:"-"`
	QuestionType string    `gorm:"type:varchar(20);not null;uniqueIndex:uq_group_question;index;comment:题目类型" json:"questionType"`
	Answer       string    `gorm:"type:text;comment:答案" json:"answer"`
	SubmitTime   time.Time `json:"submitTime"`
	Version      string    `gorm:"type:varchar(10);default:1.0" json:"version"`
}

func (ThinkingQuestion) TableName() string {
	return "thinking_questions"
}
