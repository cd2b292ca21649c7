package model

import (
	"encoding/json"
	"time"
)

// SensoryRecord 一类茶样在四个感官维度上的观察记录
// swagger:model
type SensoryRecord struct {
	Color string `json:"color"`
	Aroma string `json:"aroma"`
	Shape string `json:"shape"`
	Taste string `json:"taste"`
}

// 感官记录的三类茶样
const (
	SpecimenDryTea      = "dryTea"
	SpecimenTeaLiquor   = "teaLiquor"
	SpecimenSpentLeaves = "spentLeaves"
)

// Task1Data 任务一（品茶观察）数据表，一个小组至多一条
// swagger:model
type Task1Data struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint `gorm:"not null;uniqueIndex;comment:学生组ID" json:"-"`

	TeaName          string `gorm:"type:varchar(100);comment:茶品名称" json:"teaName"`
	TeacherTeaName   string `gorm:"type:varchar(100);comment:老师公布的茶名" json:"teacherTeaName"`
	TeaCategory      string `gorm:"type:varchar(50);comment:茶类" json:"teaCategory"`
	WaterTemperature string `gorm:"type:varchar(20);comment:水温" json:"waterTemperature"`
	BrewingDuration  string `gorm:"type:varchar(50);comment:冲泡时长" json:"brewingDuration"`

	// 感官记录，JSON 文本存储：茶样 -> 四维观察
	SensoryRecords string `gorm:"type:text" json:"-"`

	ReflectionAnswer string `gorm:"type:text;comment:思考题答案" json:"reflectionAnswer"`

	SubmitTime time.Time `json:"submitTime"`
	Version    string    `gorm:"type:varchar(10);default:1.0" json:"version"`
}

func (Task1Data) TableName() string {
	return "task1_data"
}

// GetSensoryRecords 解析感官记录，解析失败返回空表
func (t *Task1Data) GetSensoryRecords() map[string]SensoryRecord {
	records := make(map[string]SensoryRecord)
	if t.SensoryRecords == "" {
		return records
	}
	if err := json.Unmarshal([]byte(t.SensoryRecords), &records); err != nil {
		return map[string]SensoryRecord{}
	}
	return records
}

// SetSensoryRecords 序列化感官记录
func (t *Task1Data) SetSensoryRecords(records map[string]SensoryRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return err
	}
	t.SensoryRecords = string(data)
	return nil
}
