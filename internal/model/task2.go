package model

import "time"

// Task2Data 任务二（自主冲泡）数据表，一个小组至多一条
// swagger:model
type Task2Data struct {
	ID      uint `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID uint `gorm:"not null;uniqueIndex;comment:学生组ID" json:"-"`

	TeaName          string `gorm:"type:varchar(100);comment:茶品名称" json:"teaName"`
	WaterTemperature string `gorm:"type:varchar(20);comment:水温" json:"waterTemperature"`
	SteepingDuration string `gorm:"type:varchar(50);comment:浸泡时长" json:"steepingDuration"`

	TeaColor string `gorm:"type:varchar(100);comment:茶汤颜色" json:"teaColor"`
	TeaAroma string `gorm:"type:varchar(100);comment:茶汤香气" json:"teaAroma"`
	TeaTaste string `gorm:"type:varchar(100);comment:茶汤滋味" json:"teaTaste"`

	MeetsExpectation    bool `gorm:"default:false;comment:符合预期" json:"meetsExpectation"`
	NotMeetsExpectation bool `gorm:"default:false;comment:不符合预期" json:"notMeetsExpectation"`

	ReflectionAnswer string `gorm:"type:text;comment:思考题答案" json:"reflectionAnswer"`

	SubmitTime time.Time `json:"submitTime"`
	Version    string    `gorm:"type:varchar(10);default:1.0" json:"version"`
}

func (Task2Data) TableName() string {
	return "task2_data"
}
