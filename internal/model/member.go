package model

// GroupMember 小组成员表，member_index 从 1 开始，组内唯一
// swagger:model
type GroupMember struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID     uint   `gorm:"not null;uniqueIndex:uq_group_member;comment:学生组ID" json:"-"`
	MemberIndex int    `gorm:"not null;uniqueIndex:uq_group_member;comment:成员序号" json:"memberIndex"`
	MemberName  string `gorm:"type:varchar(50);not null;comment:成员姓名" json:"memberName"`
}

func (GroupMember) TableName() string {
	return "group_members"
}
