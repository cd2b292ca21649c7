package model

import "time"

// Photo 照片元数据表，文件本体由存储层保存
// swagger:model
type Photo struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	GroupID    uint      `gorm:"not null;index;comment:学生组ID" json:"-"`
	PhotoType  string    `gorm:"type:varchar(20);not null;index;comment:照片类型" json:"photoType"`
	PhotoIndex int       `gorm:"not null;comment:照片序号" json:"photoIndex"`
	FilePath   string    `gorm:"type:varchar(500);not null;comment:存储路径" json:"filePath"`
	FileName   string    `gorm:"type:varchar(200);not null;comment:文件名" json:"fileName"`
	FileSize   int64     `gorm:"comment:文件大小" json:"fileSize"`
	UploadTime time.Time `json:"uploadTime"`
}

func (Photo) TableName() string {
	return "photos"
}
