package repository

import (
	"teacourse_backend/internal/model"

	"gorm.io/gorm"
)

type PhotoRepository struct {
	DB *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: db}
}

func (r *PhotoRepository) WithTx(tx *gorm.DB) *PhotoRepository {
	return &PhotoRepository{DB: tx}
}

func (r *PhotoRepository) Create(photo *model.Photo) error {
	return r.DB.Create(photo).Error
}

func (r *PhotoRepository) FindByGroupAndType(groupID uint, photoType string) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.DB.Where("group_id = ? AND photo_type = ?", groupID, photoType).
		Order("photo_index ASC").Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// DeleteByGroupAndType 删除某组某类型的全部照片记录，返回被删记录供清理文件
func (r *PhotoRepository) DeleteByGroupAndType(groupID uint, photoType string) ([]model.Photo, error) {
	photos, err := r.FindByGroupAndType(groupID, photoType)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, nil
	}
	err = r.DB.Where("group_id = ? AND photo_type = ?", groupID, photoType).
		Delete(&model.Photo{}).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}

func (r *PhotoRepository) FindByGroup(groupID uint) ([]model.Photo, error) {
	var photos []model.Photo
	err := r.DB.Where("group_id = ?", groupID).
		Order("photo_type ASC, photo_index ASC").Find(&photos).Error
	if err != nil {
		return nil, err
	}
	return photos, nil
}
