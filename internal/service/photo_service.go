package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"teacourse_backend/internal/model"
	"teacourse_backend/internal/util"
	"teacourse_backend/internal/validate"
	"teacourse_backend/pkg/logger"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// PhotoService 照片解码、统一转成JPEG后交给存储层
type PhotoService struct {
	storage *StorageService
}

func NewPhotoService(storage *StorageService) *PhotoService {
	return &PhotoService{storage: storage}
}

// Save 解码Base64照片并落盘，返回待入库的照片元数据。
// 解码或图片解析失败返回 ValidationError，调用方按跳过处理。
func (s *PhotoService) Save(ctx context.Context, encoded string, photoType string, photoIndex int, submissionID string) (*model.Photo, error) {
	data, err := validate.PhotoPayload(encoded)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, util.NewValidationError("photo", "照片数据不是有效的图片")
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, util.NewStorageError("encode photo", err)
	}

	now := time.Now()
	// 时间戳取纳秒，同一秒内重传同一张照片也不会和旧文件重名
	fileName := fmt.Sprintf("%s_%s_%d_%d.jpg", submissionID, photoType, photoIndex, now.UnixNano())
	size := int64(buf.Len())

	filePath, err := s.storage.Upload(ctx, fileName, &buf, size, "image/jpeg")
	if err != nil {
		return nil, util.NewStorageError("upload photo", err)
	}

	return &model.Photo{
		PhotoType:  photoType,
		PhotoIndex: photoIndex,
		FilePath:   filePath,
		FileName:   fileName,
		FileSize:   size,
		UploadTime: now,
	}, nil
}

// Remove 删除照片文件，文件缺失不算失败，删除出错只记日志
func (s *PhotoService) Remove(ctx context.Context, fileName string) {
	if err := s.storage.Delete(ctx, fileName); err != nil {
		logger.Log.Warn("failed to delete photo file",
			zap.String("fileName", fileName), zap.Error(err))
	}
}

// URL 照片的对外访问地址
func (s *PhotoService) URL(fileName string) string {
	return s.storage.GetURL(fileName)
}
