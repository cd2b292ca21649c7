package database

import (
	"fmt"
	"log"

	"teacourse_backend/internal/config"
	"teacourse_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，带 -migrate 参数才执行
	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := Migrate(db); err != nil {
			return nil, err
		}
		log.Println("Database migration completed")
	}

	return db, nil
}

// Migrate 建表，测试环境也用同一份迁移
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.StudentGroup{},
		&model.GroupMember{},
		&model.Task1Data{},
		&model.Task2Data{},
		&model.ThinkingQuestion{},
		&model.Photo{},
		&model.ChatMessage{},
	)
}
