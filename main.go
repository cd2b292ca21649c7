// @title 茶文化课程教师端 API
// @version 1.0
// @description 品茶课程学生提交数据的收集、查看与导出服务。

// @host localhost:8080
// @BasePath /api

package main

import (
	"flag"
	"log"

	"teacourse_backend/internal/app"
	"teacourse_backend/internal/config"
	"teacourse_backend/pkg/configwatcher"
	"teacourse_backend/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	configDir := flag.String("config", "configs", "配置文件目录")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	// 迁移完成后直接退出
	if *migrateOnly {
		log.Println("数据库迁移完成，退出程序")
		return
	}

	go configwatcher.WatchConfig(*configDir+"/config.yaml", func(newCfg *config.Config) {
		logger.Log.Info("config reloaded",
			zap.Strings("allowedOrigins", newCfg.CORS.AllowedOrigins))
		application.Config.CORS = newCfg.CORS
		application.Config.RateLimit = newCfg.RateLimit
	})

	application.Run()
}
