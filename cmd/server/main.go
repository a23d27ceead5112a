package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/user/fletnix/internal/config"
	"github.com/user/fletnix/internal/handler"
	"github.com/user/fletnix/internal/logger"
	"github.com/user/fletnix/internal/repository"
	"github.com/user/fletnix/internal/router"
	"github.com/user/fletnix/internal/service"
)

func main() {
	// 加载环境变量
	envErr := godotenv.Load()

	// 加载配置
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if envErr != nil {
		log.Info().Msg("未找到 .env 文件，使用系统环境变量")
	}
	if cfg.IsProduction() && cfg.UsesDefaultSecret() {
		log.Warn().Msg("【严重警告】生产环境正在使用默认密钥！请立即设置 APP_SECRET 环境变量。")
	}

	// 初始化数据库
	db, err := repository.InitDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("数据库连接失败")
	}

	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	// 初始化仓库
	repos := repository.NewRepositories(db)

	// 数据库为空时导入 CSV
	if cfg.SeedOnStart {
		importer := service.NewImporter(repos.Show)
		if _, err := importer.SeedIfEmpty(context.Background(), cfg.CSVPath); err != nil {
			log.Fatal().Err(err).Msg("初始化节目数据失败")
		}
	}

	// 初始化服务和 Handler
	catalog := service.NewCatalogService(repos.Show)
	auth := service.NewAuthService(repos.User)
	h := handler.NewHandler(cfg, catalog, auth)

	r := router.NewEngine(h)

	// 配置 HTTP 服务器
	srv := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	// 在 goroutine 中启动服务器，这样我们就可以监听信号
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("服务器启动")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("服务器启动失败")
		}
	}()

	// 等待中断信号以优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("正在关闭服务器...")

	// 5 秒超时上下文用于关闭过程
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("服务器强制关闭")
		return
	}

	log.Info().Msg("服务器已退出")
}
