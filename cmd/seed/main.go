package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/user/fletnix/internal/config"
	"github.com/user/fletnix/internal/logger"
	"github.com/user/fletnix/internal/repository"
	"github.com/user/fletnix/internal/service"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	csvPath := flag.String("csv", cfg.CSVPath, "Netflix titles CSV 文件路径")
	dryRun := flag.Bool("dry-run", false, "只解析到内存，不写数据库")
	flag.Parse()

	logger.Init(cfg.LogLevel, cfg.LogFormat)

	if err := run(context.Background(), cfg, *csvPath, *dryRun); err != nil {
		log.Error().Err(err).Msg("导入失败")
		os.Exit(1)
	}
	log.Info().Msg("导入完成")
}

func run(ctx context.Context, cfg *config.Config, csvPath string, dryRun bool) error {
	var store service.ShowWriter
	if dryRun {
		store = repository.NewMemoryShowStore()
	} else {
		db, err := repository.InitDB(cfg.DatabaseURL)
		if err != nil {
			return err
		}
		sqlDB, _ := db.DB()
		defer sqlDB.Close()
		store = repository.NewShowRepository(db)
	}

	result, err := service.NewImporter(store).SeedIfEmpty(ctx, csvPath)
	if err != nil {
		return err
	}
	log.Info().
		Bool("dry_run", dryRun).
		Int("parsed", result.Parsed).
		Int64("inserted", result.Inserted).
		Int("skipped", result.Skipped).
		Msg("导入统计")
	return nil
}
