package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	_ "time/tzdata" // 确保在精简镜像中也能识别时区

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/user/moovie-ingest/internal/config"
	"github.com/user/moovie-ingest/internal/logger"
	"github.com/user/moovie-ingest/internal/repository"
	"github.com/user/moovie-ingest/internal/service"
	"github.com/user/moovie-ingest/internal/source"
	"github.com/user/moovie-ingest/internal/utils"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app 每个子命令共享的依赖
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB

	cleanup []func() error
}

func newRootCmd() *cobra.Command {
	var (
		a         = &app{}
		batchSize int
		maxRows   int
	)

	root := &cobra.Command{
		Use:           "loader",
		Short:         "将反规范化的电影数据集导入规范化的关系库",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd, batchSize, maxRows)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
	}
	root.PersistentFlags().IntVar(&batchSize, "batch-size", 0, "每批记录数（覆盖 BATCH_SIZE）")
	root.PersistentFlags().IntVar(&maxRows, "max-rows", -1, "最多导入条数，0 为全部（覆盖 MAX_ROWS）")

	root.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "创建表结构（幂等）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.migrate()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "load [dataset]",
		Short: "建表并导入数据集（本地路径或 http(s) 地址；JSON Lines 或 JSON 数组，支持 .gz/.zst）",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.cfg.DatasetPath = args[0]
			}
			return a.load(cmd.Context())
		},
	})

	return root
}

func (a *app) init(cmd *cobra.Command, batchSize, maxRows int) error {
	// 加载环境变量
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = batchSize
	}
	if cmd.Flags().Changed("max-rows") {
		cfg.MaxRows = maxRows
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogLevel, cfg.IsProduction())
	if err != nil {
		return fmt.Errorf("初始化日志失败: %w", err)
	}
	a.log = log
	if envErr != nil {
		log.Debug("未找到 .env 文件，使用系统环境变量")
	}

	db, err := repository.InitDB(cfg)
	if err != nil {
		log.Error("数据库连接失败", zap.Error(err))
		return err
	}
	a.db = db
	log.Info("已连接数据库", zap.String("driver", cfg.DBDriver))
	return nil
}

func (a *app) migrate() error {
	if err := repository.Migrate(a.db, a.cfg.VectorIndex); err != nil {
		a.log.Error("建表失败", zap.Error(err))
		return err
	}
	a.log.Info("表结构已就绪", zap.Bool("vector_index", a.cfg.VectorIndex))
	return nil
}

func (a *app) load(parent context.Context) error {
	if a.cfg.DatasetPath == "" {
		err := errors.New("未指定数据集：传入参数或设置 DATASET_PATH")
		a.log.Error("无法导入", zap.Error(err))
		return err
	}
	if err := a.migrate(); err != nil {
		return err
	}

	// SIGINT/SIGTERM：当前记录写完后停止
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepositories(a.db, a.cfg.EntityCacheSize, a.cfg.VectorIndex)
	ingest := service.NewIngestService(repos, a.log)
	loader := service.NewLoader(ingest, service.LoaderOptions{
		BatchSize: a.cfg.BatchSize,
		MaxRows:   a.cfg.MaxRows,
		Progress:  a.cfg.Progress,
	}, a.log)

	a.log.Info("开始导入", zap.String("dataset", a.cfg.DatasetPath))
	stats, err := loader.Run(ctx, a.source())
	if errors.Is(err, context.Canceled) {
		a.log.Warn("导入被中断", zap.Int("succeeded", stats.Succeeded), zap.Int("attempted", stats.Attempted))
		return nil
	}
	if err != nil {
		a.log.Error("导入中止", zap.Error(err))
		return err
	}
	a.log.Info("导入完成",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("attempted", stats.Attempted),
		zap.Int("failed", stats.Failed))
	return nil
}

// source 本地文件或 http(s) 地址
func (a *app) source() source.Source {
	if !source.IsRemote(a.cfg.DatasetPath) {
		return source.NewFile(a.cfg.DatasetPath)
	}
	remote := source.NewRemote(a.cfg.DatasetPath, utils.NewHTTPClient())
	a.cleanup = append(a.cleanup, remote.Close)
	return remote
}

func (a *app) close() {
	for _, fn := range a.cleanup {
		if err := fn(); err != nil && a.log != nil {
			a.log.Warn("清理临时文件失败", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}
