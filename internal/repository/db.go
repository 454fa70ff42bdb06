package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/user/moovie-ingest/internal/config"
	"github.com/user/moovie-ingest/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Dialector 根据配置选择数据库方言
func Dialector(cfg *config.Config) gorm.Dialector {
	if cfg.DBDriver == "sqlite" {
		return sqlite.Open(cfg.SQLitePath)
	}
	return postgres.Open(cfg.PostgresURL())
}

// InitDB 初始化数据库连接
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(Dialector(cfg), gormLogLevel(cfg.DBLogLevel))
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取连接池失败: %w", err)
	}

	// 测试连接
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库 ping 失败: %w", err)
	}

	// 单写入者：一个连接足够
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	return db, nil
}

// Open 打开数据库，事务边界全部由调用方显式控制
func Open(dialector gorm.Dialector, level gormlogger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("无法连接数据库: %w", err)
	}
	return db, nil
}

// Migrate 幂等建表；vectorIndex 为 true 时额外创建 pgvector 向量表
func Migrate(db *gorm.DB, vectorIndex bool) error {
	models := model.AllModels()
	if vectorIndex {
		if db.Dialector.Name() == "postgres" {
			if err := db.Exec("CREATE EXTENSION IF NOT EXISTS vector").Error; err != nil {
				return fmt.Errorf("启用 pgvector 扩展失败: %w", err)
			}
		}
		models = append(models, &model.MoviePlotVector{})
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("建表失败: %w", err)
	}
	return nil
}

func gormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}

// Repositories 仓库集合
type Repositories struct {
	DB         *gorm.DB
	Movie      *MovieRepository
	Entity     *EntityRepository
	Link       *LinkRepository
	PlotVector *PlotVectorRepository // 未开启向量索引时为 nil
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB, entityCacheSize int, vectorIndex bool) *Repositories {
	repos := &Repositories{
		DB:     db,
		Movie:  NewMovieRepository(db),
		Entity: NewEntityRepository(db, entityCacheSize),
		Link:   NewLinkRepository(db),
	}
	if vectorIndex {
		repos.PlotVector = NewPlotVectorRepository(db)
	}
	return repos
}

// Transaction 在一个事务内执行 fn，fn 拿到的是绑定到该事务的仓库集合
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.withTx(tx))
	})
	return storeError("transaction", err)
}

func (r *Repositories) withTx(tx *gorm.DB) *Repositories {
	repos := &Repositories{
		DB:     tx,
		Movie:  r.Movie.WithTx(tx),
		Entity: r.Entity.WithTx(tx),
		Link:   r.Link.WithTx(tx),
	}
	if r.PlotVector != nil {
		repos.PlotVector = r.PlotVector.WithTx(tx)
	}
	return repos
}
