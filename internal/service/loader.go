package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/user/moovie-ingest/internal/source"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Upserter 单条记录导入
type Upserter interface {
	Upsert(ctx context.Context, raw any) (int64, error)
}

// LoaderOptions 批量导入参数
type LoaderOptions struct {
	BatchSize int  // 每批条数，仅影响日志与进度汇报
	MaxRows   int  // 0 表示全部
	Progress  bool // 是否在终端显示进度条
}

// Stats 导入统计
type Stats struct {
	Attempted int
	Succeeded int
	Failed    int // 包含 Invalid
	Invalid   int
}

// Loader 按批驱动数据源，逐条顺序调用 Upserter
type Loader struct {
	ingest Upserter
	opts   LoaderOptions
	log    *zap.Logger
}

// NewLoader 创建批量导入器
func NewLoader(ingest Upserter, opts LoaderOptions, log *zap.Logger) *Loader {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	return &Loader{ingest: ingest, opts: opts, log: log}
}

// Run 导入整个数据源。单条失败只计数不中断；ctx 取消时当前记录完成后停止，
// 返回已有统计和 ctx 的错误。
func (l *Loader) Run(ctx context.Context, src source.Source) (Stats, error) {
	var stats Stats
	total := l.total(ctx, src)
	bar := l.newBar(total)
	defer bar.Finish()

	// 读取在独立 goroutine 中预取，写入始终只在一个 goroutine 中顺序执行
	records := make(chan any, l.opts.BatchSize)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(records)
		read := 0
		err := src.Records(gctx, func(raw any) error {
			if l.opts.MaxRows > 0 && read >= l.opts.MaxRows {
				return source.ErrStop
			}
			read++
			select {
			case records <- raw:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		if errors.Is(err, source.ErrStop) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		batch := 0
		for raw := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			if stats.Attempted%l.opts.BatchSize == 0 {
				batch++
				l.log.Info("开始处理批次",
					zap.Int("batch", batch),
					zap.Int("from", stats.Attempted+1))
			}

			_, err := l.ingest.Upsert(ctx, raw)
			stats.Attempted++
			switch {
			case err == nil:
				stats.Succeeded++
			case errors.Is(err, ErrInvalidRecord):
				stats.Invalid++
				stats.Failed++
			default:
				stats.Failed++
			}
			_ = bar.Add(1)

			if stats.Attempted%l.opts.BatchSize == 0 {
				l.logProgress(batch, stats, total)
			}
		}
		// 最后一个不满的批次
		if stats.Attempted%l.opts.BatchSize != 0 {
			l.logProgress(batch, stats, total)
		}
		return nil
	})

	err := g.Wait()
	l.log.Info("导入结束",
		zap.Int("attempted", stats.Attempted),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("invalid", stats.Invalid))
	return stats, err
}

func (l *Loader) total(ctx context.Context, src source.Source) int {
	total := -1
	if counter, ok := src.(source.Counter); ok {
		n, err := counter.Count(ctx)
		if err != nil {
			l.log.Warn("统计记录数失败，进度未知", zap.Error(err))
		} else {
			total = n
		}
	}
	if l.opts.MaxRows > 0 && (total < 0 || total > l.opts.MaxRows) {
		total = l.opts.MaxRows
	}
	return total
}

func (l *Loader) newBar(total int) *progressbar.ProgressBar {
	if !l.opts.Progress {
		return progressbar.DefaultSilent(int64(total), "导入电影")
	}
	return progressbar.NewOptions64(int64(total),
		progressbar.OptionSetDescription("导入电影"),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = os.Stderr.WriteString("\n") }),
	)
}

func (l *Loader) logProgress(batch int, stats Stats, total int) {
	fields := []zap.Field{
		zap.Int("batch", batch),
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("attempted", stats.Attempted),
	}
	if total > 0 {
		fields = append(fields, zap.String("progress",
			fmt.Sprintf("%.2f%%", float64(stats.Succeeded)/float64(total)*100)))
	}
	l.log.Info("批次完成", fields...)
}
