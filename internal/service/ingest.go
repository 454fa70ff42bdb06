package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/moovie-ingest/internal/model"
	"github.com/user/moovie-ingest/internal/repository"
	"go.uber.org/zap"
)

// IngestService 单条电影记录的规范化与幂等写入
type IngestService struct {
	repos *repository.Repositories
	log   *zap.Logger
}

// NewIngestService 创建导入服务
func NewIngestService(repos *repository.Repositories, log *zap.Logger) *IngestService {
	return &IngestService{repos: repos, log: log}
}

// Upsert 导入一条原始记录，返回电影的代理 ID。
//
// 扁平行先单独提交，之后每个关联类别各自一个事务；某个类别失败不影响其余类别，
// 但整体返回 ErrPartialLinkFailure（此时 ID 仍有效）。对同一条记录重复调用是安全的，
// 会补齐之前失败的关联而不产生重复行。
//
// 进行中的记录不会被 ctx 取消打断，调用方应在记录之间检查 ctx。
func (s *IngestService) Upsert(ctx context.Context, raw any) (int64, error) {
	ctx = context.WithoutCancel(ctx)

	movie, refs, err := Normalize(raw)
	if err != nil {
		return 0, s.fail(&IngestError{Stage: StageNormalize, Title: displayName(raw), Err: err})
	}
	if movie.KeyGenerated {
		s.log.Warn("记录缺少自然键，使用临时键，重复导入会产生重复行",
			zap.String("title", movie.DisplayName()),
			zap.String("external_id", movie.ExternalID))
	}

	movieID, err := s.upsertMovie(ctx, movie)
	if err != nil {
		return 0, s.fail(&IngestError{Stage: StageMovie, Title: movie.DisplayName(), ExternalID: movie.ExternalID, Err: err})
	}

	var linkErrs []error
	for _, category := range model.LinkCategories {
		if err := s.resolveAndLink(ctx, category, movieID, refs[category]); err != nil {
			s.log.Error("关联写入失败",
				zap.String("title", movie.DisplayName()),
				zap.String("category", category.String()),
				zap.Error(err))
			linkErrs = append(linkErrs, fmt.Errorf("%s: %w", category, err))
		}
	}
	if len(linkErrs) > 0 {
		return movieID, s.fail(&IngestError{
			Stage:      StageLinks,
			Title:      movie.DisplayName(),
			ExternalID: movie.ExternalID,
			Err:        fmt.Errorf("%w: %w", ErrPartialLinkFailure, errors.Join(linkErrs...)),
		})
	}

	s.log.Debug("导入成功",
		zap.String("title", movie.DisplayName()),
		zap.Int64("movie_id", movieID))
	return movieID, nil
}

// upsertMovie 写入扁平行（开启向量索引时连同剧情向量）并提交
func (s *IngestService) upsertMovie(ctx context.Context, movie *model.Movie) (int64, error) {
	var movieID int64
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		id, err := tx.Movie.Upsert(movie)
		if err != nil {
			return err
		}
		movieID = id
		if tx.PlotVector != nil {
			return tx.PlotVector.Save(id, movie.PlotEmbedding)
		}
		return nil
	})
	return movieID, err
}

// resolveAndLink 解析一个类别的全部名称并写入关联，作为一个事务提交
func (s *IngestService) resolveAndLink(ctx context.Context, category model.LinkCategory, movieID int64, names []string) error {
	if len(names) == 0 {
		return nil
	}

	kind := category.Entity()
	resolved := make(map[string]int64, len(names))
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		ids := make([]int64, 0, len(names))
		for _, name := range names {
			id, ok, err := tx.Entity.Resolve(kind, name)
			if err != nil {
				return err
			}
			if !ok {
				continue
			}
			resolved[name] = id
			ids = append(ids, id)
		}
		_, err := tx.Link.Link(category, movieID, ids)
		return err
	})
	if err != nil {
		return err
	}

	s.repos.Entity.Remember(kind, resolved)
	return nil
}

func (s *IngestService) fail(err *IngestError) error {
	s.log.Error("导入记录失败",
		zap.String("title", err.Title),
		zap.String("external_id", err.ExternalID),
		zap.String("stage", err.Stage),
		zap.Error(err.Err))
	return err
}
