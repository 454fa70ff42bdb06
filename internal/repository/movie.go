package repository

import (
	"errors"

	"github.com/user/moovie-ingest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// movieMutableColumns 自然键冲突时允许覆盖的列，其余列首次写入为准
var movieMutableColumns = []string{"title", "plot"}

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *MovieRepository) WithTx(tx *gorm.DB) *MovieRepository {
	return &MovieRepository{db: tx}
}

// Upsert 按 external_id 插入或更新电影，返回代理 ID
func (r *MovieRepository) Upsert(movie *model.Movie) (int64, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns(movieMutableColumns),
	}).Create(movie).Error
	if err != nil {
		return 0, storeError("upsert movie", err)
	}

	// 冲突更新时各驱动回填的 ID 不可靠，以库中记录为准
	var existing model.Movie
	err = r.db.Select("id").Where("external_id = ?", movie.ExternalID).Take(&existing).Error
	if err != nil {
		return 0, storeError("lookup movie id", err)
	}
	movie.ID = existing.ID
	return existing.ID, nil
}

// FindByExternalID 根据自然键查找电影
func (r *MovieRepository) FindByExternalID(externalID string) (*model.Movie, error) {
	var movie model.Movie
	err := r.db.Where("external_id = ?", externalID).Take(&movie).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, storeError("find movie", err)
	}
	return &movie, nil
}
