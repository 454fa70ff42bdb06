package repository

import (
	"github.com/pgvector/pgvector-go"
	"github.com/user/moovie-ingest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PlotVectorRepository pgvector 剧情向量
type PlotVectorRepository struct {
	db *gorm.DB
}

func NewPlotVectorRepository(db *gorm.DB) *PlotVectorRepository {
	return &PlotVectorRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *PlotVectorRepository) WithTx(tx *gorm.DB) *PlotVectorRepository {
	return &PlotVectorRepository{db: tx}
}

// Save 写入电影的剧情向量，已存在时保留首次写入的值；空向量不写
func (r *PlotVectorRepository) Save(movieID int64, embedding []float64) error {
	if len(embedding) == 0 {
		return nil
	}
	values := make([]float32, len(embedding))
	for i, v := range embedding {
		values[i] = float32(v)
	}
	row := model.MoviePlotVector{
		MovieID:   movieID,
		Embedding: pgvector.NewVector(values),
	}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "movie_id"}},
		DoNothing: true,
	}).Create(&row).Error
	return storeError("save plot vector", err)
}
