package repository

import (
	"github.com/user/moovie-ingest/internal/model"
	"github.com/user/moovie-ingest/internal/utils"
)

// Forget 丢弃实体缓存，之后的解析全部回到存储
func (r *EntityRepository) Forget() {
	r.cache = utils.NewLRUCache[entityKey, int64](0)
}

// Count 某部电影在该类别下的关联数
func (r *LinkRepository) Count(category model.LinkCategory, movieID int64) (int64, error) {
	var n int64
	err := r.db.Table(category.Table()).Where("movie_id = ?", movieID).Count(&n).Error
	return n, storeError("count "+category.String(), err)
}

// Find 读取电影的剧情向量，不存在时返回 nil
func (r *PlotVectorRepository) Find(movieID int64) ([]float32, error) {
	var rows []model.MoviePlotVector
	if err := r.db.Where("movie_id = ?", movieID).Limit(1).Find(&rows).Error; err != nil {
		return nil, storeError("find plot vector", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0].Embedding.Slice(), nil
}
