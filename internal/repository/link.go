package repository

import (
	"github.com/user/moovie-ingest/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LinkRepository 电影与实体的关联表
type LinkRepository struct {
	db *gorm.DB
}

func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// WithTx 返回绑定到事务的仓库
func (r *LinkRepository) WithTx(tx *gorm.DB) *LinkRepository {
	return &LinkRepository{db: tx}
}

// Link 为每个 (movieID, entityID) 写入一行关联，已存在的跳过。
// 0 视为空 ID 被过滤；返回实际新增行数。
func (r *LinkRepository) Link(category model.LinkCategory, movieID int64, entityIDs []int64) (int64, error) {
	seen := make(map[int64]struct{}, len(entityIDs))
	rows := make([]map[string]any, 0, len(entityIDs))
	for _, id := range entityIDs {
		if id == 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		rows = append(rows, map[string]any{
			"movie_id":        movieID,
			category.Column(): id,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}

	result := r.db.Table(category.Table()).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows)
	if result.Error != nil {
		return 0, storeError("link "+category.String(), result.Error)
	}
	return result.RowsAffected, nil
}
