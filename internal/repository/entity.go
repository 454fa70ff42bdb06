package repository

import (
	"errors"
	"fmt"

	"github.com/user/moovie-ingest/internal/model"
	"github.com/user/moovie-ingest/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type entityKey struct {
	kind model.EntityKind
	name string
}

// EntityRepository 实体（类型/国家/语言/人物）的查找或创建
type EntityRepository struct {
	db    *gorm.DB
	cache *utils.LRUCache[entityKey, int64]
}

func NewEntityRepository(db *gorm.DB, cacheSize int) *EntityRepository {
	return &EntityRepository{
		db:    db,
		cache: utils.NewLRUCache[entityKey, int64](cacheSize),
	}
}

// WithTx 返回绑定到事务的仓库，缓存共享
func (r *EntityRepository) WithTx(tx *gorm.DB) *EntityRepository {
	return &EntityRepository{db: tx, cache: r.cache}
}

// Resolve 按名称精确匹配返回实体 ID，不存在则创建。
// name 为空时返回 ok=false，调用方应跳过。
func (r *EntityRepository) Resolve(kind model.EntityKind, name string) (id int64, ok bool, err error) {
	if name == "" {
		return 0, false, nil
	}
	if id, hit := r.cache.Get(entityKey{kind, name}); hit {
		return id, true, nil
	}

	id, err = r.find(kind, name)
	if err != nil {
		return 0, false, err
	}
	if id != 0 {
		return id, true, nil
	}

	row := model.Entity{Name: name}
	result := r.db.Table(kind.Table()).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&row)
	if result.Error != nil {
		return 0, false, storeError("create "+kind.String(), result.Error)
	}
	if result.RowsAffected == 1 && row.ID != 0 {
		return row.ID, true, nil
	}

	// 唯一约束冲突：已被其他写入者创建，回查
	id, err = r.find(kind, name)
	if err != nil {
		return 0, false, err
	}
	if id == 0 {
		return 0, false, storeError("create "+kind.String(), fmt.Errorf("%q 插入冲突后仍未找到", name))
	}
	return id, true, nil
}

// Remember 缓存已提交的解析结果
func (r *EntityRepository) Remember(kind model.EntityKind, ids map[string]int64) {
	for name, id := range ids {
		r.cache.Set(entityKey{kind, name}, id)
	}
}

func (r *EntityRepository) find(kind model.EntityKind, name string) (int64, error) {
	var row model.Entity
	err := r.db.Table(kind.Table()).Select("id").Where("name = ?", name).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, storeError("find "+kind.String(), err)
	}
	return row.ID, nil
}
