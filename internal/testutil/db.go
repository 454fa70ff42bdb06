package testutil

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/user/moovie-ingest/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrSimulated 注入的存储故障
var ErrSimulated = errors.New("simulated store failure")

// NewDB 建好表结构的内存 SQLite 库
func NewDB(t testing.TB, vectorIndex bool) *gorm.DB {
	t.Helper()

	db, err := repository.Open(sqlite.Open("file::memory:"), gormlogger.Silent)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只存在于单个连接中
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, repository.Migrate(db, vectorIndex))
	return db
}

// Count 表行数
func Count(t testing.TB, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

// Fault 对某张表的 INSERT 注入故障
type Fault struct {
	enabled atomic.Bool
}

// Heal 解除故障
func (f *Fault) Heal() { f.enabled.Store(false) }

// FailInserts 在 db 上注册回调，使写入 table 的 INSERT 返回 ErrSimulated，直到调用 Heal
func FailInserts(t testing.TB, db *gorm.DB, table string) *Fault {
	t.Helper()
	fault := &Fault{}
	fault.enabled.Store(true)

	name := "testutil:fail_insert_" + table
	err := db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if fault.enabled.Load() && tx.Statement.Table == table {
			tx.AddError(ErrSimulated)
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove(name) })
	return fault
}

// BeforeInsert 在写入 table 的 INSERT 执行前调用一次 fn，用来模拟并发写入者
func BeforeInsert(t testing.TB, db *gorm.DB, table string, fn func(tx *gorm.DB)) {
	t.Helper()
	var fired atomic.Bool

	name := "testutil:before_insert_" + table
	err := db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table == table && fired.CompareAndSwap(false, true) {
			fn(tx.Session(&gorm.Session{NewDB: true}))
		}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove(name) })
}
