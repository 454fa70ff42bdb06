package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-ingest/internal/repository"
	"gorm.io/driver/sqlite"
	gormlogger "gorm.io/gorm/logger"
)

func TestMigrateCreatesSchema(t *testing.T) {
	db, err := repository.Open(sqlite.Open("file::memory:"), gormlogger.Silent)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	defer sqlDB.Close()

	require.NoError(t, repository.Migrate(db, true))
	// 幂等
	require.NoError(t, repository.Migrate(db, true))

	migrator := db.Migrator()
	for _, table := range []string{
		"movies", "genres", "countries", "languages", "persons",
		"movie_genres", "movie_countries", "movie_languages",
		"movie_cast", "movie_directors", "movie_writers", "movie_plot_vectors",
	} {
		assert.True(t, migrator.HasTable(table), table)
	}
	assert.True(t, migrator.HasColumn("movies", "plot_embedding"))
}
