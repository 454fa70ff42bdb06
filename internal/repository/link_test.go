package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-ingest/internal/model"
	"github.com/user/moovie-ingest/internal/repository"
	"github.com/user/moovie-ingest/internal/testutil"
	"gorm.io/gorm"
)

func seedMovie(t *testing.T, db *gorm.DB, externalID string) int64 {
	t.Helper()
	id, err := repository.NewMovieRepository(db).Upsert(&model.Movie{ExternalID: externalID})
	require.NoError(t, err)
	return id
}

func seedEntities(t *testing.T, db *gorm.DB, kind model.EntityKind, names ...string) []int64 {
	t.Helper()
	repo := repository.NewEntityRepository(db, 0)
	ids := make([]int64, 0, len(names))
	for _, name := range names {
		id, _, err := repo.Resolve(kind, name)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	return ids
}

func TestLinkIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t, false)
	repo := repository.NewLinkRepository(db)
	movieID := seedMovie(t, db, "tt0001")
	genreIDs := seedEntities(t, db, model.EntityGenre, "Drama", "War")

	inserted, err := repo.Link(model.LinkGenre, movieID, genreIDs)
	require.NoError(t, err)
	assert.EqualValues(t, 2, inserted)

	inserted, err = repo.Link(model.LinkGenre, movieID, genreIDs)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	assert.EqualValues(t, 2, testutil.Count(t, db, "movie_genres"))
}

func TestLinkSkipsEmptyAndDuplicateIDs(t *testing.T) {
	db := testutil.NewDB(t, false)
	repo := repository.NewLinkRepository(db)
	movieID := seedMovie(t, db, "tt0002")
	personIDs := seedEntities(t, db, model.EntityPerson, "Alice")

	inserted, err := repo.Link(model.LinkCast, movieID, nil)
	require.NoError(t, err)
	assert.Zero(t, inserted)

	inserted, err = repo.Link(model.LinkCast, movieID, []int64{0, personIDs[0], personIDs[0], 0})
	require.NoError(t, err)
	assert.EqualValues(t, 1, inserted)

	n, err := repo.Count(model.LinkCast, movieID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestLinkCategoriesUseOwnTables(t *testing.T) {
	db := testutil.NewDB(t, false)
	repo := repository.NewLinkRepository(db)
	movieID := seedMovie(t, db, "tt0003")
	personIDs := seedEntities(t, db, model.EntityPerson, "Carol")

	for _, category := range []model.LinkCategory{model.LinkCast, model.LinkDirector, model.LinkWriter} {
		_, err := repo.Link(category, movieID, personIDs)
		require.NoError(t, err)
	}

	assert.EqualValues(t, 1, testutil.Count(t, db, "movie_cast"))
	assert.EqualValues(t, 1, testutil.Count(t, db, "movie_directors"))
	assert.EqualValues(t, 1, testutil.Count(t, db, "movie_writers"))
}

func TestLinkStoreFailureAbortsWholeCall(t *testing.T) {
	db := testutil.NewDB(t, false)
	repo := repository.NewLinkRepository(db)
	movieID := seedMovie(t, db, "tt0004")
	countryIDs := seedEntities(t, db, model.EntityCountry, "USA", "UK")
	testutil.FailInserts(t, db, "movie_countries")

	_, err := repo.Link(model.LinkCountry, movieID, countryIDs)
	assert.ErrorIs(t, err, repository.ErrStoreUnavailable)
	assert.Zero(t, testutil.Count(t, db, "movie_countries"))
}
