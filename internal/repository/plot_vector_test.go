package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/moovie-ingest/internal/repository"
	"github.com/user/moovie-ingest/internal/testutil"
)

func TestPlotVectorFirstWriteWins(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewPlotVectorRepository(db)
	movieID := seedMovie(t, db, "tt0005")

	require.NoError(t, repo.Save(movieID, []float64{0.5, -0.25}))
	require.NoError(t, repo.Save(movieID, []float64{1, 1, 1}))

	got, err := repo.Find(movieID)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.5, -0.25}, got)
	assert.EqualValues(t, 1, testutil.Count(t, db, "movie_plot_vectors"))
}

func TestPlotVectorSkipsEmpty(t *testing.T) {
	db := testutil.NewDB(t, true)
	repo := repository.NewPlotVectorRepository(db)
	movieID := seedMovie(t, db, "tt0006")

	require.NoError(t, repo.Save(movieID, nil))

	got, err := repo.Find(movieID)
	require.NoError(t, err)
	assert.Nil(t, got)
}
