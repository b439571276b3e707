package postgres

import (
	"context"
	"errors"
	"testing"

	"radicado/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequencePostgres_IssueNext(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSequencePostgres(db)
	key := model.SequenceKey{ProjectID: "proj-1", Series: model.SeriesAdministrative, Direction: model.DirectionOutbound}

	t.Run("first issuance returns 1", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO sequence_counters").
			WithArgs("proj-1", model.SeriesAdministrative, model.DirectionOutbound).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(1))

		value, err := repo.IssueNext(context.Background(), key)

		require.NoError(t, err)
		assert.Equal(t, int64(1), value)
	})

	t.Run("subsequent issuance increments", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO sequence_counters").
			WithArgs("proj-1", model.SeriesAdministrative, model.DirectionOutbound).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(46))

		value, err := repo.IssueNext(context.Background(), key)

		require.NoError(t, err)
		assert.Equal(t, int64(46), value)
	})

	t.Run("query failure wraps the key", func(t *testing.T) {
		mock.ExpectQuery("INSERT INTO sequence_counters").
			WillReturnError(errors.New("connection reset"))

		_, err := repo.IssueNext(context.Background(), key)

		assert.ErrorContains(t, err, "proj-1/ADM/OUTBOUND")
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSequencePostgres_Current(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSequencePostgres(db)
	key := model.SequenceKey{ProjectID: "proj-1", Series: model.SeriesTechnical, Direction: model.DirectionInbound}

	t.Run("unseen key reads as zero", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM sequence_counters").
			WithArgs("proj-1", model.SeriesTechnical, model.DirectionInbound).
			WillReturnRows(sqlmock.NewRows([]string{"value"}))

		value, err := repo.Current(context.Background(), key)

		require.NoError(t, err)
		assert.Zero(t, value)
	})

	t.Run("existing counter", func(t *testing.T) {
		mock.ExpectQuery("SELECT value FROM sequence_counters").
			WithArgs("proj-1", model.SeriesTechnical, model.DirectionInbound).
			WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(101))

		value, err := repo.Current(context.Background(), key)

		require.NoError(t, err)
		assert.Equal(t, int64(101), value)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
