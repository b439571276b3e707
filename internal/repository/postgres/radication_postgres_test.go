package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"radicado/internal/model"
	"radicado/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func radicationKey() model.SequenceKey {
	return model.SequenceKey{ProjectID: "proj-1", Series: model.SeriesTechnical, Direction: model.DirectionInbound}
}

func TestRadicationPostgres_Radicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	unit := NewRadicationPostgres(db)
	ctx := context.Background()
	radicatedAt := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) FOR UPDATE").
		WithArgs("doc-1").
		WillReturnRows(documentRow("doc-1", model.StatusDraft, nil, nil, `{}`))
	mock.ExpectQuery("INSERT INTO sequence_counters").
		WithArgs("proj-1", model.SeriesTechnical, model.DirectionInbound).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(101))
	mock.ExpectExec("UPDATE documents").
		WithArgs("doc-1", model.StatusRadicated, "PTE01-TEC-IN-2023-00101", int64(101),
			"radicated/PTE01-TEC-IN-2023-00101.pdf", "application/pdf", "drafts/x.html", radicatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	var seenSeq int64
	doc, err := unit.Radicate(ctx, "doc-1", radicationKey(), func(doc *model.Document, seq int64) (*repository.RadicationUpdate, error) {
		seenSeq = seq
		assert.Equal(t, model.StatusDraft, doc.Status)
		return &repository.RadicationUpdate{
			CaseCode:       "PTE01-TEC-IN-2023-00101",
			SequenceNumber: seq,
			ContentRef:     "radicated/PTE01-TEC-IN-2023-00101.pdf",
			ContentType:    "application/pdf",
			EditableRef:    doc.ContentRef,
			RadicatedAt:    radicatedAt,
		}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(101), seenSeq)
	assert.Equal(t, model.StatusRadicated, doc.Status)
	assert.Equal(t, "PTE01-TEC-IN-2023-00101", doc.CaseCode)
	assert.Equal(t, "drafts/x.html", doc.EditableRef)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRadicationPostgres_Radicate_CallbackErrorRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	unit := NewRadicationPostgres(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) FOR UPDATE").
		WithArgs("doc-1").
		WillReturnRows(documentRow("doc-1", model.StatusRadicated, "PTE01-TEC-IN-2023-00100", int64(100), `{}`))
	mock.ExpectQuery("INSERT INTO sequence_counters").
		WithArgs("proj-1", model.SeriesTechnical, model.DirectionInbound).
		WillReturnRows(sqlmock.NewRows([]string{"value"}).AddRow(101))
	mock.ExpectRollback()

	wantErr := errors.New("document already RADICATED")
	doc, err := unit.Radicate(context.Background(), "doc-1", radicationKey(),
		func(doc *model.Document, seq int64) (*repository.RadicationUpdate, error) {
			// The locked row shows the racing winner's commit; the loser bails.
			return nil, wantErr
		})

	assert.ErrorIs(t, err, wantErr)
	assert.Nil(t, doc)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRadicationPostgres_Radicate_SequenceFailureRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	unit := NewRadicationPostgres(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT (.+) FROM documents WHERE id = (.+) FOR UPDATE").
		WithArgs("doc-1").
		WillReturnRows(documentRow("doc-1", model.StatusDraft, nil, nil, `{}`))
	mock.ExpectQuery("INSERT INTO sequence_counters").
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	called := false
	_, err = unit.Radicate(context.Background(), "doc-1", radicationKey(),
		func(doc *model.Document, seq int64) (*repository.RadicationUpdate, error) {
			called = true
			return nil, nil
		})

	assert.Error(t, err)
	assert.False(t, called, "callback must not run when issuance fails")
	assert.NoError(t, mock.ExpectationsWereMet())
}
