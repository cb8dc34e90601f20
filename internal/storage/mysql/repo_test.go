package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ibe_backend/internal/domain"
)

func newMock(t *testing.T) (*Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return New(db), mock
}

func TestSave_Upserts(t *testing.T) {
	repo, mock := newMock(t)
	data := `{"global":{"a":1}}`

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO configuration")).
		WithArgs(int64(4), data).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Save(context.Background(), domain.Configuration{ID: 4, Data: json.RawMessage(data)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Equal(t, data, string(got.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSave_Error(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("deadlock")
	mock.ExpectExec("INSERT INTO configuration").WillReturnError(boom)

	_, err := repo.Save(context.Background(), domain.Configuration{ID: 1, Data: json.RawMessage(`{}`)})
	assert.ErrorIs(t, err, boom)
}

func TestFindByID_Found(t *testing.T) {
	repo, mock := newMock(t)
	data := `{"properties": {"7": {"b": 2, "a": 1}}}`

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, data")).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).AddRow(int64(7), data))

	got, err := repo.FindByID(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, data, string(got.Data))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByID_NotFound(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery("SELECT id, data").
		WithArgs(int64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}))

	_, err := repo.FindByID(context.Background(), 8)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFindByID_QueryError(t *testing.T) {
	repo, mock := newMock(t)
	boom := errors.New("gone away")
	mock.ExpectQuery("SELECT id, data").WillReturnError(boom)

	_, err := repo.FindByID(context.Background(), 8)
	assert.ErrorIs(t, err, boom)
	assert.False(t, errors.Is(err, domain.ErrNotFound))
}
