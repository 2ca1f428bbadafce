package sqlstore

import (
	"database/sql"
	"errors"
	"testing"

	"vocabdeck/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repository.KVStore = (*KVRepo)(nil)
var _ repository.UserRepository = (*UserRepo)(nil)

func TestKVRepo_Get(t *testing.T) {
	tests := []struct {
		name          string
		mockRows      *sqlmock.Rows
		mockError     error
		expected      []byte
		expectedError bool
	}{
		{
			name:     "stored payload",
			mockRows: sqlmock.NewRows([]string{"payload"}).AddRow(`{"decks":[]}`),
			expected: []byte(`{"decks":[]}`),
		},
		{
			name:      "missing key",
			mockError: sql.ErrNoRows,
			expected:  nil,
		},
		{
			name:          "query failure",
			mockError:     errors.New("connection reset"),
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			repo := NewKVRepo(db, Postgres{})

			query := "SELECT payload FROM kv_store WHERE store_key = \\$1"
			if tt.mockError != nil {
				mock.ExpectQuery(query).WithArgs(repository.KeyCollection).WillReturnError(tt.mockError)
			} else {
				mock.ExpectQuery(query).WithArgs(repository.KeyCollection).WillReturnRows(tt.mockRows)
			}

			got, err := repo.Get(repository.KeyCollection)

			if tt.expectedError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestKVRepo_Set(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKVRepo(db, SQLite{})

	mock.ExpectExec("INSERT INTO kv_store .* VALUES \\(\\?, \\?\\) ON CONFLICT \\(store_key\\)").
		WithArgs(repository.KeyProgress, `{"d":{"known":[],"learning":[]}}`).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = repo.Set(repository.KeyProgress, []byte(`{"d":{"known":[],"learning":[]}}`))

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKVRepo_SetError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewKVRepo(db, Postgres{})

	mock.ExpectExec("INSERT INTO kv_store").
		WithArgs("k", "v").
		WillReturnError(errors.New("quota exceeded"))

	err = repo.Set("k", []byte("v"))

	assert.EqualError(t, err, "quota exceeded")
	assert.NoError(t, mock.ExpectationsWereMet())
}
