package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/upb/coffee-shop/models"
	"github.com/upb/coffee-shop/repositories"
	"go.uber.org/zap"
)

const waterRecipe = `[{"color":"blue","name":"water","parts":1}]`

func newMockDB(t *testing.T) (*DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return Wrap(sqlDB, zap.NewNop()), mock
}

func TestDrinkRepository_List(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrinkRepository(db, zap.NewNop())

	rows := sqlmock.NewRows([]string{"id", "title", "recipe"}).
		AddRow(1, "water", waterRecipe).
		AddRow(2, "espresso", `[{"color":"brown","name":"coffee","parts":1}]`)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, recipe FROM drinks ORDER BY id")).
		WillReturnRows(rows)

	drinks, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, drinks, 2)
	assert.Equal(t, int64(1), drinks[0].ID)
	assert.Equal(t, "water", drinks[0].Title)
	assert.Equal(t, waterRecipe, drinks[0].Recipe)
	assert.Equal(t, "espresso", drinks[1].Title)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDrinkRepository_List_Empty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewDrinkRepository(db, zap.NewNop())

	mock.ExpectQuery(regexp.QuoteMeta("FROM drinks")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "recipe"}))

	drinks, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, drinks)
	assert.Empty(t, drinks)
}

func TestDrinkRepository_GetByID(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM drinks WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "recipe"}).AddRow(1, "water", waterRecipe))

		drink, err := repo.GetByID(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "water", drink.Title)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM drinks WHERE id = $1")).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "title", "recipe"}))

		drink, err := repo.GetByID(context.Background(), 42)
		assert.Nil(t, drink)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("connection lost", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("FROM drinks WHERE id = $1")).
			WithArgs(int64(1)).
			WillReturnError(&pq.Error{Code: "08006", Message: "connection failure"})

		_, err := repo.GetByID(context.Background(), 1)
		assert.ErrorIs(t, err, repositories.ErrUnavailable)
	})
}

func TestDrinkRepository_Create(t *testing.T) {
	t.Run("assigns generated id", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		drink := &models.Drink{Title: "water", Recipe: waterRecipe}
		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO drinks (title, recipe)")).
			WithArgs("water", waterRecipe).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(context.Background(), drink)
		require.NoError(t, err)
		assert.Equal(t, int64(7), drink.ID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate title", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO drinks")).
			WithArgs("water", waterRecipe).
			WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

		err := repo.Create(context.Background(), &models.Drink{Title: "water", Recipe: waterRecipe})
		assert.ErrorIs(t, err, repositories.ErrDuplicateTitle)
	})

	t.Run("title too long", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO drinks")).
			WillReturnError(&pq.Error{Code: "22001", Message: "value too long for type character varying(80)"})

		err := repo.Create(context.Background(), &models.Drink{Title: "water", Recipe: waterRecipe})
		assert.ErrorIs(t, err, repositories.ErrInvalidInput)
	})

	t.Run("recipe is not a list", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		err := repo.Create(context.Background(), &models.Drink{Title: "water", Recipe: `{"name":"water"}`})
		assert.ErrorIs(t, err, repositories.ErrInvalidRecipe)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDrinkRepository_Update(t *testing.T) {
	t.Run("updates row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("UPDATE drinks SET title = $2, recipe = $3 WHERE id = $1")).
			WithArgs(int64(1), "sparkling water", waterRecipe).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.Update(context.Background(), &models.Drink{ID: 1, Title: "sparkling water", Recipe: waterRecipe})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("UPDATE drinks")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Update(context.Background(), &models.Drink{ID: 9, Title: "ghost", Recipe: `[]`})
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("duplicate title", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("UPDATE drinks")).
			WillReturnError(&pq.Error{Code: "23505"})

		err := repo.Update(context.Background(), &models.Drink{ID: 1, Title: "espresso", Recipe: `[]`})
		assert.ErrorIs(t, err, repositories.ErrDuplicateTitle)
	})
}

func TestDrinkRepository_Delete(t *testing.T) {
	t.Run("deletes row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM drinks WHERE id = $1")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Delete(context.Background(), 3))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("missing row", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM drinks")).
			WithArgs(int64(3)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		assert.ErrorIs(t, repo.Delete(context.Background(), 3), repositories.ErrNotFound)
	})

	t.Run("unclassified failure", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewDrinkRepository(db, zap.NewNop())

		boom := errors.New("boom")
		mock.ExpectExec(regexp.QuoteMeta("DELETE FROM drinks")).
			WillReturnError(boom)

		err := repo.Delete(context.Background(), 3)
		assert.ErrorIs(t, err, boom)
		assert.NotErrorIs(t, err, repositories.ErrNotFound)
	})
}
