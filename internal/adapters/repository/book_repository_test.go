package repository

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotech/library-service/internal/core/domain"
)

func newBookRepo(t *testing.T) (*SQLBookRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLBookRepository(db), mock
}

func TestSQLBookRepository_Create(t *testing.T) {
	repo, mock := newBookRepo(t)

	year := 1881
	book := domain.Book{
		ID:              "book-1",
		Title:           "Memorias Postumas de Bras Cubas",
		Author:          "Machado de Assis",
		Year:            &year,
		TotalCopies:     4,
		AvailableCopies: 4,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO books")).
		WithArgs("book-1", book.Title, book.Author, &year, 4, 4).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), book)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLBookRepository_List(t *testing.T) {
	repo, mock := newBookRepo(t)

	rows := sqlmock.NewRows([]string{"id", "title", "author", "year", "total_copies", "available_copies"}).
		AddRow("book-1", "Dom Casmurro", "Machado de Assis", 1899, 3, 2).
		AddRow("book-2", "Vidas Secas", "Graciliano Ramos", nil, 2, 2)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, title, author, year, total_copies, available_copies FROM books ORDER BY title")).
		WillReturnRows(rows)

	books, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, books, 2)

	require.NotNil(t, books[0].Year)
	assert.Equal(t, 1899, *books[0].Year)
	assert.Nil(t, books[1].Year)
}
