package repository

import (
	"context"
	"database/sql"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type SQLBookRepository struct {
	db *sql.DB
}

var _ ports.BookRepository = (*SQLBookRepository)(nil)

func NewSQLBookRepository(db *sql.DB) *SQLBookRepository {
	return &SQLBookRepository{db: db}
}

func (r *SQLBookRepository) Create(ctx context.Context, book domain.Book) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO books (id, title, author, year, total_copies, available_copies) VALUES ($1, $2, $3, $4, $5, $6)",
		book.ID,
		book.Title,
		book.Author,
		book.Year,
		book.TotalCopies,
		book.AvailableCopies,
	)
	return err
}

func (r *SQLBookRepository) List(ctx context.Context) ([]domain.Book, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, title, author, year, total_copies, available_copies FROM books ORDER BY title",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []domain.Book{}
	for rows.Next() {
		var book domain.Book
		var year sql.NullInt64
		if err := rows.Scan(&book.ID, &book.Title, &book.Author, &year, &book.TotalCopies, &book.AvailableCopies); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			book.Year = &y
		}
		books = append(books, book)
	}
	return books, rows.Err()
}
