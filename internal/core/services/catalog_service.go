package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

type CatalogService struct {
	books ports.BookRepository
}

var _ ports.CatalogService = (*CatalogService)(nil)

func NewCatalogService(books ports.BookRepository) *CatalogService {
	return &CatalogService{books: books}
}

// AddBook registers a catalog entry. Total copies are coerced to a
// positive count (default 1) and available copies start equal to total.
func (s *CatalogService) AddBook(ctx context.Context, title, author string, year *int, totalCopies int) (*domain.Book, error) {
	if totalCopies < 1 {
		totalCopies = 1
	}

	book := domain.Book{
		ID:              uuid.NewString(),
		Title:           title,
		Author:          author,
		Year:            year,
		TotalCopies:     totalCopies,
		AvailableCopies: totalCopies,
	}

	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *CatalogService) ListBooks(ctx context.Context) ([]domain.Book, error) {
	return s.books.List(ctx)
}
