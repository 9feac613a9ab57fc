package ports

import (
	"context"

	"github.com/bibliotech/library-service/internal/core/domain"
)

type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Identity, error)
	Logout(ctx context.Context, token string) error
}

type RegistrationService interface {
	RegisterUser(ctx context.Context, name, email, password string, role domain.Role) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

type CatalogService interface {
	AddBook(ctx context.Context, title, author string, year *int, totalCopies int) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
}

type LoanService interface {
	Open(ctx context.Context, studentID, bookID string) (*domain.Loan, error)
	// Close returns the fee computed for the loan so the caller can
	// surface it.
	Close(ctx context.Context, loanID string) (float64, error)
	List(ctx context.Context) ([]domain.LoanRecord, error)
	ListByStudent(ctx context.Context, studentID string) ([]domain.LoanRecord, error)
	ListOverdue(ctx context.Context) ([]domain.LoanRecord, error)
}
