package ports

import (
	"context"

	"github.com/bibliotech/library-service/internal/core/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
}

type BookRepository interface {
	Create(ctx context.Context, book domain.Book) error
	List(ctx context.Context) ([]domain.Book, error)
}

// LoanRepository owns the two compound mutations of the loan lifecycle.
// Open and Close are each a single transaction: the loan write, the
// matching availability adjustment on the book, and an outbox row are
// committed together or not at all.
type LoanRepository interface {
	// Open inserts the loan and decrements the book's available copies.
	// Returns domain.ErrBookUnavailable when the book is missing or has
	// no copies left; no mutation happens in that case.
	Open(ctx context.Context, loan domain.Loan, eventType string, eventPayload []byte) error

	// Close stamps the return date and fee and increments the book's
	// available copies. Returns domain.ErrLoanAlreadyReturned when the
	// loan was closed concurrently.
	Close(ctx context.Context, loanID, bookID, returnDate string, fee float64, eventType string, eventPayload []byte) error

	FindByID(ctx context.Context, id string) (*domain.Loan, error)

	List(ctx context.Context) ([]domain.LoanRecord, error)
	// ListByStudent with an empty studentID returns all loans ordered by
	// student name then loan date descending.
	ListByStudent(ctx context.Context, studentID string) ([]domain.LoanRecord, error)
	// ListOverdue returns open loans whose due date is strictly before
	// today. Overdue status is always derived, never stored.
	ListOverdue(ctx context.Context, today string) ([]domain.LoanRecord, error)
}
