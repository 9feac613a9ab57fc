package ports

import "context"

const (
	EventLoanOpened   = "loan.opened"
	EventLoanReturned = "loan.returned"
)

type LoanOpenedEvent struct {
	LoanID    string `json:"loan_id"`
	StudentID string `json:"student_id"`
	BookID    string `json:"book_id"`
	LoanDate  string `json:"loan_date"`
	DueDate   string `json:"due_date"`
}

type LoanReturnedEvent struct {
	LoanID     string  `json:"loan_id"`
	BookID     string  `json:"book_id"`
	ReturnDate string  `json:"return_date"`
	Fee        float64 `json:"fee"`
}

type LoanEventPublisher interface {
	PublishLoanOpened(ctx context.Context, evt LoanOpenedEvent) error
	PublishLoanReturned(ctx context.Context, evt LoanReturnedEvent) error
}
