package domain

// DateLayout is the calendar-date wire and storage format for loan dates.
const DateLayout = "2006-01-02"

// Loan is open while ReturnDate is nil. Fee is computed exactly once,
// when the loan is closed, and never recomputed.
type Loan struct {
	ID         string   `json:"id"`
	StudentID  string   `json:"studentId"`
	BookID     string   `json:"bookId"`
	LoanDate   string   `json:"loanDate"`
	DueDate    string   `json:"dueDate"`
	ReturnDate *string  `json:"returnDate"`
	Fee        *float64 `json:"fee"`
	FeePaid    bool     `json:"feePaid"`
}

// LoanRecord is the denormalized read model returned by loan and report
// queries: the loan joined with current snapshots of its student and book.
type LoanRecord struct {
	ID         string   `json:"id"`
	LoanDate   string   `json:"loanDate"`
	DueDate    string   `json:"dueDate"`
	ReturnDate *string  `json:"returnDate"`
	Fee        *float64 `json:"fee"`
	FeePaid    bool     `json:"feePaid"`
	Student    Identity `json:"student"`
	Book       Book     `json:"book"`
}
