package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/bibliotech/library-service/internal/core/domain"
	"github.com/bibliotech/library-service/internal/core/ports"
)

// loanRecordQuery joins each loan with the current state of its student
// and book. Reports deliberately reflect current snapshots, not the
// state at loan time.
const loanRecordQuery = `
	SELECT
		l.id, l.loan_date, l.due_date, l.return_date, l.fee, l.fee_paid,
		u.id, u.name, u.email, u.role,
		b.id, b.title, b.author, b.year, b.total_copies, b.available_copies
	FROM loans l
	INNER JOIN users u ON l.student_id = u.id
	INNER JOIN books b ON l.book_id = b.id`

type SQLLoanRepository struct {
	db *sql.DB
}

var _ ports.LoanRepository = (*SQLLoanRepository)(nil)

func NewSQLLoanRepository(db *sql.DB) *SQLLoanRepository {
	return &SQLLoanRepository{db: db}
}

// Open inserts the loan, decrements the book's availability and records
// the outbox event in one transaction. The conditional decrement is the
// availability check: zero rows affected means the book is missing or
// out of copies, and nothing is committed.
func (r *SQLLoanRepository) Open(ctx context.Context, loan domain.Loan, eventType string, eventPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE books SET available_copies = available_copies - 1 WHERE id = $1 AND available_copies > 0",
		loan.BookID,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrBookUnavailable
	}

	_, err = tx.ExecContext(ctx,
		"INSERT INTO loans (id, student_id, book_id, loan_date, due_date, fee_paid) VALUES ($1, $2, $3, $4, $5, FALSE)",
		loan.ID,
		loan.StudentID,
		loan.BookID,
		loan.LoanDate,
		loan.DueDate,
	)
	if err != nil {
		return err
	}

	if err := insertOutboxEvent(ctx, tx, eventType, eventPayload); err != nil {
		return err
	}

	return tx.Commit()
}

// Close stamps the return date and fee, increments the book's
// availability and records the outbox event in one transaction. The
// conditional update loses to a concurrent close, in which case the
// caller gets domain.ErrLoanAlreadyReturned and no mutation.
func (r *SQLLoanRepository) Close(ctx context.Context, loanID, bookID, returnDate string, fee float64, eventType string, eventPayload []byte) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE loans SET return_date = $2, fee = $3 WHERE id = $1 AND return_date IS NULL",
		loanID,
		returnDate,
		fee,
	)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrLoanAlreadyReturned
	}

	_, err = tx.ExecContext(ctx,
		"UPDATE books SET available_copies = available_copies + 1 WHERE id = $1",
		bookID,
	)
	if err != nil {
		return err
	}

	if err := insertOutboxEvent(ctx, tx, eventType, eventPayload); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *SQLLoanRepository) FindByID(ctx context.Context, id string) (*domain.Loan, error) {
	var loan domain.Loan
	var returnDate sql.NullString
	var fee sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		"SELECT id, student_id, book_id, loan_date, due_date, return_date, fee, fee_paid FROM loans WHERE id = $1",
		id,
	).Scan(&loan.ID, &loan.StudentID, &loan.BookID, &loan.LoanDate, &loan.DueDate, &returnDate, &fee, &loan.FeePaid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrLoanNotFound
	}
	if err != nil {
		return nil, err
	}

	if returnDate.Valid {
		loan.ReturnDate = &returnDate.String
	}
	if fee.Valid {
		loan.Fee = &fee.Float64
	}
	return &loan, nil
}

func (r *SQLLoanRepository) List(ctx context.Context) ([]domain.LoanRecord, error) {
	return r.queryLoanRecords(ctx, loanRecordQuery+" ORDER BY l.loan_date DESC")
}

func (r *SQLLoanRepository) ListByStudent(ctx context.Context, studentID string) ([]domain.LoanRecord, error) {
	if studentID == "" {
		return r.queryLoanRecords(ctx, loanRecordQuery+" ORDER BY u.name, l.loan_date DESC")
	}
	return r.queryLoanRecords(ctx,
		loanRecordQuery+" WHERE l.student_id = $1 ORDER BY l.loan_date DESC",
		studentID,
	)
}

func (r *SQLLoanRepository) ListOverdue(ctx context.Context, today string) ([]domain.LoanRecord, error) {
	return r.queryLoanRecords(ctx,
		loanRecordQuery+" WHERE l.return_date IS NULL AND l.due_date < $1 ORDER BY l.due_date ASC",
		today,
	)
}

func (r *SQLLoanRepository) queryLoanRecords(ctx context.Context, query string, args ...any) ([]domain.LoanRecord, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []domain.LoanRecord{}
	for rows.Next() {
		var rec domain.LoanRecord
		var returnDate sql.NullString
		var fee sql.NullFloat64
		var year sql.NullInt64

		err := rows.Scan(
			&rec.ID, &rec.LoanDate, &rec.DueDate, &returnDate, &fee, &rec.FeePaid,
			&rec.Student.ID, &rec.Student.Name, &rec.Student.Email, &rec.Student.Role,
			&rec.Book.ID, &rec.Book.Title, &rec.Book.Author, &year, &rec.Book.TotalCopies, &rec.Book.AvailableCopies,
		)
		if err != nil {
			return nil, err
		}

		if returnDate.Valid {
			rec.ReturnDate = &returnDate.String
		}
		if fee.Valid {
			rec.Fee = &fee.Float64
		}
		if year.Valid {
			y := int(year.Int64)
			rec.Book.Year = &y
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// insertOutboxEvent writes the event row that the relay picks up via
// pg_notify. It must run inside the same transaction as the mutation it
// describes.
func insertOutboxEvent(ctx context.Context, tx *sql.Tx, eventType string, payload []byte) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO outbox_events (id, event_type, payload, created_at) VALUES ($1, $2, $3, $4)",
		uuid.NewString(),
		eventType,
		payload,
		time.Now().UTC(),
	)
	return err
}
