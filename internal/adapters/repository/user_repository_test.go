package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibliotech/library-service/internal/core/domain"
)

func newUserRepo(t *testing.T) (*SQLUserRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLUserRepository(db), mock
}

func TestSQLUserRepository_Create(t *testing.T) {
	repo, mock := newUserRepo(t)

	now := time.Now().UTC()
	user := domain.User{
		ID:        "user-1",
		Name:      "Joao Silva",
		Email:     "joao@aluno.com",
		Password:  "123456",
		Role:      domain.RoleStudent,
		CreatedAt: now,
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("user-1", "Joao Silva", "joao@aluno.com", "123456", domain.RoleStudent, now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Create(context.Background(), user)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLUserRepository_Create_DuplicateEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), domain.User{
		ID:    "user-2",
		Email: "joao@aluno.com",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestSQLUserRepository_FindByEmail(t *testing.T) {
	repo, mock := newUserRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "password", "role", "created_at"}).
		AddRow("user-1", "Joao Silva", "joao@aluno.com", "123456", "STUDENT", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password, role, created_at FROM users WHERE email = $1")).
		WithArgs("joao@aluno.com").
		WillReturnRows(rows)

	user, err := repo.FindByEmail(context.Background(), "joao@aluno.com")
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "123456", user.Password)
	assert.Equal(t, domain.RoleStudent, user.Role)
}

func TestSQLUserRepository_FindByEmail_NotFound(t *testing.T) {
	repo, mock := newUserRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, password, role, created_at FROM users WHERE email = $1")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestSQLUserRepository_List(t *testing.T) {
	repo, mock := newUserRepo(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "name", "email", "role", "created_at"}).
		AddRow("user-2", "Ana Santos", "ana@aluno.com", "STUDENT", now).
		AddRow("user-1", "Joao Silva", "joao@aluno.com", "ADMIN", now)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, role, created_at FROM users ORDER BY name")).
		WillReturnRows(rows)

	users, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana Santos", users[0].Name)
	assert.Empty(t, users[0].Password)
}
