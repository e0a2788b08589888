package service

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"suppliers-be/internal/entities"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/models"
)

var userCols = []string{"id", "name", "email", "hashed_password", "is_active", "created_at", "updated_at"}

func newUserServiceWithMock(t *testing.T) (UserService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewUserService(db, bcrypt.MinCost, logging.Nop()), mock
}

func userRows(users ...*entities.User) *sqlmock.Rows {
	rows := sqlmock.NewRows(userCols)
	for _, u := range users {
		rows.AddRow(u.ID.String(), u.Name, u.Email, u.HashedPassword, u.IsActive, u.CreatedAt, u.UpdatedAt)
	}
	return rows
}

func sampleUser(t *testing.T, password string) *entities.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	now := time.Date(2024, 8, 30, 7, 4, 50, 0, time.UTC)
	return &entities.User{
		ID:             uuid.New(),
		Name:           "Ada",
		Email:          "ada@example.com",
		HashedPassword: string(hashed),
		IsActive:       true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// bcryptOf matches a hashed_password argument produced from password.
type bcryptOf string

func (b bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(b)) == nil
}

const (
	selectUserByEmail = "FROM users WHERE email = $1"
	selectUserByID    = "FROM users WHERE id = $1"
	insertUser        = "INSERT INTO users"
	updateUser        = "UPDATE users"
	deleteUser        = "DELETE FROM users WHERE id = $1"
)

func TestCreateUser_Success(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	u := sampleUser(t, "secret1")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).
		WithArgs(u.Email).
		WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).
		WithArgs(sqlmock.AnyArg(), u.Name, u.Email, bcryptOf("secret1"), true).
		WillReturnRows(userRows(u))
	mock.ExpectCommit()

	got, err := svc.CreateUser(context.Background(), &models.SignupRequest{
		Name: u.Name, Email: u.Email, Password: "secret1",
	})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsActive)
	assert.NotEqual(t, "secret1", got.HashedPassword)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_EmailTaken(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	existing := sampleUser(t, "whatever")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).
		WithArgs(existing.Email).
		WillReturnRows(userRows(existing))
	mock.ExpectRollback()

	_, err := svc.CreateUser(context.Background(), &models.SignupRequest{
		Name: "Other", Email: existing.Email, Password: "secret1",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "User with email 'ada@example.com' already exists", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_ConstraintRace(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})
	mock.ExpectRollback()

	_, err := svc.CreateUser(context.Background(), &models.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "User with email 'ada@example.com' already exists", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUser_StoreFailure(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	boom := errors.New("connection reset")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).WillReturnRows(userRows())
	mock.ExpectQuery(regexp.QuoteMeta(insertUser)).WillReturnError(boom)
	mock.ExpectRollback()

	_, err := svc.CreateUser(context.Background(), &models.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: "secret1",
	})
	assert.ErrorIs(t, err, ErrOperationFailed)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "Database operation failed: create_user", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser_NotFound(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).WithArgs(id).WillReturnRows(userRows())

	_, err := svc.GetUser(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User with id '"+id.String()+"' not found", err.Error())
}

func TestGetUserByEmail(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	u := sampleUser(t, "pw")

	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).WithArgs(u.Email).WillReturnRows(userRows(u))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).WithArgs("nobody@example.com").WillReturnRows(userRows())

	got, err := svc.GetUserByEmail(context.Background(), u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = svc.GetUserByEmail(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User with email 'nobody@example.com' not found", err.Error())
}

func TestListUsers(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	a, b := sampleUser(t, "pw"), sampleUser(t, "pw")

	mock.ExpectQuery(regexp.QuoteMeta("FROM users ORDER BY id OFFSET $1 LIMIT $2")).
		WithArgs(5, 2).
		WillReturnRows(userRows(a, b))

	users, err := svc.ListUsers(context.Background(), models.Pagination{Skip: 5, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateUser_RehashesPassword(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	u := sampleUser(t, "old-password")
	name := "Ada L."
	password := "new-password"

	updated := *u
	updated.Name = name

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).WithArgs(u.ID).WillReturnRows(userRows(u))
	mock.ExpectQuery(regexp.QuoteMeta(updateUser)).
		WithArgs(u.ID, name, u.Email, bcryptOf(password), true).
		WillReturnRows(userRows(&updated))
	mock.ExpectCommit()

	got, err := svc.UpdateUser(context.Background(), u.ID, &models.UpdateUserRequest{
		Name: &name, Password: &password,
	})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_EmailTakenByAnother(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	u := sampleUser(t, "pw")
	other := sampleUser(t, "pw")
	other.Email = "grace@example.com"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).WithArgs(u.ID).WillReturnRows(userRows(u))
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByEmail)).WithArgs(other.Email).WillReturnRows(userRows(other))
	mock.ExpectRollback()

	_, err := svc.UpdateUser(context.Background(), u.ID, &models.UpdateUserRequest{Email: &other.Email})
	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Equal(t, "User with email 'grace@example.com' already exists", err.Error())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NoChangesSkipsWrite(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	u := sampleUser(t, "pw")

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).WithArgs(u.ID).WillReturnRows(userRows(u))
	mock.ExpectCommit()

	got, err := svc.UpdateUser(context.Background(), u.ID, &models.UpdateUserRequest{Name: &u.Name})
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateUser_NotFound(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	id := uuid.New()
	name := "x"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(selectUserByID)).WithArgs(id).WillReturnRows(userRows())
	mock.ExpectRollback()

	_, err := svc.UpdateUser(context.Background(), id, &models.UpdateUserRequest{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()
	require.NoError(t, svc.DeleteUser(context.Background(), id))

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(deleteUser)).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()
	err := svc.DeleteUser(context.Background(), id)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPasswordOverBcryptLimitIsInvalidInput(t *testing.T) {
	svc, mock := newUserServiceWithMock(t)
	long := strings.Repeat("p", 73)

	_, err := svc.CreateUser(context.Background(), &models.SignupRequest{
		Name: "Ada", Email: "ada@example.com", Password: long,
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.NotErrorIs(t, err, ErrOperationFailed)

	_, err = svc.UpdateUser(context.Background(), uuid.New(), &models.UpdateUserRequest{Password: &long})
	assert.ErrorIs(t, err, ErrInvalidInput)

	// 72 bytes is still accepted by the hasher.
	_, err = svc.(*userService).hashPassword(strings.Repeat("p", 72))
	require.NoError(t, err)

	require.NoError(t, mock.ExpectationsWereMet())
}
