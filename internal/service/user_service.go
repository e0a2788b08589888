package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"suppliers-be/internal/database"
	"suppliers-be/internal/entities"
	"suppliers-be/internal/logging"
	"suppliers-be/internal/models"
	"suppliers-be/internal/repository"
)

// UserService defines the interface for user account business logic
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entities.User, error)
	ListUsers(ctx context.Context, page models.Pagination) ([]*entities.User, error)
	CreateUser(ctx context.Context, req *models.SignupRequest) (*entities.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*entities.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

type userService struct {
	db         *sql.DB
	bcryptCost int
	log        logging.Logger
}

// NewUserService creates a new user service
func NewUserService(db *sql.DB, bcryptCost int, log logging.Logger) UserService {
	return &userService{
		db:         db,
		bcryptCost: bcryptCost,
		log:        log.With("component", "user_service"),
	}
}

func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := repository.NewUserRepository(s.db).FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: entityUser, Field: "id", Value: id.String()}
	}
	if err != nil {
		return nil, storeError(ctx, s.log, "get_user", entityUser, err, nil)
	}
	return user, nil
}

func (s *userService) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	user, err := repository.NewUserRepository(s.db).FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, &NotFoundError{Entity: entityUser, Field: "email", Value: email}
	}
	if err != nil {
		return nil, storeError(ctx, s.log, "get_user", entityUser, err, nil)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, page models.Pagination) ([]*entities.User, error) {
	users, err := repository.NewUserRepository(s.db).List(ctx, page.Skip, page.Limit)
	if err != nil {
		return nil, storeError(ctx, s.log, "list_users", entityUser, err, nil)
	}
	return users, nil
}

// CreateUser hashes the password and stores a new active user. The email
// must not belong to another user.
func (s *userService) CreateUser(ctx context.Context, req *models.SignupRequest) (*entities.User, error) {
	hashed, err := s.hashPassword(req.Password)
	if err != nil {
		return nil, storeError(ctx, s.log, "create_user", entityUser, err, nil)
	}

	var created *entities.User
	err = database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewUserRepository(tx)

		if err := ensureEmailFree(ctx, repo, req.Email, uuid.Nil); err != nil {
			return err
		}

		var err error
		created, err = repo.Create(ctx, &entities.User{
			Name:           req.Name,
			Email:          req.Email,
			HashedPassword: hashed,
			IsActive:       true,
		})
		return err
	})
	if err != nil {
		return nil, storeError(ctx, s.log, "create_user", entityUser, err,
			map[string]string{"email": req.Email})
	}

	s.log.Info(ctx, "user created", "user_id", created.ID)
	return created, nil
}

// UpdateUser applies the non-nil fields of req. A new password is re-hashed.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, req *models.UpdateUserRequest) (*entities.User, error) {
	var hashed string
	if req.Password != nil {
		var err error
		if hashed, err = s.hashPassword(*req.Password); err != nil {
			return nil, storeError(ctx, s.log, "update_user", entityUser, err, nil)
		}
	}

	var updated *entities.User
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		repo := repository.NewUserRepository(tx)

		user, err := repo.FindByID(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entityUser, Field: "id", Value: id.String()}
		}
		if err != nil {
			return err
		}

		changed := false
		if req.Name != nil && *req.Name != user.Name {
			user.Name = *req.Name
			changed = true
		}
		if req.Email != nil && *req.Email != user.Email {
			if err := ensureEmailFree(ctx, repo, *req.Email, user.ID); err != nil {
				return err
			}
			user.Email = *req.Email
			changed = true
		}
		if hashed != "" {
			user.HashedPassword = hashed
			changed = true
		}

		if !changed {
			updated = user
			return nil
		}

		updated, err = repo.Update(ctx, user)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entityUser, Field: "id", Value: id.String()}
		}
		return err
	})
	if err != nil {
		values := map[string]string{}
		if req.Email != nil {
			values["email"] = *req.Email
		}
		return nil, storeError(ctx, s.log, "update_user", entityUser, err, values)
	}

	return updated, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	err := database.WithTx(ctx, s.db, func(ctx context.Context, tx database.DBTX) error {
		err := repository.NewUserRepository(tx).Delete(ctx, id)
		if errors.Is(err, repository.ErrNotFound) {
			return &NotFoundError{Entity: entityUser, Field: "id", Value: id.String()}
		}
		return err
	})
	if err != nil {
		return storeError(ctx, s.log, "delete_user", entityUser, err, nil)
	}

	s.log.Info(ctx, "user deleted", "user_id", id)
	return nil
}

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

func (s *userService) hashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("must be at most %d bytes", maxPasswordBytes),
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// ensureEmailFree fails with an AlreadyExistsError when email belongs to a
// user other than self.
func ensureEmailFree(ctx context.Context, repo repository.UserRepository, email string, self uuid.UUID) error {
	existing, err := repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID == self {
		return nil
	}
	return &AlreadyExistsError{Entity: entityUser, Field: "email", Value: email}
}
