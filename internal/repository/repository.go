package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/twentyhard/twentyhard/internal/model"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrChallengeNotFound = errors.New("challenge not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	Delete(ctx context.Context, id string) error
}

// ChallengeRepository stores one challenge per user. Save replaces the whole
// aggregate, including its day logs.
type ChallengeRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.Challenge, error)
	Save(ctx context.Context, ch *model.Challenge) error
	Delete(ctx context.Context, userID string) error
	UserIDs(ctx context.Context) ([]string, error)
}

// isUniqueViolation matches SQLite and PostgreSQL unique constraint errors.
func isUniqueViolation(err error) bool {
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}
