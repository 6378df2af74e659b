package services

import (
	"context"
	"errors"
	"testing"

	"medcredhub/internal/adapters/persistence/models"
	"medcredhub/internal/adapters/persistence/repositories"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

// cvUserRepo stubs the user lookup; only GetByID is reached on the error
// paths under test
type cvUserRepo struct {
	repositories.UserRepository
	err error
}

func (f *cvUserRepo) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return nil, f.err
}

func TestCVService_Generate_UserLookupErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("missing user maps to not found", func(t *testing.T) {
		service := NewCVService(&cvUserRepo{err: gorm.ErrRecordNotFound}, nil, nil)
		_, err := service.Generate(ctx, 42)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("database errors pass through", func(t *testing.T) {
		dbErr := errors.New("connection refused")
		service := NewCVService(&cvUserRepo{err: dbErr}, nil, nil)
		_, err := service.Generate(ctx, 42)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrUserNotFound)
	})
}
