package repository

import (
	"context"
	"errors"
	"time"

	"github.com/gestortareas/api/internal/model"
	ctxutil "github.com/gestortareas/api/pkg/context"
	"github.com/gestortareas/api/pkg/logger"
	"gorm.io/gorm"
)

// UserRepository provides data access for accounts
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByConfirmationToken(ctx context.Context, token string) (*model.User, error)
	FindByResetToken(ctx context.Context, token string) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	UpdateLastAccess(ctx context.Context, id uint, at time.Time) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "CreateUser")
	start := time.Now()

	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to create user").
			String("email", user.Email).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return err
	}

	logger.DebugWithContext(ctx, "User created").
		Int("user_id", int(user.ID)).
		Duration(time.Since(start)).
		Log()
	return nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindUserByEmail")
	start := time.Now()

	var user model.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to query user by email").
				Err(err).
				Duration(time.Since(start)).
				Log()
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindUserByID")
	start := time.Now()

	var user model.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Failed to query user by id").
				Int("user_id", int(id)).
				Err(err).
				Duration(time.Since(start)).
				Log()
		}
		return nil, err
	}

	return &user, nil
}

func (r *userRepository) FindByConfirmationToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindUserByConfirmationToken")

	var user model.User
	err := r.db.WithContext(ctx).Where("confirmation_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(ctx context.Context, token string) (*model.User, error) {
	ctx = ctxutil.NewContext(ctx, "repository", "FindUserByResetToken")

	var user model.User
	err := r.db.WithContext(ctx).Where("reset_token = ?", token).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	ctx = ctxutil.NewContext(ctx, "repository", "UpdateUser")
	start := time.Now()

	// Save writes every column, including nil token pairs, which is what
	// the single-use token lifecycle requires.
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		logger.ErrorWithContext(ctx, "Failed to update user").
			Int("user_id", int(user.ID)).
			Err(err).
			Duration(time.Since(start)).
			Log()
		return err
	}

	return nil
}

func (r *userRepository) UpdateLastAccess(ctx context.Context, id uint, at time.Time) error {
	ctx = ctxutil.NewContext(ctx, "repository", "UpdateLastAccess")

	return r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("id = ?", id).
		Update("last_access_at", at).Error
}
