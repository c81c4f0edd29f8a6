package service

import (
	"context"
	"testing"
	"time"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/model"
	"github.com/gestortareas/api/internal/repository"
	"github.com/gestortareas/api/pkg/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.User{}, &model.Task{}))
	return db
}

func newTestAuthService(t *testing.T) (AuthService, repository.UserRepository, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	users := repository.NewUserRepository(db)
	svc := NewAuthService(
		users,
		NewPasswordHasher(),
		NewJWTService(testJWTConfig()),
		mailer.NoopSender{},
		config.AppConfig{Name: "Gestor de Tareas", BaseURL: "http://localhost:8080"},
	)
	return svc, users, db
}

func registerTestUser(t *testing.T, svc AuthService, email string) *dto.AuthResponse {
	t.Helper()

	auth, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:           email,
		FirstName:       "Ana",
		LastName:        "García",
		Password:        "secret123",
		ConfirmPassword: "secret123",
	})
	require.NoError(t, err)
	return auth
}

func TestRegisterStoresSaltedHashAndConfirmationToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	resp := registerTestUser(t, svc, "ana@example.com")
	assert.Equal(t, "ana@example.com", resp.User.Email)
	assert.False(t, resp.User.EmailConfirmed)

	// Registration signs the first session token
	assert.NotEmpty(t, resp.Token)
	claims, err := NewJWTService(testJWTConfig()).ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
	assert.Equal(t, "Ana García", claims.DisplayName)

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, stored.PasswordHash)
	assert.NotEmpty(t, stored.PasswordSalt)
	assert.NotEqual(t, "secret123", stored.PasswordHash)

	// Token pair is set together
	require.NotNil(t, stored.ConfirmationToken)
	require.NotNil(t, stored.ConfirmationTokenExpiresAt)
	assert.True(t, stored.ConfirmationTokenExpiresAt.After(time.Now()))
}

func TestRegisterNormalizesEmail(t *testing.T) {
	svc, users, _ := newTestAuthService(t)

	registerTestUser(t, svc, "  Ana@Example.COM ")

	stored, err := users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", stored.Email)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	registerTestUser(t, svc, "ana@example.com")

	_, err := svc.Register(context.Background(), &dto.RegisterRequest{
		Email:           "ana@example.com",
		FirstName:       "Other",
		LastName:        "Person",
		Password:        "secret456",
		ConfirmPassword: "secret456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailExists)
}

func TestLoginSuccessReturnsTokenAndUpdatesLastAccess(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")

	auth, err := svc.Login(ctx, &dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, auth.Token)
	assert.Equal(t, "ana@example.com", auth.User.Email)

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.LastAccessAt)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")

	_, errWrongPassword := svc.Login(ctx, &dto.LoginRequest{
		Email:    "ana@example.com",
		Password: "wrong-password",
	})
	_, errUnknownEmail := svc.Login(ctx, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})

	assert.ErrorIs(t, errWrongPassword, domainerrors.ErrInvalidCredentials)
	assert.ErrorIs(t, errUnknownEmail, domainerrors.ErrInvalidCredentials)
	assert.Equal(t, errWrongPassword.Error(), errUnknownEmail.Error())
}

func TestConfirmEmailConsumesToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	token := *stored.ConfirmationToken

	require.NoError(t, svc.ConfirmEmail(ctx, token))

	stored, err = users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.True(t, stored.EmailConfirmed)
	assert.Nil(t, stored.ConfirmationToken)
	assert.Nil(t, stored.ConfirmationTokenExpiresAt)

	// Second use of the same token fails: tokens are single-use
	err = svc.ConfirmEmail(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestConfirmEmailExpiredToken(t *testing.T) {
	svc, users, db := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	token := *stored.ConfirmationToken

	past := time.Now().Add(-time.Minute)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", stored.ID).
		Update("confirmation_token_expires_at", past).Error)

	err = svc.ConfirmEmail(ctx, token)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestConfirmEmailUnknownToken(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	err := svc.ConfirmEmail(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestResendConfirmationIssuesNewToken(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	before, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	oldToken := *before.ConfirmationToken

	require.NoError(t, svc.ResendConfirmation(ctx, "ana@example.com"))

	after, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, after.ConfirmationToken)
	assert.NotEqual(t, oldToken, *after.ConfirmationToken)

	// The replaced token no longer works
	err = svc.ConfirmEmail(ctx, oldToken)
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestResendConfirmationUnknownEmailSucceeds(t *testing.T) {
	svc, _, _ := newTestAuthService(t)

	assert.NoError(t, svc.ResendConfirmation(context.Background(), "nobody@example.com"))
}

func TestPasswordRecoveryAlwaysSucceeds(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")

	// Known and unknown email both report success
	assert.NoError(t, svc.RequestPasswordRecovery(ctx, "ana@example.com"))
	assert.NoError(t, svc.RequestPasswordRecovery(ctx, "nobody@example.com"))

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.ResetToken)
	require.NotNil(t, stored.ResetTokenExpiresAt)
}

func TestResetPasswordConsumesTokenAndReplacesCredential(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	require.NoError(t, svc.RequestPasswordRecovery(ctx, "ana@example.com"))

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	token := *stored.ResetToken

	require.NoError(t, svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	}))

	// Old password no longer works, new one does
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)
	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "newsecret456"})
	assert.NoError(t, err)

	// Token pair cleared, second use fails
	stored, err = users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	assert.Nil(t, stored.ResetToken)
	assert.Nil(t, stored.ResetTokenExpiresAt)

	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "another789",
		ConfirmPassword: "another789",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	svc, users, db := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	require.NoError(t, svc.RequestPasswordRecovery(ctx, "ana@example.com"))

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	token := *stored.ResetToken

	past := time.Now().Add(-time.Second)
	require.NoError(t, db.Model(&model.User{}).
		Where("id = ?", stored.ID).
		Update("reset_token_expires_at", past).Error)

	err = svc.ResetPassword(ctx, &dto.ResetPasswordRequest{
		Token:           token,
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidOrExpiredToken)
}

func TestChangePassword(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	resp := registerTestUser(t, svc, "ana@example.com")

	err := svc.ChangePassword(ctx, resp.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "wrong-password",
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(ctx, resp.User.ID, &dto.ChangePasswordRequest{
		CurrentPassword: "secret123",
		NewPassword:     "newsecret456",
		ConfirmPassword: "newsecret456",
	}))

	_, err = svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "newsecret456"})
	assert.NoError(t, err)
}

func TestEditProfileUpdatesNameAndEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	resp := registerTestUser(t, svc, "ana@example.com")

	updated, err := svc.EditProfile(ctx, resp.User.ID, &dto.EditProfileRequest{
		Email:     "ana.maria@example.com",
		FirstName: "Ana María",
		LastName:  "García",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.maria@example.com", updated.Email)
	assert.Equal(t, "Ana María García", updated.DisplayName)

	current, err := svc.GetCurrentUser(ctx, resp.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana.maria@example.com", current.Email)
}

func TestEditProfileRejectsTakenEmail(t *testing.T) {
	svc, _, _ := newTestAuthService(t)
	ctx := context.Background()

	registerTestUser(t, svc, "ana@example.com")
	other := registerTestUser(t, svc, "luis@example.com")

	_, err := svc.EditProfile(ctx, other.User.ID, &dto.EditProfileRequest{
		Email:     "ana@example.com",
		FirstName: "Luis",
		LastName:  "Pérez",
	})
	assert.ErrorIs(t, err, domainerrors.ErrEmailExists)

	// Keeping your own email is not a conflict
	_, err = svc.EditProfile(ctx, other.User.ID, &dto.EditProfileRequest{
		Email:     "luis@example.com",
		FirstName: "Luis",
		LastName:  "Pérez",
	})
	assert.NoError(t, err)
}

func TestLogoutOnlyTouchesLastAccess(t *testing.T) {
	svc, users, _ := newTestAuthService(t)
	ctx := context.Background()

	resp := registerTestUser(t, svc, "ana@example.com")
	auth, err := svc.Login(ctx, &dto.LoginRequest{Email: "ana@example.com", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, resp.User.ID))

	stored, err := users.FindByEmail(ctx, "ana@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored.LastAccessAt)

	// The session token itself is untouched and still validates
	claims, err := NewJWTService(testJWTConfig()).ValidateToken(auth.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}
