package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gestortareas/api/config"
	"github.com/gestortareas/api/internal/constants"
	"github.com/gestortareas/api/internal/dto"
	domainerrors "github.com/gestortareas/api/internal/errors"
	"github.com/gestortareas/api/internal/model"
	"github.com/gestortareas/api/internal/repository"
	ctxutil "github.com/gestortareas/api/pkg/context"
	"github.com/gestortareas/api/pkg/logger"
	"github.com/gestortareas/api/pkg/mailer"
	"gorm.io/gorm"
)

// AuthService implements the account and credential lifecycle:
// registration, login, email confirmation, password recovery and
// profile maintenance.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	ConfirmEmail(ctx context.Context, token string) error
	ResendConfirmation(ctx context.Context, email string) error
	RequestPasswordRecovery(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error
	ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error
	EditProfile(ctx context.Context, userID uint, req *dto.EditProfileRequest) (*dto.UserResponse, error)
	GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error)
	Logout(ctx context.Context, userID uint) error
}

type authService struct {
	users  repository.UserRepository
	hasher PasswordHasher
	tokens JWTService
	mail   mailer.Sender
	app    config.AppConfig
}

// NewAuthService wires the auth service dependencies
func NewAuthService(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens JWTService,
	mail mailer.Sender,
	app config.AppConfig,
) AuthService {
	return &authService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		mail:   mail,
		app:    app,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new account, stores the salted password hash,
// sends the confirmation email and signs the first session token.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.NewContext(ctx, "auth", "Register")
	email := normalizeEmail(req.Email)

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		logger.WarnWithContext(ctx, "Registration rejected, email already exists").Log()
		return nil, domainerrors.ErrEmailExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	hash, salt, err := s.hasher.HashPassword(req.Password)
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	confirmToken, err := GenerateSecureToken()
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}
	confirmExpiry := time.Now().Add(constants.ConfirmationTokenExpiryDays * 24 * time.Hour)

	user := &model.User{
		Email:                      email,
		FirstName:                  strings.TrimSpace(req.FirstName),
		LastName:                   strings.TrimSpace(req.LastName),
		PasswordHash:               hash,
		PasswordSalt:               salt,
		ConfirmationToken:          &confirmToken,
		ConfirmationTokenExpiresAt: &confirmExpiry,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	// Mail delivery failure must not roll back the registration; the
	// user can request a new confirmation email.
	if err := s.sendConfirmationEmail(ctx, user, confirmToken); err != nil {
		logger.WarnWithContext(ctx, "Failed to send confirmation email").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User registered").
		Int("user_id", int(user.ID)).
		Log()

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *toUserResponse(user),
	}, nil
}

// Login authenticates an account. An unknown email and a wrong password
// produce the same error.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	ctx = ctxutil.NewContext(ctx, "auth", "Login")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if !s.hasher.VerifyPassword(req.Password, user.PasswordHash, user.PasswordSalt) {
		logger.WarnWithContext(ctx, "Login failed").
			Int("user_id", int(user.ID)).
			Log()
		return nil, domainerrors.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateToken(user)
	if err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	now := time.Now()
	if err := s.users.UpdateLastAccess(ctx, user.ID, now); err != nil {
		logger.WarnWithContext(ctx, "Failed to update last access").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}
	user.LastAccessAt = &now

	logger.InfoWithContext(ctx, "User logged in").
		Int("user_id", int(user.ID)).
		Log()

	return &dto.AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      *toUserResponse(user),
	}, nil
}

// ConfirmEmail consumes a confirmation token. Unknown, already consumed
// and expired tokens are indistinguishable to the caller.
func (s *authService) ConfirmEmail(ctx context.Context, token string) error {
	ctx = ctxutil.NewContext(ctx, "auth", "ConfirmEmail")

	user, err := s.users.FindByConfirmationToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrInvalidOrExpiredToken
		}
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if !user.HasValidConfirmationToken(time.Now()) {
		return domainerrors.ErrInvalidOrExpiredToken
	}

	user.EmailConfirmed = true
	user.ConfirmationToken = nil
	user.ConfirmationTokenExpiresAt = nil

	if err := s.users.Update(ctx, user); err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Email confirmed").
		Int("user_id", int(user.ID)).
		Log()
	return nil
}

// ResendConfirmation issues a fresh confirmation token. To avoid account
// enumeration it reports success for unknown emails and for accounts
// that are already confirmed.
func (s *authService) ResendConfirmation(ctx context.Context, email string) error {
	ctx = ctxutil.NewContext(ctx, "auth", "ResendConfirmation")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if user.EmailConfirmed {
		return nil
	}

	token, err := GenerateSecureToken()
	if err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}
	expiry := time.Now().Add(constants.ConfirmationTokenExpiryDays * 24 * time.Hour)

	user.ConfirmationToken = &token
	user.ConfirmationTokenExpiresAt = &expiry

	if err := s.users.Update(ctx, user); err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if err := s.sendConfirmationEmail(ctx, user, token); err != nil {
		logger.WarnWithContext(ctx, "Failed to send confirmation email").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}
	return nil
}

// RequestPasswordRecovery starts the recovery flow. It always reports
// success, whether or not the email belongs to an account.
func (s *authService) RequestPasswordRecovery(ctx context.Context, email string) error {
	ctx = ctxutil.NewContext(ctx, "auth", "RequestPasswordRecovery")

	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logger.ErrorWithContext(ctx, "Recovery lookup failed").Err(err).Log()
		}
		return nil
	}

	token, err := GenerateSecureToken()
	if err != nil {
		logger.ErrorWithContext(ctx, "Failed to generate reset token").Err(err).Log()
		return nil
	}
	expiry := time.Now().Add(constants.ResetTokenExpiryHours * time.Hour)

	user.ResetToken = &token
	user.ResetTokenExpiresAt = &expiry

	if err := s.users.Update(ctx, user); err != nil {
		logger.ErrorWithContext(ctx, "Failed to store reset token").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
		return nil
	}

	if err := s.sendResetEmail(ctx, user, token); err != nil {
		logger.WarnWithContext(ctx, "Failed to send recovery email").
			Int("user_id", int(user.ID)).
			Err(err).
			Log()
	}

	logger.InfoWithContext(ctx, "Password recovery requested").
		Int("user_id", int(user.ID)).
		Log()
	return nil
}

// ResetPassword consumes a reset token and replaces the credential with
// a freshly salted hash.
func (s *authService) ResetPassword(ctx context.Context, req *dto.ResetPasswordRequest) error {
	ctx = ctxutil.NewContext(ctx, "auth", "ResetPassword")

	user, err := s.users.FindByResetToken(ctx, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrInvalidOrExpiredToken
		}
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if !user.HasValidResetToken(time.Now()) {
		return domainerrors.ErrInvalidOrExpiredToken
	}

	hash, salt, err := s.hasher.HashPassword(req.NewPassword)
	if err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	user.PasswordHash = hash
	user.PasswordSalt = salt
	user.ResetToken = nil
	user.ResetTokenExpiresAt = nil

	if err := s.users.Update(ctx, user); err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password reset completed").
		Int("user_id", int(user.ID)).
		Log()
	return nil
}

// ChangePassword replaces the credential for an authenticated user after
// verifying the current password.
func (s *authService) ChangePassword(ctx context.Context, userID uint, req *dto.ChangePasswordRequest) error {
	ctx = ctxutil.NewContext(ctx, "auth", "ChangePassword")

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domainerrors.ErrUserNotFound
		}
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	if !s.hasher.VerifyPassword(req.CurrentPassword, user.PasswordHash, user.PasswordSalt) {
		return domainerrors.ErrInvalidCredentials
	}

	hash, salt, err := s.hasher.HashPassword(req.NewPassword)
	if err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	user.PasswordHash = hash
	user.PasswordSalt = salt

	if err := s.users.Update(ctx, user); err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "Password changed").
		Int("user_id", int(user.ID)).
		Log()
	return nil
}

// EditProfile updates the account email and name. Changing the email to
// one owned by another account is rejected.
func (s *authService) EditProfile(ctx context.Context, userID uint, req *dto.EditProfileRequest) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "auth", "EditProfile")

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	email := normalizeEmail(req.Email)
	if email != user.Email {
		existing, err := s.users.FindByEmail(ctx, email)
		if err == nil && existing.ID != user.ID {
			return nil, domainerrors.ErrEmailExists
		}
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
		}
		user.Email = email
	}

	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)

	if err := s.users.Update(ctx, user); err != nil {
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// GetCurrentUser returns the authenticated account's profile
func (s *authService) GetCurrentUser(ctx context.Context, userID uint) (*dto.UserResponse, error) {
	ctx = ctxutil.NewContext(ctx, "auth", "GetCurrentUser")

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domainerrors.ErrUserNotFound
		}
		return nil, domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	return toUserResponse(user), nil
}

// Logout records the moment the session ended. The token itself stays
// valid until it expires; there is no server-side session store.
func (s *authService) Logout(ctx context.Context, userID uint) error {
	ctx = ctxutil.NewContext(ctx, "auth", "Logout")

	if err := s.users.UpdateLastAccess(ctx, userID, time.Now()); err != nil {
		return domainerrors.WrapError(domainerrors.ErrInternal, err)
	}

	logger.InfoWithContext(ctx, "User logged out").
		Int("user_id", int(userID)).
		Log()
	return nil
}

func (s *authService) sendConfirmationEmail(ctx context.Context, user *model.User, token string) error {
	link := fmt.Sprintf("%s/api/v1/auth/confirm-email?token=%s", s.app.BaseURL, token)
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Gracias por registrarte en %s. Confirma tu correo haciendo clic en el siguiente enlace:</p>
<p><a href="%s">Confirmar correo</a></p>
<p>El enlace caduca en %d días.</p>`,
		user.FirstName, s.app.Name, link, constants.ConfirmationTokenExpiryDays,
	)
	return s.mail.Send(ctx, user.Email, "Confirma tu correo", body)
}

func (s *authService) sendResetEmail(ctx context.Context, user *model.User, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", s.app.BaseURL, token)
	body := fmt.Sprintf(
		`<p>Hola %s,</p>
<p>Recibimos una solicitud para restablecer tu contraseña. Usa el siguiente enlace:</p>
<p><a href="%s">Restablecer contraseña</a></p>
<p>El enlace caduca en %d horas. Si no solicitaste este cambio, ignora este mensaje.</p>`,
		user.FirstName, link, constants.ResetTokenExpiryHours,
	)
	return s.mail.Send(ctx, user.Email, "Restablece tu contraseña", body)
}

func toUserResponse(user *model.User) *dto.UserResponse {
	return &dto.UserResponse{
		ID:             user.ID,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		DisplayName:    user.DisplayName(),
		EmailConfirmed: user.EmailConfirmed,
		LastAccessAt:   user.LastAccessAt,
		CreatedAt:      user.CreatedAt,
	}
}
