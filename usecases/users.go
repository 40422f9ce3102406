package usecases

import (
	"errors"
	"fmt"
	"time"

	"chat-api/apperrors"
	"chat-api/auth"
	"chat-api/confs"
	"chat-api/entities"
	"chat-api/repositories"
	"chat-api/services"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const verificationTokenTTL = 24 * time.Hour

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type UserUseCase struct {
	users  repositories.UserRepository
	mailer services.Mailer
	cfg    *confs.Config
	logger *zap.Logger
}

func NewUserUseCase(users repositories.UserRepository, mailer services.Mailer, cfg *confs.Config, logger *zap.Logger) *UserUseCase {
	return &UserUseCase{
		users:  users,
		mailer: mailer,
		cfg:    cfg,
		logger: logger,
	}
}

// Register creates a native user and emails a verification link. Duplicate
// username or email fails with a conflict.
func (uc *UserUseCase) Register(username, email, password string) (*entities.User, error) {
	if username == "" || email == "" || password == "" {
		return nil, apperrors.InvalidArg("username, email and password are required")
	}

	_, err := uc.users.GetByNameOrEmail(username, email)
	if err == nil {
		return nil, apperrors.ErrUserExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "database error", err)
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}

	user := &entities.User{Name: username, Email: email, Password: hashed}
	if err := uc.users.Create(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}

	token, err := auth.CreateToken(user.Email, []byte(uc.cfg.SecretKey), verificationTokenTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to create verification token", err)
	}
	link := fmt.Sprintf("%s/verify?access_token=%s", uc.cfg.HostURL, token)
	if err := uc.mailer.Send(user.Email, "Verify your account", link); err != nil {
		// Registration stands even if the mail bounces; the user can ask
		// for a new link by registering support contact.
		uc.logger.Error("failed to send verification email", zap.String("email", user.Email), zap.Error(err))
	}

	return user, nil
}

// Verify consumes a verification token and marks the user verified.
func (uc *UserUseCase) Verify(token string) error {
	email, err := auth.ParseToken(token, []byte(uc.cfg.SecretKey))
	if err != nil {
		return err
	}
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return orNotFound(err, apperrors.ErrUserNotFound)
	}
	if user.IsVerified {
		return nil
	}
	user.IsVerified = true
	if err := uc.users.Update(user); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to verify user", err)
	}
	return nil
}

// Login checks credentials and issues an access/refresh token pair. The
// refresh token is persisted so it can be matched on refresh.
func (uc *UserUseCase) Login(username, password string) (*TokenPair, error) {
	user, err := uc.users.GetByName(username)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrBadCredentials)
	}

	if !user.IsVerified {
		return nil, apperrors.ErrNotVerified
	}

	if !auth.VerifyPassword(password, user.Password) {
		return nil, apperrors.ErrBadCredentials
	}

	return uc.issueTokens(user)
}

// Refresh exchanges a valid refresh token for a new access token. The token
// must match the one stored for the user.
func (uc *UserUseCase) Refresh(refreshToken string) (string, error) {
	username, err := auth.ParseToken(refreshToken, []byte(uc.cfg.SecretKey))
	if err != nil {
		return "", err
	}

	user, err := uc.users.GetByName(username)
	if err != nil {
		return "", orNotFound(err, apperrors.ErrBadToken)
	}
	if user.RefreshToken != refreshToken {
		return "", apperrors.ErrBadToken
	}

	return auth.CreateToken(username, []byte(uc.cfg.SecretKey), auth.AccessTokenTTL)
}

// CurrentUser resolves a bearer access token to its user.
func (uc *UserUseCase) CurrentUser(token string) (*entities.User, error) {
	username, err := auth.ParseToken(token, []byte(uc.cfg.SecretKey))
	if err != nil {
		return nil, err
	}
	user, err := uc.users.GetByName(username)
	if err != nil {
		return nil, orNotFound(err, apperrors.ErrUserNotFound)
	}
	return user, nil
}

// OAuthLogin completes a federated login. An unseen email gets a new user
// row; a seen one is reported as already registered (existed=true, no
// tokens).
func (uc *UserUseCase) OAuthLogin(email string) (*TokenPair, bool, error) {
	_, err := uc.users.GetByEmail(email)
	if err == nil {
		return nil, true, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "database error", err)
	}

	user := &entities.User{Name: email, Email: email, Source: entities.SourceGoogle, IsVerified: true}
	if err := uc.users.Create(user); err != nil {
		return nil, false, apperrors.Wrap(apperrors.CodeInternal, "failed to create user", err)
	}

	tokens, err := uc.issueTokens(user)
	if err != nil {
		return nil, false, err
	}
	return tokens, false, nil
}

// ForgotPassword stores a reset token and mails the reset link.
func (uc *UserUseCase) ForgotPassword(email string) error {
	user, err := uc.users.GetByEmail(email)
	if err != nil {
		return orNotFound(err, apperrors.NotFound("User not found with that email"))
	}

	user.ResetToken = uuid.New().String()
	if err := uc.users.Update(user); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to store reset token", err)
	}

	link := fmt.Sprintf("%s/reset_password?token=%s", uc.cfg.HostURL, user.ResetToken)
	if err := uc.mailer.Send(user.Email, "Reset your password", link); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to send reset email", err)
	}
	return nil
}

// ResetPassword consumes a reset token and replaces the password hash.
func (uc *UserUseCase) ResetPassword(token, newPassword string) error {
	if token == "" || newPassword == "" {
		return apperrors.InvalidArg("token and new_password are required")
	}

	user, err := uc.users.GetByResetToken(token)
	if err != nil {
		return orNotFound(err, apperrors.ErrBadResetToken)
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to hash password", err)
	}
	user.Password = hashed
	user.ResetToken = ""
	if err := uc.users.Update(user); err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, "failed to update password", err)
	}
	return nil
}

func (uc *UserUseCase) issueTokens(user *entities.User) (*TokenPair, error) {
	secret := []byte(uc.cfg.SecretKey)
	accessToken, err := auth.CreateToken(user.Name, secret, auth.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to sign access token", err)
	}
	refreshToken, err := auth.CreateToken(user.Name, secret, auth.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to sign refresh token", err)
	}

	user.RefreshToken = refreshToken
	if err := uc.users.Update(user); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, "failed to store refresh token", err)
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken, TokenType: "bearer"}, nil
}
