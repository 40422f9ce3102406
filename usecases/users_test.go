package usecases

import (
	"regexp"
	"testing"

	"chat-api/apperrors"
	"chat-api/confs"
	"chat-api/db"
	"chat-api/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeMailer struct {
	to      []string
	subject []string
	body    []string
}

func (m *fakeMailer) Send(to, subject, body string) error {
	m.to = append(m.to, to)
	m.subject = append(m.subject, subject)
	m.body = append(m.body, body)
	return nil
}

func openTestDB(t *testing.T) db.Database {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() { sqlDB.Close() })

	return &db.GormDatabase{DB: gormDB}
}

func newUserUseCase(t *testing.T) (*UserUseCase, *fakeMailer) {
	t.Helper()

	database := openTestDB(t)
	mailer := &fakeMailer{}
	cfg := &confs.Config{
		SecretKey: "test-secret",
		HostURL:   "http://localhost:8000",
	}
	uc := NewUserUseCase(repositories.NewUserPgRepository(database), mailer, cfg, zap.NewNop())
	return uc, mailer
}

func TestRegister_DuplicateUsernameOrEmail(t *testing.T) {
	uc, _ := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)

	_, err = uc.Register("john", "other@example.com", "password123")
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))

	_, err = uc.Register("other", "john@example.com", "password123")
	assert.Equal(t, apperrors.CodeDuplicate, apperrors.CodeOf(err))
}

func TestRegister_SendsVerificationEmail(t *testing.T) {
	uc, mailer := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)

	require.Len(t, mailer.to, 1)
	assert.Equal(t, "john@example.com", mailer.to[0])
	assert.Contains(t, mailer.body[0], "/verify?access_token=")
}

func TestLogin_UnverifiedRejectedEvenWithCorrectPassword(t *testing.T) {
	uc, _ := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)

	_, err = uc.Login("john", "password123")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func verifyFromMail(t *testing.T, uc *UserUseCase, mailer *fakeMailer) {
	t.Helper()

	require.NotEmpty(t, mailer.body)
	m := regexp.MustCompile(`access_token=(\S+)`).FindStringSubmatch(mailer.body[len(mailer.body)-1])
	require.Len(t, m, 2)
	require.NoError(t, uc.Verify(m[1]))
}

func TestLogin_VerifiedUserGetsTokenPair(t *testing.T) {
	uc, mailer := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)
	verifyFromMail(t, uc, mailer)

	tokens, err := uc.Login("john", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	assert.Equal(t, "bearer", tokens.TokenType)

	_, err = uc.Login("john", "wrong-password")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	_, err = uc.Login("nobody", "password123")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestRefresh(t *testing.T) {
	uc, mailer := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)
	verifyFromMail(t, uc, mailer)

	tokens, err := uc.Login("john", "password123")
	require.NoError(t, err)

	access, err := uc.Refresh(tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// An access token is a valid JWT but does not match the stored
	// refresh token.
	_, err = uc.Refresh(tokens.AccessToken)
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestCurrentUser(t *testing.T) {
	uc, mailer := newUserUseCase(t)

	registered, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)
	verifyFromMail(t, uc, mailer)

	tokens, err := uc.Login("john", "password123")
	require.NoError(t, err)

	user, err := uc.CurrentUser(tokens.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = uc.CurrentUser("garbage")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))
}

func TestForgotAndResetPassword(t *testing.T) {
	uc, mailer := newUserUseCase(t)

	_, err := uc.Register("john", "john@example.com", "password123")
	require.NoError(t, err)
	verifyFromMail(t, uc, mailer)

	require.NoError(t, uc.ForgotPassword("john@example.com"))

	m := regexp.MustCompile(`token=(\S+)`).FindStringSubmatch(mailer.body[len(mailer.body)-1])
	require.Len(t, m, 2)

	require.NoError(t, uc.ResetPassword(m[1], "newPassword123"))

	_, err = uc.Login("john", "password123")
	assert.Equal(t, apperrors.CodeUnauthorized, apperrors.CodeOf(err))

	tokens, err := uc.Login("john", "newPassword123")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)

	// Reset tokens are single use.
	err = uc.ResetPassword(m[1], "anotherPassword")
	assert.Equal(t, apperrors.CodeInvalidArgument, apperrors.CodeOf(err))
}

func TestOAuthLogin(t *testing.T) {
	uc, _ := newUserUseCase(t)

	tokens, existed, err := uc.OAuthLogin("fed@example.com")
	require.NoError(t, err)
	assert.False(t, existed)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, tokens.AccessToken)

	again, existed, err := uc.OAuthLogin("fed@example.com")
	require.NoError(t, err)
	assert.True(t, existed)
	assert.Nil(t, again)
}
