package service

import (
	"testing"
	"time"

	"filmoteka/internal/config"
	"filmoteka/internal/http-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func testAuthConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	}
}

func TestRegister_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, user, err := authService.Register("testuser", "test@example.com", "Passw0rd!")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "testuser", user.Username)
	assert.NotNil(t, user.Password)
	assert.NotEqual(t, "Passw0rd!", *user.Password)
	mockUserRepo.AssertExpectations(t)
}

func TestRegister_UsernameDefaultsToEmailLocalPart(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByEmail", "viewer@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, user, err := authService.Register("", "viewer@example.com", "Passw0rd!")

	assert.NoError(t, err)
	assert.Equal(t, "viewer", user.Username)
}

func TestRegister_EmailExists(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	hash := "$2a$10$abcdefghijklmnopqrstuv"
	mockUserRepo.On("FindByEmail", "test@example.com").Return(&models.User{Email: "test@example.com", Password: &hash}, nil)

	_, _, user, err := authService.Register("testuser", "test@example.com", "Passw0rd!")

	assert.ErrorIs(t, err, ErrAlreadyExists)
	assert.Nil(t, user)
}

func TestRegister_OAuthAccountRejected(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	yandexID := int64(42)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(&models.User{Email: "test@example.com", YandexID: &yandexID}, nil)

	_, _, _, err := authService.Register("testuser", "test@example.com", "Passw0rd!")

	assert.Equal(t, ErrOAuthAccount, err)
}

func TestRegister_WeakPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Register("testuser", "test@example.com", "short")

	assert.ErrorIs(t, err, ErrInvalidArgument)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLogin_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	// Real hash of "Passw0rd!" would be unstable to embed; register first
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)
	_, _, registered, err := authService.Register("testuser", "test@example.com", "Passw0rd!")
	assert.NoError(t, err)

	mockUserRepo.On("FindByEmail", "test@example.com").Return(registered, nil)

	accessToken, refreshToken, user, err := authService.Login("test@example.com", "Passw0rd!")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, registered.ID, user.ID)
}

func TestLogin_WrongPassword(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound).Once()
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)
	_, _, registered, err := authService.Register("testuser", "test@example.com", "Passw0rd!")
	assert.NoError(t, err)

	mockUserRepo.On("FindByEmail", "test@example.com").Return(registered, nil)

	_, _, _, err = authService.Login("test@example.com", "wrongpassword")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_UnknownEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	mockUserRepo.On("FindByEmail", "nobody@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := authService.Login("nobody@example.com", "Passw0rd!")

	assert.Equal(t, ErrInvalidCredentials, err)
}

func TestLogin_OAuthAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	authService := NewAuthService(mockUserRepo, new(MockRefreshTokenRepository), testAuthConfig())

	yandexID := int64(42)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(&models.User{YandexID: &yandexID}, nil)

	_, _, _, err := authService.Login("test@example.com", "Passw0rd!")

	assert.Equal(t, ErrOAuthAccount, err)
}

func TestLoginYandex_ExistingLinkedAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	yandexID := int64(42)
	linked := &models.User{ID: "user-1", Email: "test@example.com", YandexID: &yandexID}
	mockUserRepo.On("FindByYandexID", int64(42)).Return(linked, nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, user, err := authService.LoginYandex(YandexProfile{ID: 42, Email: "test@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	mockUserRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestLoginYandex_LinksByEmail(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	hash := "$2a$10$abcdefghijklmnopqrstuv"
	existing := &models.User{ID: "user-1", Email: "test@example.com", Password: &hash}
	mockUserRepo.On("FindByYandexID", int64(42)).Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(existing, nil)
	mockUserRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, user, err := authService.LoginYandex(YandexProfile{ID: 42, Email: "test@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, int64(42), *user.YandexID)
	mockUserRepo.AssertExpectations(t)
}

func TestLoginYandex_CreatesNewAccount(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByYandexID", int64(42)).Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("FindByEmail", "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	_, _, user, err := authService.LoginYandex(YandexProfile{ID: 42, Email: "new@example.com", AvatarURL: "https://avatars.yandex.net/get-yapic/abc"})

	assert.NoError(t, err)
	assert.Equal(t, "new", user.Username)
	assert.Nil(t, user.Password)
	assert.Equal(t, "https://avatars.yandex.net/get-yapic/abc", *user.ProfilePicture)
}

func TestRefreshAccessToken_Success(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{
		ID:        "token-1",
		UserID:    "user-1",
		Token:     "refresh-token-value",
		ExpiresAt: time.Now().Add(time.Hour),
	}
	mockRefreshTokenRepo.On("FindByToken", "refresh-token-value").Return(stored, nil)
	mockUserRepo.On("FindByID", "user-1").Return(&models.User{ID: "user-1", Email: "test@example.com"}, nil)

	accessToken, err := authService.RefreshAccessToken("refresh-token-value")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
}

func TestRefreshAccessToken_Revoked(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{ID: "token-1", UserID: "user-1", Token: "t", ExpiresAt: time.Now().Add(time.Hour), Revoked: true}
	mockRefreshTokenRepo.On("FindByToken", "t").Return(stored, nil)

	_, err := authService.RefreshAccessToken("t")

	assert.Equal(t, ErrInvalidToken, err)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(new(MockUserRepository), mockRefreshTokenRepo, testAuthConfig())

	stored := &models.RefreshToken{ID: "token-1", UserID: "user-1", Token: "t", ExpiresAt: time.Now().Add(-time.Hour)}
	mockRefreshTokenRepo.On("FindByToken", "t").Return(stored, nil)
	mockRefreshTokenRepo.On("Delete", "token-1").Return(nil)

	_, err := authService.RefreshAccessToken("t")

	assert.Error(t, err)
	mockRefreshTokenRepo.AssertCalled(t, "Delete", "token-1")
}

func TestValidateToken_RoundTrip(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	authService := NewAuthService(mockUserRepo, mockRefreshTokenRepo, testAuthConfig())

	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, _, user, err := authService.Register("testuser", "test@example.com", "Passw0rd!")
	assert.NoError(t, err)

	claims, err := authService.ValidateToken(accessToken)

	assert.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.False(t, claims.IsAdmin)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	mockUserRepo := new(MockUserRepository)
	mockRefreshTokenRepo := new(MockRefreshTokenRepository)
	mockUserRepo.On("FindByEmail", "test@example.com").Return(nil, gorm.ErrRecordNotFound)
	mockUserRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)
	mockRefreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	issuer := NewAuthService(mockUserRepo, mockRefreshTokenRepo, &config.Config{
		JWTSecret:      "different-secret",
		AccessTokenTTL: 15 * time.Minute,
	})
	accessToken, _, _, err := issuer.Register("testuser", "test@example.com", "Passw0rd!")
	assert.NoError(t, err)

	verifier := NewAuthService(new(MockUserRepository), new(MockRefreshTokenRepository), testAuthConfig())

	_, err = verifier.ValidateToken(accessToken)
	assert.Error(t, err)
}
