package service

import (
	"errors"
	"strings"
	"time"

	"filmoteka/internal/config"
	"filmoteka/internal/http-api/middleware/auth"
	"filmoteka/internal/http-api/models"
	"filmoteka/internal/http-api/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims is the payload of an access token. The API trusts these claims
// unconditionally once the signature checks out.
type Claims struct {
	UserID  string `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

type AuthService interface {
	Register(username, email, password string) (accessToken, refreshToken string, user *models.User, err error)
	Login(email, password string) (accessToken, refreshToken string, user *models.User, err error)
	LoginYandex(profile YandexProfile) (accessToken, refreshToken string, user *models.User, err error)
	RefreshAccessToken(refreshToken string) (newAccessToken string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

type authService struct {
	userRepo         repository.UserRepository
	refreshTokenRepo repository.RefreshTokenRepository
	jwtSecret        string
	accessTokenTTL   time.Duration
	refreshTokenTTL  time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	refreshTokenRepo repository.RefreshTokenRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:         userRepo,
		refreshTokenRepo: refreshTokenRepo,
		jwtSecret:        cfg.JWTSecret,
		accessTokenTTL:   cfg.AccessTokenTTL,
		refreshTokenTTL:  cfg.RefreshTokenTTL,
	}
}

// Register creates a password account. Emails already registered through
// Yandex must keep using Yandex sign-in.
func (s *authService) Register(username, email, password string) (string, string, *models.User, error) {
	if existing, err := s.userRepo.FindByEmail(email); err == nil {
		if existing.YandexID != nil || existing.Password == nil {
			return "", "", nil, ErrOAuthAccount
		}
		return "", "", nil, ErrEmailInUse
	}

	if !auth.IsStrongPassword(password) {
		return "", "", nil, ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(password)
	if err != nil {
		return "", "", nil, err
	}

	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: &hashedPassword,
	}

	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return "", "", nil, ErrEmailInUse
		}
		return "", "", nil, err
	}

	return s.issueTokens(user)
}

// Login authenticates a user and returns access and refresh tokens.
func (s *authService) Login(email, password string) (string, string, *models.User, error) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		// Dummy compare so unknown emails take as long as wrong passwords
		auth.VerifyPassword("$2a$10$7EqJtq98hPqEX7fNZaFWoOHi6VbU5h6K9v8u5rO0m3j0h6dX5r8e", password)
		return "", "", nil, ErrInvalidCredentials
	}

	if user.Password == nil || user.YandexID != nil {
		return "", "", nil, ErrOAuthAccount
	}

	if err := auth.VerifyPassword(*user.Password, password); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

// LoginYandex signs in with a verified Yandex profile: refresh an existing
// linked account, link by email, or create a fresh user.
func (s *authService) LoginYandex(profile YandexProfile) (string, string, *models.User, error) {
	if user, err := s.userRepo.FindByYandexID(profile.ID); err == nil {
		return s.issueTokens(user)
	}

	if existing, err := s.userRepo.FindByEmail(profile.Email); err == nil {
		if existing.YandexID != nil {
			return "", "", nil, ErrYandexAccountLinked
		}
		existing.YandexID = &profile.ID
		if profile.AvatarURL != "" && existing.ProfilePicture == nil {
			existing.ProfilePicture = &profile.AvatarURL
		}
		if err := s.userRepo.Update(existing); err != nil {
			return "", "", nil, err
		}
		return s.issueTokens(existing)
	}

	user := &models.User{
		ID:       uuid.New().String(),
		Username: strings.SplitN(profile.Email, "@", 2)[0],
		Email:    profile.Email,
		YandexID: &profile.ID,
	}
	if profile.AvatarURL != "" {
		user.ProfilePicture = &profile.AvatarURL
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return "", "", nil, ErrYandexAccountLinked
		}
		return "", "", nil, err
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *models.User) (string, string, *models.User, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return "", "", nil, err
	}

	refreshToken, err := s.generateRefreshToken(user)
	if err != nil {
		return "", "", nil, err
	}

	return accessToken, refreshToken, user, nil
}

func (s *authService) generateAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:  user.ID,
		Email:   user.Email,
		IsAdmin: user.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Subject:   user.ID,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

func (s *authService) generateRefreshToken(user *models.User) (string, error) {
	refreshToken := &models.RefreshToken{
		ID:        uuid.New().String(),
		UserID:    user.ID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(s.refreshTokenTTL),
	}

	if err := s.refreshTokenRepo.Create(refreshToken); err != nil {
		return "", err
	}

	return refreshToken.Token, nil
}

func (s *authService) RefreshAccessToken(refreshTokenString string) (string, error) {
	refreshToken, err := s.refreshTokenRepo.FindByToken(refreshTokenString)
	if err != nil {
		return "", ErrInvalidToken
	}

	if refreshToken.Revoked {
		return "", ErrInvalidToken
	}

	if time.Now().After(refreshToken.ExpiresAt) {
		s.refreshTokenRepo.Delete(refreshToken.ID)
		return "", errors.New("refresh token expired")
	}

	user, err := s.userRepo.FindByID(refreshToken.UserID)
	if err != nil {
		return "", err
	}

	return s.generateAccessToken(user)
}

func (s *authService) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.jwtSecret), nil
	})

	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
