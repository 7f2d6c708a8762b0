package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// YandexProfile is the subset of the Yandex ID userinfo payload we need.
type YandexProfile struct {
	ID        int64
	Email     string
	AvatarURL string
}

// YandexAuthService exchanges a client-side OAuth token for the user's
// profile. The token is sent straight to Yandex over TLS, so the response is
// trusted as-is.
type YandexAuthService struct {
	infoURL    string
	httpClient *http.Client
}

func NewYandexAuthService(infoURL string) *YandexAuthService {
	return &YandexAuthService{
		infoURL: infoURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type yandexInfoResponse struct {
	ID              string `json:"id"`
	DefaultEmail    string `json:"default_email"`
	DefaultAvatarID string `json:"default_avatar_id"`
	Login           string `json:"login"`
}

// FetchProfile resolves an OAuth token into a YandexProfile via
// login.yandex.ru/info.
func (s *YandexAuthService) FetchProfile(ctx context.Context, oauthToken string) (*YandexProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.infoURL+"?format=json", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "OAuth "+oauthToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yandex userinfo: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: invalid OAuth token", ErrInvalidArgument)
	}

	var info yandexInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode yandex userinfo: %w", err)
	}

	uid, err := strconv.ParseInt(info.ID, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed yandex uid %q", ErrInvalidArgument, info.ID)
	}
	if info.DefaultEmail == "" {
		return nil, fmt.Errorf("%w: yandex profile has no email", ErrInvalidArgument)
	}

	profile := &YandexProfile{
		ID:    uid,
		Email: info.DefaultEmail,
	}
	if info.DefaultAvatarID != "" {
		profile.AvatarURL = "https://avatars.yandex.net/get-yapic/" + info.DefaultAvatarID
	}
	return profile, nil
}
