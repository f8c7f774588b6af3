package graph

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/domain"
)

// Запас до истечения токена: токен считается невалидным за 300 секунд
// до фактического истечения, чтобы длинный прогон не споткнулся о границу.
const tokenSafetyMargin = 300 * time.Second

const defaultScope = "https://graph.microsoft.com/.default"

// TokenBroker владеет жизненным циклом bearer-токена Graph API:
// получение по client credentials, проверка срока, принудительный сброс
// при наблюдаемом 401. Движок однопоточный, блокировки не нужны.
type TokenBroker struct {
	httpClient   *http.Client
	tokenURL     string
	clientID     string
	clientSecret string
	scope        string
	logger       *logrus.Logger

	token     string
	expiresAt time.Time
	now       func() time.Time
}

// NewTokenBroker создает брокер токенов для одного прогона.
func NewTokenBroker(tokenURL, clientID, clientSecret string, logger *logrus.Logger) *TokenBroker {
	return &TokenBroker{
		httpClient:   &http.Client{Timeout: 30 * time.Second},
		tokenURL:     tokenURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		scope:        defaultScope,
		logger:       logger,
		now:          time.Now,
	}
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

// Acquire выполняет обмен client credentials на токен.
func (b *TokenBroker) Acquire(ctx context.Context) error {
	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {b.clientID},
		"client_secret": {b.clientSecret},
		"scope":         {b.scope},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		b.token = ""
		return fmt.Errorf("%w: %v", domain.ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b.token = ""
		return fmt.Errorf("%w: token endpoint returned status %d", domain.ErrAuthFailed, resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		b.token = ""
		return fmt.Errorf("%w: decoding token response: %v", domain.ErrAuthFailed, err)
	}
	if tr.AccessToken == "" {
		b.token = ""
		return fmt.Errorf("%w: token endpoint returned an empty token", domain.ErrAuthFailed)
	}

	b.token = tr.AccessToken
	b.expiresAt = b.now().Add(time.Duration(tr.ExpiresIn)*time.Second - tokenSafetyMargin)

	b.logger.WithField("expires_at", b.expiresAt).Info("Access token acquired")

	return nil
}

// EnsureValid повторно получает токен, если он отсутствует или просрочен.
func (b *TokenBroker) EnsureValid(ctx context.Context) error {
	if b.token != "" && b.now().Before(b.expiresAt) {
		return nil
	}
	return b.Acquire(ctx)
}

// Invalidate сбрасывает токен после наблюдаемого 401, независимо от срока.
func (b *TokenBroker) Invalidate() {
	b.token = ""
	b.expiresAt = time.Time{}
}

// Token возвращает текущее значение токена.
func (b *TokenBroker) Token() string {
	return b.token
}
