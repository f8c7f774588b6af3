package graph

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"

	"m365-admin-service/internal/config"
)

const (
	transientRetries = 2 // всего до 3 попыток на временные сбои
	retryDelay       = 2 * time.Second
)

// StatusError представляет неуспешный ответ Graph API.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("graph: status %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("graph: status %d", e.StatusCode)
}

// IsStatus сообщает, является ли ошибка ответом Graph с данным статусом.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client выполняет запросы к Graph API. Каждый вызов проходит через
// проверку токена; на 401 токен сбрасывается и вызов повторяется один раз;
// сетевые сбои и 5xx повторяются с фиксированной задержкой.
type Client struct {
	httpClient *http.Client
	broker     *TokenBroker
	endpoint   string
	logger     *logrus.Logger
}

// NewClient создает клиент Graph API по конфигурации сервиса.
func NewClient(cfg config.Config, logger *logrus.Logger) *Client {
	broker := NewTokenBroker(cfg.TokenURL(), cfg.ClientID, cfg.ClientSecret, logger)

	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		broker:     broker,
		endpoint:   strings.TrimRight(cfg.GraphEndpoint, "/"),
		logger:     logger,
	}
}

// Broker возвращает брокер токенов клиента.
func (c *Client) Broker() *TokenBroker {
	return c.broker
}

// URL строит абсолютный адрес ресурса Graph из пути и query-строки.
func (c *Client) URL(path, query string) string {
	u := c.endpoint + path
	if query != "" {
		u += "?" + query
	}
	return u
}

// Get выполняет GET и декодирует успешный ответ в out.
func (c *Client) Get(ctx context.Context, url string, out any) error {
	return c.do(ctx, http.MethodGet, url, nil, out)
}

// Post выполняет POST с JSON-телом.
func (c *Client) Post(ctx context.Context, url string, body, out any) error {
	return c.do(ctx, http.MethodPost, url, body, out)
}

// Patch выполняет PATCH с JSON-телом.
func (c *Client) Patch(ctx context.Context, url string, body any) error {
	return c.do(ctx, http.MethodPatch, url, body, nil)
}

// Delete выполняет DELETE.
func (c *Client) Delete(ctx context.Context, url string) error {
	return c.do(ctx, http.MethodDelete, url, nil, nil)
}

func (c *Client) do(ctx context.Context, method, url string, body, out any) error {
	var payload []byte

	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
	}

	// Один повтор на 401: сброс токена, новое получение, тот же вызов.
	for reauth := 0; ; reauth++ {
		if err := c.broker.EnsureValid(ctx); err != nil {
			return err
		}

		status, respBody, err := c.roundTrip(ctx, method, url, payload)
		if err != nil {
			return err
		}

		if status == http.StatusUnauthorized && reauth == 0 {
			c.logger.WithField("url", url).Warn("Unauthorized response, invalidating token and retrying")
			c.broker.Invalidate()
			continue
		}

		return decodeResponse(status, respBody, out)
	}
}

// roundTrip выполняет один логический вызов с повтором временных сбоев.
func (c *Client) roundTrip(ctx context.Context, method, url string, payload []byte) (int, []byte, error) {
	var (
		status   int
		respBody []byte
	)

	backoff := retry.WithMaxRetries(transientRetries, retry.NewConstant(retryDelay))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reader)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.broker.Token())
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return retry.RetryableError(err)
		}

		if resp.StatusCode >= 500 {
			return retry.RetryableError(newStatusError(resp.StatusCode, data))
		}

		status = resp.StatusCode
		respBody = data

		return nil
	})
	if err != nil {
		return 0, nil, fmt.Errorf("%s %s: %w", method, url, err)
	}

	return status, respBody, nil
}

func decodeResponse(status int, body []byte, out any) error {
	if status >= 200 && status < 300 {
		if out != nil && len(body) > 0 {
			if err := json.Unmarshal(body, out); err != nil {
				return fmt.Errorf("decoding response: %w", err)
			}
		}
		return nil
	}

	return newStatusError(status, body)
}

func newStatusError(status int, body []byte) *StatusError {
	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	_ = json.Unmarshal(body, &payload)

	return &StatusError{
		StatusCode: status,
		Code:       payload.Error.Code,
		Message:    payload.Error.Message,
	}
}
