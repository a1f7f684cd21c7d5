package profileservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент для работы с ProfileService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента ProfileService
// Пустой baseURL означает, что интеграция выключена и все вызовы деградируют.
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Enabled сообщает, настроен ли адрес ProfileService
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// GetProfile получает профиль пользователя
func (c *Client) GetProfile(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("%w: base url is not configured", ErrInternal)
	}

	url := fmt.Sprintf("%s/internal/users/%s/profile", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid user ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrProfileNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &profile, nil
}

// GetProfileWithGracefulDegradation получает профиль с graceful degradation
// Отсутствующий профиль пробрасывается как ErrProfileNotFound, любые другие сбои превращаются в ErrServiceDegraded.
func (c *Client) GetProfileWithGracefulDegradation(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	profile, err := c.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			c.log.Info("No profile found for user_id=%s", userID)
			return nil, err
		}

		c.log.Error("ProfileService unavailable, applying graceful degradation for user_id=%s: %v", userID, err)
		return nil, fmt.Errorf("%w: user_id=%s, error=%v", ErrServiceDegraded, userID, err)
	}

	return profile, nil
}

// GetDisplayNames получает имена для набора пользователей
// Пользователи без профиля пропускаются; при деградации сервиса возвращается то, что успели собрать.
func (c *Client) GetDisplayNames(ctx context.Context, userIDs []uuid.UUID) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(userIDs))
	if !c.Enabled() {
		return names
	}

	for _, id := range userIDs {
		if _, ok := names[id]; ok {
			continue
		}
		profile, err := c.GetProfileWithGracefulDegradation(ctx, id)
		if errors.Is(err, ErrServiceDegraded) {
			c.log.Warn("GetDisplayNames: stopping after degradation, resolved %d of %d", len(names), len(userIDs))
			return names
		}
		if err != nil {
			continue
		}
		names[id] = profile.FullName
	}

	return names
}
