package addressservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client клиент сервиса профилей для проверки адресов очных визитов
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetAddress получает адрес addressID, принадлежащий пользователю ownerID
func (c *Client) GetAddress(ctx context.Context, addressID, ownerID int64) (*Address, error) {
	url := fmt.Sprintf("%s/internal/users/%d/addresses/%d", c.baseURL, ownerID, addressID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound, http.StatusForbidden:
		return nil, ErrAddressNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var address Address
	if err := json.NewDecoder(resp.Body).Decode(&address); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	// Сервис мог вернуть чужой адрес при ошибке маршрутизации
	if address.UserID != ownerID {
		return nil, ErrAddressNotFound
	}

	return &address, nil
}

// Resolve проверяет, что адрес существует и принадлежит пользователю
func (c *Client) Resolve(ctx context.Context, addressID, ownerID int64) error {
	if _, err := c.GetAddress(ctx, addressID, ownerID); err != nil {
		if errors.Is(err, ErrAddressNotFound) {
			c.log.Info("Address id=%d not found for user id=%d", addressID, ownerID)
			return err
		}
		c.log.Error("Address service failed for address id=%d, user id=%d: %v", addressID, ownerID, err)
		return err
	}
	return nil
}

// Unconfigured резолвер без сервиса профилей: принадлежность адреса проверить нельзя,
// поэтому любой адрес отклоняется с ErrNotConfigured.
type Unconfigured struct{}

func (Unconfigured) Resolve(context.Context, int64, int64) error {
	return ErrNotConfigured
}
