package catalogservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonScheduler/internal/domain"
)

// Client клиент для работы с каталогом салонов и услуг
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента каталога
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetSalon получает салон по ID
func (c *Client) GetSalon(ctx context.Context, salonID int64) (*domain.Salon, error) {
	endpoint := fmt.Sprintf("%s/internal/salons/%d", c.baseURL, salonID)

	var salon Salon
	if err := c.get(ctx, endpoint, ErrSalonNotFound, &salon); err != nil {
		return nil, err
	}

	return salon.ToDomain(), nil
}

// GetServices получает услуги по списку ID
// Порядок результата совпадает с порядком ids, отсутствие любой услуги дает ErrServiceNotFound
func (c *Client) GetServices(ctx context.Context, ids []int64) ([]domain.Service, error) {
	if len(ids) == 0 {
		return []domain.Service{}, nil
	}

	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}

	query := url.Values{}
	query.Set("ids", strings.Join(parts, ","))
	endpoint := fmt.Sprintf("%s/internal/services?%s", c.baseURL, query.Encode())

	var list ServiceListResponse
	if err := c.get(ctx, endpoint, ErrServiceNotFound, &list); err != nil {
		return nil, err
	}

	byID := make(map[int64]Service, len(list.Services))
	for _, s := range list.Services {
		byID[s.ID] = s
	}

	services := make([]domain.Service, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			c.log.Warn("GetServices: service id=%d missing in catalog response", id)
			return nil, fmt.Errorf("%w: id=%d", ErrServiceNotFound, id)
		}
		service, err := s.ToDomain()
		if err != nil {
			c.log.Error("GetServices: %v", err)
			return nil, err
		}
		services = append(services, service)
	}

	return services, nil
}

// get выполняет GET запрос и декодирует JSON ответ в out, на 404 возвращает notFound
func (c *Client) get(ctx context.Context, endpoint string, notFound error, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return fmt.Errorf("%w: bad request", ErrInvalidResponse)
	case http.StatusNotFound:
		return notFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return nil
}
