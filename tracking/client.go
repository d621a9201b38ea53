package tracking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// FallbackProviderMessage dipakai bila provider tidak mengirim pesan error.
const FallbackProviderMessage = "Gagal mengambil data pelacakan"

var ErrProvider = errors.New("tracking provider error")

// ProviderError membawa pesan error dari provider agar bisa diteruskan ke pelanggan.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return ErrProvider
}

// Result adalah respons mentah provider sebelum history dinormalisasi.
type Result struct {
	Status      string           `json:"status"`
	Message     string           `json:"message"`
	Destination any              `json:"destination"`
	History     []map[string]any `json:"history"`
}

// Provider dipisah dari Client supaya service bisa dites tanpa HTTP.
type Provider interface {
	Track(ctx context.Context, waybill string, courier Courier) (*Result, error)
}

// Client adalah klien HTTP untuk API tracking Biteship.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *Client) Track(ctx context.Context, waybill string, courier Courier) (*Result, error) {
	endpoint := fmt.Sprintf("%s/v1/trackings/%s/couriers/%s",
		c.baseURL, url.PathEscape(waybill), url.PathEscape(string(courier)))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build tracking request: %w", err)
	}
	req.Header.Set("Authorization", c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ProviderError{StatusCode: http.StatusBadGateway, Message: FallbackProviderMessage}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: FallbackProviderMessage}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(body)}
	}

	var result Result
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: FallbackProviderMessage}
	}
	return &result, nil
}

func providerMessage(body []byte) string {
	var payload struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return FallbackProviderMessage
	}
	if s, ok := payload.Error.(string); ok && strings.TrimSpace(s) != "" {
		return s
	}
	if strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return FallbackProviderMessage
}
