package card

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

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ErrMissingAPIKey indicates that the client was configured without credentials.
var ErrMissingAPIKey = errors.New("card: api key is required")

// Intent statuses reported by the processor. Only succeeded authorizes
// recording a completed donation.
const (
	StatusRequiresConfirmation = "requires_confirmation"
	StatusProcessing           = "processing"
	StatusSucceeded            = "succeeded"
	StatusFailed               = "failed"
)

// Intent is the processor-side payment object tracked across the
// create/confirm/status calls.
type Intent struct {
	ID           string          `json:"id"`
	Status       string          `json:"status"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	ClientSecret string          `json:"client_secret,omitempty"`
}

// PaymentAuthority is the capability the donation flow needs from a card
// payment processor.
type PaymentAuthority interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error)
	ConfirmIntent(ctx context.Context, intentID, methodToken string) (*Intent, error)
	GetStatus(ctx context.Context, intentID string) (*Intent, error)
}

// Options configures the processor client.
type Options struct {
	APIKey         string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client performs HTTP calls against the card processor's intent API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

type createIntentRequest struct {
	Amount   string            `json:"amount"`
	Currency string            `json:"currency"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type confirmIntentRequest struct {
	PaymentMethod string `json:"payment_method"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://api.payments.example.com/v1"
	}
	return &Client{
		apiKey:     opts.APIKey,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// CreateIntent registers a pending payment for the given amount.
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*Intent, error) {
	body := createIntentRequest{Amount: amount.StringFixed(2), Currency: currency, Metadata: metadata}
	return c.do(ctx, http.MethodPost, "/payment_intents", body)
}

// ConfirmIntent attaches a payment method token and asks the processor to
// capture the payment.
func (c *Client) ConfirmIntent(ctx context.Context, intentID, methodToken string) (*Intent, error) {
	body := confirmIntentRequest{PaymentMethod: methodToken}
	return c.do(ctx, http.MethodPost, "/payment_intents/"+intentID+"/confirm", body)
}

// GetStatus fetches the current intent state.
func (c *Client) GetStatus(ctx context.Context, intentID string) (*Intent, error) {
	return c.do(ctx, http.MethodGet, "/payment_intents/"+intentID, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*Intent, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("card: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("card: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("card: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("card: read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr errorResponse
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return nil, fmt.Errorf("card: %s (%s)", apiErr.Error.Message, apiErr.Error.Code)
		}
		return nil, fmt.Errorf("card: unexpected status %d", resp.StatusCode)
	}

	var intent Intent
	if err := json.Unmarshal(data, &intent); err != nil {
		return nil, fmt.Errorf("card: decode response: %w", err)
	}
	if c.logger != nil {
		c.logger.Debug().Str("intent_id", intent.ID).Str("status", intent.Status).Msg("card: intent call")
	}
	return &intent, nil
}

var _ PaymentAuthority = (*Client)(nil)
