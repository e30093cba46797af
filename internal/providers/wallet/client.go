package wallet

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

// ErrMissingProjectID indicates the client was configured without credentials.
var ErrMissingProjectID = errors.New("wallet: project id is required")

// ErrEmptyTxHash indicates the submit call returned without a transaction hash.
var ErrEmptyTxHash = errors.New("wallet: transfer returned no transaction hash")

// TransferAuthority is the capability the donation flow needs from the
// blockchain wallet service: submit a transfer, get back a transaction
// hash. A returned hash authorizes recording a completed donation.
type TransferAuthority interface {
	SubmitTransfer(ctx context.Context, walletHandle, recipient string, amount decimal.Decimal) (string, error)
}

// Options configures the wallet service client.
type Options struct {
	ProjectID      string
	BaseURL        string
	HTTPClient     *http.Client
	Logger         *zerolog.Logger
	RequestTimeout time.Duration
}

// Client submits transfers through a hosted Cardano wallet gateway.
type Client struct {
	projectID  string
	baseURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

type submitRequest struct {
	Wallet    string `json:"wallet"`
	Recipient string `json:"recipient"`
	Amount    string `json:"amount"`
}

type submitResponse struct {
	TxHash  string `json:"tx_hash"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// NewClient constructs a client with sane defaults and injected dependencies.
func NewClient(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.ProjectID) == "" {
		return nil, ErrMissingProjectID
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.RequestTimeout
		if timeout <= 0 {
			timeout = 60 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = "https://gateway.cardano.example.com/v2"
	}
	return &Client{
		projectID:  opts.ProjectID,
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     opts.Logger,
	}, nil
}

// SubmitTransfer asks the gateway to move funds from the connected wallet
// to the recipient address and returns the on-chain transaction hash.
func (c *Client) SubmitTransfer(ctx context.Context, walletHandle, recipient string, amount decimal.Decimal) (string, error) {
	payload, err := json.Marshal(submitRequest{
		Wallet:    walletHandle,
		Recipient: recipient,
		Amount:    amount.StringFixed(2),
	})
	if err != nil {
		return "", fmt.Errorf("wallet: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transactions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("wallet: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Project-Id", c.projectID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("wallet: submit transfer: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("wallet: read response: %w", err)
	}

	var decoded submitResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", fmt.Errorf("wallet: decode response: %w", err)
	}
	if resp.StatusCode >= 400 {
		if decoded.Message != "" {
			return "", fmt.Errorf("wallet: %s (%s)", decoded.Message, decoded.Code)
		}
		return "", fmt.Errorf("wallet: unexpected status %d", resp.StatusCode)
	}
	if decoded.TxHash == "" {
		return "", ErrEmptyTxHash
	}
	if c.logger != nil {
		c.logger.Debug().Str("tx_hash", decoded.TxHash).Msg("wallet: transfer submitted")
	}
	return decoded.TxHash, nil
}

var _ TransferAuthority = (*Client)(nil)
