// Package sponsor talks to the gas station that pays fees on behalf of our
// users. The station receives the transaction kind bytes, wraps them in a
// fully funded transaction, and later executes it once the sender signature
// arrives.
package sponsor

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

	"github.com/communitydao/budget-backend/pkg/config"
	"github.com/communitydao/budget-backend/pkg/logger"
)

var (
	errAPIKeyRequired = errors.New("sponsor api key is required")
	errLoggerRequired = errors.New("sponsor logger is required")
)

const sponsorPath = "/v1/transaction-blocks/sponsor"

// Client wraps the sponsor HTTP API with auth and error mapping.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	network    string
	logger     *logger.Logger
}

// APIError is a non-2xx reply from the sponsor service.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sponsor api returned %d: %s", e.Status, e.Body)
}

// SponsoredTransaction is the funded transaction the station built for us.
// Bytes are the full transaction data to sign; Digest identifies it for the
// execute step.
type SponsoredTransaction struct {
	Bytes  string `json:"bytes"`
	Digest string `json:"digest"`
}

// CreateRequest asks the station to fund a transaction kind.
type CreateRequest struct {
	Network                 string   `json:"network"`
	Sender                  string   `json:"sender"`
	TransactionBlockKindB64 string   `json:"transactionBlockKindBytes"`
	AllowedMoveCallTargets  []string `json:"allowedMoveCallTargets,omitempty"`
	AllowedAddresses        []string `json:"allowedAddresses,omitempty"`
}

// NewClient validates credentials and returns a sponsor wrapper.
func NewClient(cfg config.SponsorConfig, logg *logger.Logger) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		network:    cfg.Network,
		logger:     logg,
	}, nil
}

// CreateSponsoredTransaction submits kind bytes and gets back a funded
// transaction to sign.
func (c *Client) CreateSponsoredTransaction(ctx context.Context, sender, kindBytesB64 string, allowedTargets, allowedAddresses []string) (*SponsoredTransaction, error) {
	req := CreateRequest{
		Network:                 c.network,
		Sender:                  sender,
		TransactionBlockKindB64: kindBytesB64,
		AllowedMoveCallTargets:  allowedTargets,
		AllowedAddresses:        allowedAddresses,
	}
	var out SponsoredTransaction
	if err := c.post(ctx, sponsorPath, req, &out); err != nil {
		return nil, err
	}
	if out.Bytes == "" || out.Digest == "" {
		return nil, fmt.Errorf("sponsor reply missing bytes or digest")
	}
	return &out, nil
}

// ExecuteSponsoredTransaction hands the sender signature to the station,
// which submits the funded transaction to the chain.
func (c *Client) ExecuteSponsoredTransaction(ctx context.Context, digest, signature string) (string, error) {
	req := struct {
		Signature string `json:"signature"`
	}{Signature: signature}
	var out struct {
		Digest string `json:"digest"`
	}
	if err := c.post(ctx, sponsorPath+"/"+digest, req, &out); err != nil {
		return "", err
	}
	if out.Digest == "" {
		out.Digest = digest
	}
	return out.Digest, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal sponsor request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sponsor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sponsor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read sponsor response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn(c.logger.WithFields(ctx, map[string]any{
			"status": resp.StatusCode,
			"path":   path,
		}), "sponsor api error")
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	// replies arrive wrapped in a data envelope
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("decode sponsor response: %w", err)
	}
	inner := envelope.Data
	if len(inner) == 0 {
		inner = raw
	}
	if err := json.Unmarshal(inner, out); err != nil {
		return fmt.Errorf("decode sponsor payload: %w", err)
	}
	return nil
}
