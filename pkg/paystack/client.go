package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Paystack API endpoint.
const DefaultBaseURL = "https://api.paystack.co"

// Metadata is attached to a transaction at initialization and echoed back
// inside the charge.success webhook, which is how buyer details survive the
// round trip through the gateway.
type Metadata struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Ref   string `json:"ref,omitempty"`
}

// InitializeRequest holds the parameters for creating a payment session.
type InitializeRequest struct {
	Email string `json:"email"`
	// Amount is in pesewas (minor units).
	Amount   int64    `json:"amount"`
	Currency string   `json:"currency,omitempty"`
	Metadata Metadata `json:"metadata"`
}

// InitializeResponse holds the session handed back by Paystack.
type InitializeResponse struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// apiEnvelope is Paystack's standard response wrapper.
type apiEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client calls the Paystack REST API.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Paystack client. An empty baseURL selects production.
func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		secretKey: secretKey,
		baseURL:   baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// InitializeTransaction creates a payment session for a fixed amount and
// returns the authorization URL the buyer completes payment at.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	if req.Currency == "" {
		req.Currency = "GHS"
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to reach paystack: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read paystack response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("paystack returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode paystack response: %w", err)
	}
	if !envelope.Status {
		return nil, fmt.Errorf("paystack rejected transaction: %s", envelope.Message)
	}

	var out InitializeResponse
	if err := json.Unmarshal(envelope.Data, &out); err != nil {
		return nil, fmt.Errorf("failed to decode session data: %w", err)
	}

	return &out, nil
}
