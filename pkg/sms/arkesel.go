package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// arkeselSendURL is the Arkesel v2 SMS endpoint.
const arkeselSendURL = "https://sms.arkesel.com/api/v2/sms/send"

// ArkeselProvider sends SMS through the Arkesel HTTP API.
type ArkeselProvider struct {
	apiKey     string
	senderID   string
	sendURL    string
	httpClient *http.Client
}

// NewArkeselProvider creates an Arkesel-backed provider. An empty sendURL
// selects the production endpoint.
func NewArkeselProvider(apiKey, senderID, sendURL string) *ArkeselProvider {
	if sendURL == "" {
		sendURL = arkeselSendURL
	}
	return &ArkeselProvider{
		apiKey:   apiKey,
		senderID: senderID,
		sendURL:  sendURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type arkeselRequest struct {
	Sender     string   `json:"sender"`
	Message    string   `json:"message"`
	Recipients []string `json:"recipients"`
}

type arkeselResponse struct {
	Status string `json:"status"`
	Data   []struct {
		ID        string `json:"id"`
		Recipient string `json:"recipient"`
	} `json:"data"`
}

// Send delivers one message to one recipient.
func (p *ArkeselProvider) Send(ctx context.Context, to, message string) (*Result, error) {
	payload, err := json.Marshal(arkeselRequest{
		Sender:     p.senderID,
		Message:    message,
		Recipients: []string{to},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal SMS request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.sendURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create SMS request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to reach SMS provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read SMS provider response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("SMS provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var out arkeselResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode SMS provider response: %w", err)
	}
	if out.Status != "success" {
		return nil, fmt.Errorf("SMS provider rejected message: %s", string(body))
	}

	result := &Result{Status: out.Status}
	if len(out.Data) > 0 {
		result.MessageID = out.Data[0].ID
	}
	return result, nil
}

// ConsoleProvider logs messages instead of sending them (development mode,
// when no API key is configured).
type ConsoleProvider struct{}

// Send logs the message and reports success.
func (ConsoleProvider) Send(ctx context.Context, to, message string) (*Result, error) {
	log.Printf("📱 [SMS] To: %s", to)
	log.Printf("   %s", message)
	log.Printf("   ⚠️  SMS NOT sent (development mode; set ARKESEL_API_KEY)")
	return &Result{Status: "console"}, nil
}
