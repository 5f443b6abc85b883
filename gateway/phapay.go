package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bus_ticketing/config"
	"bus_ticketing/model"
)

// PhaPay creates hosted payment links on the PhaJay gateway.
type PhaPay struct {
	APIKey  string
	LinkURL string
	Client  *http.Client
}

func NewPhaPay(cfg config.Payment) *PhaPay {
	return &PhaPay{
		APIKey:  cfg.APIKey,
		LinkURL: cfg.LinkURL,
		Client:  &http.Client{Timeout: cfg.Timeout() + 5*time.Second},
	}
}

// authHeader is Basic auth over the raw API key; the gateway does not use a
// user:password pair.
func (p *PhaPay) authHeader() string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(p.APIKey))
}

func (p *PhaPay) CreateLink(ctx context.Context, req model.PaymentLinkRequest) (*model.PaymentLinkResponse, error) {
	if p.APIKey == "" {
		return nil, fmt.Errorf("payment gateway API key is not configured")
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode payment request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.LinkURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build payment request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", p.authHeader())

	resp, err := p.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("call payment gateway: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read payment response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("payment gateway returned %d: %s", resp.StatusCode, bytes.TrimSpace(raw))
	}

	var out model.PaymentLinkResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode payment response: %w", err)
	}
	if out.RedirectURL == "" {
		return nil, fmt.Errorf("payment gateway response has no redirectURL")
	}
	return &out, nil
}
