package auth

import (
	"bytes"         // Request body buffers
	"context"       // Request-scoped cancellation
	"encoding/json" // JSON encoding/decoding
	"errors"        // Sentinel errors
	"fmt"           // Error wrapping
	"net/http"      // HTTP client
	"time"          // Client timeout
)

// ErrInvalidSignature is returned when the auth service rejects a payload
var ErrInvalidSignature = errors.New("invalid login signature")

// Provider verifies wallet-signed login payloads. The production
// implementation delegates to an external wallet-auth service; tests
// substitute fakes.
type Provider interface {
	// GeneratePayload asks the auth service for a login payload the wallet
	// should sign, pinned to the configured domain and chain id.
	GeneratePayload(ctx context.Context, address string) (json.RawMessage, error)
	// VerifyPayload submits a signed payload for verification and returns
	// the proven wallet address.
	VerifyPayload(ctx context.Context, payload json.RawMessage) (string, error)
}

// HTTPProvider talks to the wallet-auth service over HTTP
type HTTPProvider struct {
	baseURL string       // Auth service base URL
	domain  string       // Domain the payload is bound to
	chainID int64        // Chain id the payload is pinned to
	client  *http.Client // HTTP client with a bounded timeout
}

// NewHTTPProvider creates a provider client for the given service
func NewHTTPProvider(baseURL, domain string, chainID int64) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		domain:  domain,
		chainID: chainID,
		client:  &http.Client{Timeout: 10 * time.Second}, // Boundary timeout
	}
}

// GeneratePayload requests a login payload for the given wallet address
func (p *HTTPProvider) GeneratePayload(ctx context.Context, address string) (json.RawMessage, error) {
	// Pin the payload to the configured domain and chain so the signature
	// verifies consistently
	body, err := json.Marshal(map[string]any{
		"address": address,   // Wallet that will sign
		"domain":  p.domain,  // Binding domain
		"chainId": p.chainID, // Binding chain
	})
	if err != nil {
		return nil, fmt.Errorf("marshal payload request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/payload", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
	var out struct {
		Payload json.RawMessage `json:"payload"` // Opaque payload to sign
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode payload response: %w", err)
	}
	return out.Payload, nil
}

// VerifyPayload submits a signed login payload and returns the wallet
// address the auth service proved control of
func (p *HTTPProvider) VerifyPayload(ctx context.Context, payload json.RawMessage) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/verify", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("auth service request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("auth service returned status %d", resp.StatusCode)
	}
	var out struct {
		Valid   bool   `json:"valid"`   // Whether the signature verified
		Address string `json:"address"` // Proven wallet address
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode verify response: %w", err)
	}
	// An unverified signature is a normal rejection, not a transport error
	if !out.Valid || out.Address == "" {
		return "", ErrInvalidSignature
	}
	return out.Address, nil
}
