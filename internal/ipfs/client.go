package ipfs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const PinataAPIURL = "https://api.pinata.cloud"

// Client pins JSON metadata to IPFS through Pinata. An empty JWT leaves the
// client disabled; callers are expected to check Enabled first.
type Client struct {
	httpClient *http.Client
	baseURL    string
	jwt        string
	gatewayURL string
}

// NewClient creates a Pinata client. jwt may be empty to disable pinning.
func NewClient(jwt, gatewayURL string) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    PinataAPIURL,
		jwt:        jwt,
		gatewayURL: gatewayURL,
	}
}

// Enabled reports whether pinning credentials are configured.
func (c *Client) Enabled() bool {
	return c.jwt != ""
}

// PinResult is the outcome of a successful pin.
type PinResult struct {
	Hash string `json:"hash"`
	URL  string `json:"url"`
}

type pinRequest struct {
	PinataMetadata pinMetadata `json:"pinataMetadata"`
	PinataContent  interface{} `json:"pinataContent"`
}

type pinMetadata struct {
	Name      string            `json:"name"`
	KeyValues map[string]string `json:"keyvalues,omitempty"`
}

type pinResponse struct {
	IpfsHash  string `json:"IpfsHash"`
	PinSize   int64  `json:"PinSize"`
	Timestamp string `json:"Timestamp"`
}

// PinJSON uploads a JSON payload and returns its content hash.
func (c *Client) PinJSON(ctx context.Context, name string, keyValues map[string]string, payload interface{}) (*PinResult, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ipfs pinning is not configured")
	}

	body, err := json.Marshal(pinRequest{
		PinataMetadata: pinMetadata{Name: name, KeyValues: keyValues},
		PinataContent:  payload,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode pin request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pinning/pinJSONToIPFS", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build pin request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.jwt)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pin request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("pinata returned status %d: %s", resp.StatusCode, string(data))
	}

	var result pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode pin response: %w", err)
	}
	if result.IpfsHash == "" {
		return nil, fmt.Errorf("pinata returned an empty hash")
	}

	return &PinResult{
		Hash: result.IpfsHash,
		URL:  fmt.Sprintf("%s/%s", c.gatewayURL, result.IpfsHash),
	}, nil
}
