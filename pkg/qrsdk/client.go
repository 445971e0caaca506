package qrsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Client talks to the QR payment token service. All methods are safe for
// concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Generate mints a one-time code for the given loan payment.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error) {
	var out GenerateResponse
	if err := c.postJSON(ctx, "/generate", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Verify redeems a code. A code can only be redeemed once; a second call
// returns ErrInvalidOrExpiredCode.
func (c *Client) Verify(ctx context.Context, code string) (*VerifyResponse, error) {
	var out VerifyResponse
	if err := c.postJSON(ctx, "/verify", VerifyRequest{Code: code}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	resp, err := c.doRequest(ctx, http.MethodPost, path, bytes.NewReader(body), map[string]string{
		"Content-Type": "application/json",
	})
	if err != nil {
		return err
	}
	return decodeJSON(resp, out, http.StatusOK)
}
