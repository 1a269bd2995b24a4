package biometric

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"voteguard/contexts/identity-access/voter-registry/ports"
)

const defaultTimeout = 5 * time.Second

// Client calls the external fingerprint-matching service. Matching never
// happens in-process; this adapter only transports the template and the live
// sample and interprets the verdict.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

func NewClient(baseURL string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

type compareRequest struct {
	Template string `json:"template"`
	Sample   string `json:"sample"`
}

type compareResponse struct {
	Match bool `json:"match"`
}

func (c *Client) Match(ctx context.Context, template, sample string) (bool, error) {
	payload, err := json.Marshal(compareRequest{
		Template: template,
		Sample:   sample,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/compare", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("biometric compare request failed",
			"event", "biometric_compare_failed",
			"module", "identity-access/voter-registry",
			"layer", "adapter",
			"error", err.Error(),
		)
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("biometric service returned status %d", resp.StatusCode)
		c.logger.Error("biometric compare rejected",
			"event", "biometric_compare_failed",
			"module", "identity-access/voter-registry",
			"layer", "adapter",
			"status", resp.StatusCode,
		)
		return false, err
	}

	var verdict compareResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return false, err
	}
	return verdict.Match, nil
}

var _ ports.BiometricVerifier = (*Client)(nil)
