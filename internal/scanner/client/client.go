// Package client is the HTTP side of the operator scanner: it submits
// candidates to the ingestion gateway and resolves the working session.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yassirh/stocktake-service/internal/scanner"
)

type Client struct {
	baseURL string
	http    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

type ingestRequest struct {
	Barcode   string `json:"barcode"`
	SessionID int64  `json:"session_id"`
	Depot     string `json:"depot,omitempty"`
}

type ingestResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason"`
	Message  string `json:"message"`
	Product  *struct {
		Model    *string `json:"model"`
		Capacity *string `json:"capacity"`
	} `json:"product"`
}

// Ingest implements scanner.Ingester. Rejections are outcomes, not errors;
// only transport failures come back as errors.
func (c *Client) Ingest(ctx context.Context, barcode string, sessionID int64, depot string) (*scanner.Outcome, error) {
	body, err := json.Marshal(ingestRequest{Barcode: barcode, SessionID: sessionID, Depot: depot})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/scan", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit scan: %w", err)
	}
	defer resp.Body.Close()

	var decoded ingestResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode scan response: %w", err)
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, fmt.Errorf("scan rejected by server: %s", decoded.Message)
	}

	outcome := &scanner.Outcome{Accepted: decoded.Accepted, Reason: decoded.Reason}
	if decoded.Product != nil {
		label := ""
		if decoded.Product.Model != nil {
			label = *decoded.Product.Model
		}
		if decoded.Product.Capacity != nil {
			label += " " + *decoded.Product.Capacity
		}
		outcome.Label = label
	}
	return outcome, nil
}

type sessionResponse struct {
	SessionID int64 `json:"session_id"`
	Resumed   bool  `json:"resumed"`
}

// OpenSession creates or resumes today's inventory session.
func (c *Client) OpenSession(ctx context.Context) (int64, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/sessions", nil)
	if err != nil {
		return 0, false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, false, fmt.Errorf("open session: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return 0, false, fmt.Errorf("open session: unexpected status %d", resp.StatusCode)
	}

	var decoded sessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return 0, false, fmt.Errorf("decode session response: %w", err)
	}
	return decoded.SessionID, decoded.Resumed, nil
}
