// Package superbill is the HTTP client for the upstream SuperBill service:
// it fetches a vendor's inventory and submits finalized bills. The vendor
// identity is injected at construction rather than read from shared state.
package superbill

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/superbill/pos-api/pkg/models"
)

// APIError is a failure reported by the SuperBill service itself, as opposed
// to a transport error.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("superbill api error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("superbill api error (status %d)", e.StatusCode)
}

type Client struct {
	baseURL     string
	vendorEmail string
	http        *http.Client
}

func NewClient(baseURL, vendorEmail string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		vendorEmail: vendorEmail,
		http:        &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) VendorEmail() string {
	return c.vendorEmail
}

type fetchInventoryResponse struct {
	Success   bool                   `json:"success"`
	Inventory []models.InventoryItem `json:"inventory"`
	Message   string                 `json:"message"`
}

// FetchInventory retrieves the vendor's catalog snapshot. Items come back
// normalized (prices parsed, image defaults applied). Callers degrade to an
// empty catalog on error; this client only reports the failure.
func (c *Client) FetchInventory(ctx context.Context) ([]models.InventoryItem, error) {
	endpoint := fmt.Sprintf("%s/fetchinventory/vendoremail=%s", c.baseURL, url.QueryEscape(c.vendorEmail))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var body fetchInventoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode inventory response: %w", err)
	}
	if !body.Success {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}

	for i := range body.Inventory {
		body.Inventory[i].Normalize()
	}
	return body.Inventory, nil
}

// BillRequest is the finalized bill posted to the SuperBill service.
type BillRequest struct {
	VendorEmail string            `json:"vendorEmail"`
	Items       []models.CartLine `json:"items"`
	TotalAmount float64           `json:"totalAmount"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
}

type submitBillResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// SubmitBill posts a finalized bill. Any error leaves the bill untouched on
// the caller's side so it can be retried.
func (c *Client) SubmitBill(ctx context.Context, bill BillRequest) error {
	payload, err := json.Marshal(bill)
	if err != nil {
		return fmt.Errorf("failed to marshal bill: %w", err)
	}

	endpoint := c.baseURL + "/generatebill"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build bill request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to submit bill: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return &APIError{StatusCode: resp.StatusCode, Message: readErrorMessage(resp.Body)}
	}

	var body submitBillResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return fmt.Errorf("failed to decode bill response: %w", err)
	}
	if !body.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: body.Message}
	}
	return nil
}

func readErrorMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil {
		return ""
	}
	return body.Message
}
