// Package render holds the outbound document rendering adapters.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/scolaris/school_fees_app/internal/core/domain"
	portssvc "github.com/scolaris/school_fees_app/internal/core/ports/services"
)

// WebhookRenderer posts receipt and invoice documents to an external
// rendering service. Calls happen after the ledger mutation committed and are
// best-effort; the caller logs failures and moves on.
type WebhookRenderer struct {
	baseURL string
	client  *http.Client
}

// NewWebhookRenderer creates a renderer posting to baseURL.
func NewWebhookRenderer(baseURL string) *WebhookRenderer {
	return &WebhookRenderer{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Ensure WebhookRenderer implements portssvc.ReceiptRenderer
var _ portssvc.ReceiptRenderer = (*WebhookRenderer)(nil)

func (r *WebhookRenderer) RenderPaymentReceipt(ctx context.Context, payment domain.Payment, invoice domain.Invoice) error {
	return r.post(ctx, "/render/receipt", map[string]interface{}{
		"payment": payment,
		"invoice": invoice,
	})
}

func (r *WebhookRenderer) RenderInvoiceDocument(ctx context.Context, invoice domain.Invoice) error {
	return r.post(ctx, "/render/invoice", map[string]interface{}{
		"invoice": invoice,
	})
}

func (r *WebhookRenderer) post(ctx context.Context, path string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal render payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("render request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("render service returned status %d", resp.StatusCode)
	}
	return nil
}
