// Package services holds the external collaborators the dashboards consume:
// the text-insight generator and the simulated capture/scan device. Both are
// best-effort and never gate a ledger operation.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

// Summary is the aggregate snapshot sent to the insight generator for the
// admin console.
type Summary struct {
	TotalVendors int `json:"total_vendors"`
	TotalTxs     int `json:"total_txs"`
	TotalPoints  int `json:"total_points"`
}

// RewardIdea is a suggested catalog entry returned by the insight generator.
type RewardIdea struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	PointsRequired int    `json:"points_required"`
}

// InsightsClient talks to the external text-generation service. An empty
// BaseURL, a transport failure or a non-200 response all fall back to static
// copy so callers never block on the collaborator.
type InsightsClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewInsightsClient() *InsightsClient {
	return &InsightsClient{
		BaseURL:    os.Getenv("INSIGHTS_API_URL"),
		HTTPClient: &http.Client{Timeout: 5 * time.Second},
	}
}

// AdminInsights returns a short narrative for the admin console.
func (c *InsightsClient) AdminInsights(ctx context.Context, summary Summary) string {
	fallback := fmt.Sprintf(
		"Network is healthy: %d active merchants, %d ledger entries and %d points in circulation.",
		summary.TotalVendors, summary.TotalTxs, summary.TotalPoints)

	if c.BaseURL == "" {
		return fallback
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := c.post(ctx, "/insights", summary, &out); err != nil || out.Text == "" {
		return fallback
	}
	return out.Text
}

// RewardIdeas returns suggested rewards for a merchant. The static fallback
// list keeps the suggest flow working offline.
func (c *InsightsClient) RewardIdeas(ctx context.Context, vendorName, category string) []RewardIdea {
	fallback := []RewardIdea{
		{
			Title:          "Free " + category + " Treat",
			Description:    fmt.Sprintf("A complimentary signature item at %s.", vendorName),
			PointsRequired: 100,
		},
		{
			Title:          "10% Off Next Bill",
			Description:    fmt.Sprintf("Flat discount on your next visit to %s.", vendorName),
			PointsRequired: 150,
		},
	}

	if c.BaseURL == "" {
		return fallback
	}

	req := map[string]string{"vendor_name": vendorName, "category": category}
	var out struct {
		Ideas []RewardIdea `json:"ideas"`
	}
	if err := c.post(ctx, "/reward-ideas", req, &out); err != nil || len(out.Ideas) == 0 {
		return fallback
	}
	return out.Ideas
}

func (c *InsightsClient) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("insight service returned status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
