// Package pagespeed is a thin client for the PageSpeed Insights v5 API, the
// performance provider behind the audit score.
package pagespeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// CategoryScores holds the raw 0..1 category fractions as the provider
// reports them. Rounding to integers happens in the analyze service.
type CategoryScores struct {
	Performance   float64
	SEO           float64
	Accessibility float64
	BestPractices float64
}

func NewClient(apiKey, baseURL string, timeout time.Duration) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Analyze runs the four audit categories against targetURL.
func (c *Client) Analyze(ctx context.Context, targetURL string) (*CategoryScores, error) {
	params := url.Values{}
	params.Set("url", targetURL)
	params.Set("key", c.apiKey)
	params.Set("strategy", "desktop")
	for _, cat := range []string{"PERFORMANCE", "SEO", "ACCESSIBILITY", "BEST_PRACTICES"} {
		params.Add("category", cat)
	}

	endpoint := fmt.Sprintf("%s/runPagespeed?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("pagespeed request failed (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		LighthouseResult struct {
			Categories struct {
				Performance struct {
					Score float64 `json:"score"`
				} `json:"performance"`
				SEO struct {
					Score float64 `json:"score"`
				} `json:"seo"`
				Accessibility struct {
					Score float64 `json:"score"`
				} `json:"accessibility"`
				BestPractices struct {
					Score float64 `json:"score"`
				} `json:"best-practices"`
			} `json:"categories"`
		} `json:"lighthouseResult"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	cats := result.LighthouseResult.Categories
	return &CategoryScores{
		Performance:   cats.Performance.Score,
		SEO:           cats.SEO.Score,
		Accessibility: cats.Accessibility.Score,
		BestPractices: cats.BestPractices.Score,
	}, nil
}
