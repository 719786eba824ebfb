package zoho

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
)

type CRMClient struct {
	apiKey     string
	oauthToken string
	baseURL    string
	httpClient *http.Client
}

// Contact is the Zoho CRM v3 contact shape used for lead relay. Description
// carries the audit context (site URL and score).
type Contact struct {
	ID          string `json:"id,omitempty"`
	Email       string `json:"Email"`
	FirstName   string `json:"First_Name,omitempty"`
	LastName    string `json:"Last_Name"`
	Phone       string `json:"Phone,omitempty"`
	Company     string `json:"Account_Name,omitempty"`
	Source      string `json:"Lead_Source,omitempty"`
	Description string `json:"Description,omitempty"`
}

type CreateContactResponse struct {
	Data []struct {
		Code    string `json:"code"`
		Details struct {
			ID string `json:"id"`
		} `json:"details"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"data"`
}

func NewCRMClient(apiKey, oauthToken string) *CRMClient {
	return &CRMClient{
		apiKey:     apiKey,
		oauthToken: oauthToken,
		baseURL:    "https://www.zohoapis.com/crm/v3",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// WithBaseURL overrides the API endpoint, used by tests.
func (c *CRMClient) WithBaseURL(baseURL string) *CRMClient {
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

func (c *CRMClient) CreateContact(ctx context.Context, contact *Contact) (string, error) {
	endpoint := fmt.Sprintf("%s/Contacts", c.baseURL)

	payload := map[string]interface{}{
		"data": []Contact{*contact},
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal contact: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to create contact (status %d): %s", resp.StatusCode, string(body))
	}

	var createResp CreateContactResponse
	if err := json.Unmarshal(body, &createResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if len(createResp.Data) == 0 {
		return "", fmt.Errorf("no data in response")
	}

	if createResp.Data[0].Status != "success" {
		return "", fmt.Errorf("contact creation failed: %s", createResp.Data[0].Message)
	}

	return createResp.Data[0].Details.ID, nil
}

// SearchContacts looks up contacts by email.
func (c *CRMClient) SearchContacts(ctx context.Context, email string) ([]Contact, error) {
	endpoint := fmt.Sprintf("%s/Contacts/search?email=%s", c.baseURL, url.QueryEscape(email))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Zoho-oauthtoken "+c.oauthToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	// Zoho returns 204 when the search has no matches
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to search contacts (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		Data []Contact `json:"data"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Data, nil
}
