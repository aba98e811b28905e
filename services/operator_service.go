package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OperatorProfile is the signed-in dashboard operator as reported by Auth0's /userinfo endpoint
type OperatorProfile struct {
	Sub   string `json:"sub"` // Auth0 user ID
	Email string `json:"email"`
	Name  string `json:"name"`
}

// OperatorService looks up the operator behind an access token
type OperatorService struct {
	domain     string
	httpClient *http.Client
}

// NewOperatorService creates an operator lookup against an Auth0 tenant domain
func NewOperatorService(domain string) *OperatorService {
	return &OperatorService{
		domain: domain,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// GetOperatorProfile calls the tenant's /userinfo endpoint with the caller's access token
func (s *OperatorService) GetOperatorProfile(ctx context.Context, accessToken string) (*OperatorProfile, error) {
	// A domain that already carries a scheme is used as-is
	url := "https://" + s.domain + "/userinfo"
	if strings.HasPrefix(s.domain, "http://") || strings.HasPrefix(s.domain, "https://") {
		url = strings.TrimSuffix(s.domain, "/") + "/userinfo"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, unavailableError("AUTH_PROVIDER_UNAVAILABLE", "Failed to call userinfo endpoint", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("userinfo endpoint returned status %d: %s", resp.StatusCode, string(body))
	}

	var profile OperatorProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode userinfo response: %w", err)
	}
	return &profile, nil
}
