package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"clientflow/internal/domain"
	"clientflow/internal/services"
)

// APIClient handles communication with the ClientFlow workspace API
type APIClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewAPIClient creates a new API client
func NewAPIClient(baseURL, token string) *APIClient {
	return &APIClient{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewAPIClientFromProfile creates an API client from a profile
func NewAPIClientFromProfile(profile *Profile) *APIClient {
	if profile == nil {
		return nil
	}
	return NewAPIClient(profile.ServerURL, profile.RefreshToken)
}

// APIError represents an API error response
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error (%d): %s - %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
}

// envelope matches the standard success/error response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// doRequest performs an HTTP request with authentication
func (c *APIClient) doRequest(ctx context.Context, method, endpoint string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL, err := url.JoinPath(c.BaseURL, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to join URL path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}

	return resp, nil
}

// handleResponse unwraps the response envelope into result and surfaces
// API errors. The response body is closed by this function.
func (c *APIClient) handleResponse(resp *http.Response, result interface{}) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	var env envelope
	if len(body) > 0 {
		_ = json.Unmarshal(body, &env)
	}

	if resp.StatusCode >= 400 {
		apiError := &APIError{StatusCode: resp.StatusCode}
		if env.Error != nil {
			apiError.Code = env.Error.Code
			apiError.Message = env.Error.Message
		}
		if apiError.Message == "" {
			apiError.Message = string(body)
		}
		return apiError
	}

	if result != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}

	return nil
}

// Health checks the API health
func (c *APIClient) Health() error {
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed with status %d", resp.StatusCode)
	}
	return nil
}

// GetProjects retrieves all cached projects
func (c *APIClient) GetProjects() ([]domain.Project, error) {
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/projects", nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Projects []domain.Project `json:"projects"`
	}
	err = c.handleResponse(resp, &result) //nolint:bodyclose // closed by handleResponse
	return result.Projects, err
}

// GetProject retrieves a specific project
func (c *APIClient) GetProject(projectID string) (*domain.Project, error) {
	endpoint := fmt.Sprintf("/api/projects/%s", url.PathEscape(projectID))
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var project domain.Project
	err = c.handleResponse(resp, &project) //nolint:bodyclose // closed by handleResponse
	return &project, err
}

// GetProjectTasks retrieves the tasks for a project
func (c *APIClient) GetProjectTasks(projectID string) ([]domain.Task, error) {
	endpoint := fmt.Sprintf("/api/projects/%s/tasks", url.PathEscape(projectID))
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Tasks []domain.Task `json:"tasks"`
	}
	err = c.handleResponse(resp, &result) //nolint:bodyclose // closed by handleResponse
	return result.Tasks, err
}

// GetClientProjects retrieves the projects for a client
func (c *APIClient) GetClientProjects(clientID string) ([]domain.Project, error) {
	endpoint := fmt.Sprintf("/api/clients/%s/projects", url.PathEscape(clientID))
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var result struct {
		Projects []domain.Project `json:"projects"`
	}
	err = c.handleResponse(resp, &result) //nolint:bodyclose // closed by handleResponse
	return result.Projects, err
}

// GetDashboard retrieves the workspace summary
func (c *APIClient) GetDashboard() (*services.WorkspaceSummary, error) {
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodGet, "/api/dashboard", nil)
	if err != nil {
		return nil, err
	}

	var summary services.WorkspaceSummary
	err = c.handleResponse(resp, &summary) //nolint:bodyclose // closed by handleResponse
	return &summary, err
}

// Refresh triggers a workspace re-fetch and returns the new summary
func (c *APIClient) Refresh() (*services.WorkspaceSummary, error) {
	ctx := context.Background()
	resp, err := c.doRequest(ctx, http.MethodPost, "/api/refresh", nil)
	if err != nil {
		return nil, err
	}

	var summary services.WorkspaceSummary
	err = c.handleResponse(resp, &summary) //nolint:bodyclose // closed by handleResponse
	return &summary, err
}

// TestConnection tests the connection to the API
func (c *APIClient) TestConnection() error {
	return c.Health()
}
