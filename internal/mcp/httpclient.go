package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/meltforce/gymlog/internal/analytics"
	"github.com/meltforce/gymlog/internal/models"
)

// HTTPClient implements DataSource by calling the Gymlog REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale). Identity
// comes from the tailnet connection, so the userID arguments are unused.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

func exerciseParams(exerciseID uuid.UUID) url.Values {
	v := url.Values{}
	v.Set("exercise_id", exerciseID.String())
	return v
}

func (c *HTTPClient) ListExercises(ctx context.Context, _ int) ([]models.Exercise, error) {
	body, err := c.get(ctx, "/api/v1/exercises", nil)
	if err != nil {
		return nil, err
	}

	var exercises []models.Exercise
	if err := json.Unmarshal(body, &exercises); err != nil {
		return nil, fmt.Errorf("httpclient: decode exercises: %w", err)
	}
	return exercises, nil
}

// FindExercise matches by name, case-insensitively, against the exercise
// list. The REST API has no by-name lookup, and the list is small.
func (c *HTTPClient) FindExercise(ctx context.Context, userID int, name string) (*models.Exercise, error) {
	exercises, err := c.ListExercises(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range exercises {
		if strings.EqualFold(exercises[i].Name, name) {
			return &exercises[i], nil
		}
	}
	return nil, fmt.Errorf("httpclient: no exercise named %q", name)
}

func (c *HTTPClient) OneRepMax(ctx context.Context, _ int, exerciseID uuid.UUID) (*analytics.OneRepMaxResult, error) {
	body, err := c.get(ctx, "/api/v1/progress/onerm", exerciseParams(exerciseID))
	if err != nil {
		return nil, err
	}

	// The endpoint reports "no data" as a JSON null.
	var result *analytics.OneRepMaxResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("httpclient: decode one-rep max: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) VolumeProgression(ctx context.Context, _ int, exerciseID uuid.UUID, tf analytics.Timeframe) ([]analytics.VolumePoint, error) {
	params := exerciseParams(exerciseID)
	params.Set("timeframe", string(tf))

	body, err := c.get(ctx, "/api/v1/progress/volume", params)
	if err != nil {
		return nil, err
	}

	var points []analytics.VolumePoint
	if err := json.Unmarshal(body, &points); err != nil {
		return nil, fmt.Errorf("httpclient: decode volume progression: %w", err)
	}
	return points, nil
}

func (c *HTTPClient) StrengthStandards(ctx context.Context, _ int, exerciseID uuid.UUID) (*analytics.StrengthStandardsResult, error) {
	body, err := c.get(ctx, "/api/v1/progress/standards", exerciseParams(exerciseID))
	if err != nil {
		return nil, err
	}

	var result *analytics.StrengthStandardsResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("httpclient: decode strength standards: %w", err)
	}
	return result, nil
}

func (c *HTTPClient) PersonalRecords(ctx context.Context, _ int) ([]analytics.PersonalRecord, error) {
	body, err := c.get(ctx, "/api/v1/progress/records", nil)
	if err != nil {
		return nil, err
	}

	var records []analytics.PersonalRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("httpclient: decode personal records: %w", err)
	}
	return records, nil
}

func (c *HTTPClient) SessionHistory(ctx context.Context, _ int, limit int) ([]analytics.SessionSummary, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))

	body, err := c.get(ctx, "/api/v1/sessions/history", params)
	if err != nil {
		return nil, err
	}

	var sessions []analytics.SessionSummary
	if err := json.Unmarshal(body, &sessions); err != nil {
		return nil, fmt.Errorf("httpclient: decode session history: %w", err)
	}
	return sessions, nil
}
