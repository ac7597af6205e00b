package importer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// wireSet mirrors the server's import payload shape without importing the
// server package (which would pull in pgx and other server-side
// dependencies).
type wireSet struct {
	ExerciseName string   `json:"exercise_name"`
	MuscleGroup  string   `json:"muscle_group,omitempty"`
	SessionDate  string   `json:"session_date"`
	SetNumber    int      `json:"set_number"`
	Weight       float64  `json:"weight"`
	Reps         int      `json:"reps"`
	RPE          *float64 `json:"rpe,omitempty"`
}

type wireBatch struct {
	UserID int       `json:"user_id,omitempty"`
	Sets   []wireSet `json:"sets"`
}

// BatchResult is the server's accounting for one posted batch.
type BatchResult struct {
	Received int64 `json:"received"`
	Inserted int64 `json:"inserted"`
	Skipped  int64 `json:"skipped"`
}

// Client sends set batches to the Gymlog server over HTTP.
type Client struct {
	serverURL  string
	apiKey     string
	userID     int
	httpClient *http.Client
}

// NewClient creates a new HTTP client for the Gymlog import endpoint.
func NewClient(serverURL, apiKey string, userID int) *Client {
	return &Client{
		serverURL: serverURL,
		apiKey:    apiKey,
		userID:    userID,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// SendBatch POSTs a batch of rows to the server's import endpoint.
// Retries up to 3 times with exponential backoff on failure.
func (c *Client) SendBatch(rows []Row) (*BatchResult, error) {
	sets := make([]wireSet, len(rows))
	for i, row := range rows {
		sets[i] = wireSet{
			ExerciseName: row.ExerciseName,
			MuscleGroup:  row.MuscleGroup,
			SessionDate:  row.SessionDate.Format("2006-01-02"),
			SetNumber:    row.SetNumber,
			Weight:       row.Weight,
			Reps:         row.Reps,
			RPE:          row.RPE,
		}
	}

	data, err := json.Marshal(wireBatch{UserID: c.userID, Sets: sets})
	if err != nil {
		return nil, fmt.Errorf("marshaling batch: %w", err)
	}

	var lastErr error
	for attempt := range 3 {
		if attempt > 0 {
			time.Sleep(time.Duration(1<<uint(attempt-1)) * time.Second)
		}

		req, err := http.NewRequest(http.MethodPost, c.serverURL+"/api/v1/import/sets", bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-API-Key", c.apiKey)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			var result BatchResult
			if err := json.Unmarshal(body, &result); err != nil {
				return nil, fmt.Errorf("decoding batch result: %w", err)
			}
			return &result, nil
		}
		// Validation failures won't get better on retry.
		if resp.StatusCode == http.StatusBadRequest {
			return nil, fmt.Errorf("import rejected: %s", body)
		}
		lastErr = fmt.Errorf("import failed (status %d): %s", resp.StatusCode, body)
	}

	return nil, fmt.Errorf("after 3 attempts: %w", lastErr)
}
