package materials

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

// httpClient handles HTTP communication with the Materials Project API.
type httpClient struct {
	client     *http.Client
	baseURL    string
	apiKey     string
	maxRetries int
	backoff    time.Duration
}

func newHTTPClient(cfg *clientConfig) *httpClient {
	return &httpClient{
		client:     cfg.httpClient,
		baseURL:    strings.TrimRight(cfg.baseURL, "/"),
		apiKey:     cfg.apiKey,
		maxRetries: cfg.maxRetries,
		backoff:    cfg.backoff,
	}
}

// apiResponse is the common response wrapper. Every document endpoint
// returns its hits under "data".
type apiResponse[T any] struct {
	Data []T `json:"data"`
	Meta struct {
		TotalDoc int `json:"total_doc"`
	} `json:"meta"`
}

// get makes a GET request to the API with retry support.
func (h *httpClient) get(ctx context.Context, path string, query url.Values, result any) error {
	var lastErr error
	for attempt := 0; attempt <= h.maxRetries; attempt++ {
		if attempt > 0 {
			// Exponential backoff: 1s, 2s, 4s, ...
			backoff := time.Duration(1<<uint(attempt-1)) * h.backoff
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := h.doRequest(ctx, path, query, result)
		if err == nil {
			return nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return err
		}
		if apiErr, ok := AsError(err); ok && !apiErr.Retryable() {
			return err
		}
	}
	return lastErr
}

// doRequest performs a single HTTP request.
func (h *httpClient) doRequest(ctx context.Context, path string, query url.Values, result any) error {
	u := h.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	h.setHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	return h.handleResponse(resp, result)
}

// setHeaders sets common headers for API requests.
func (h *httpClient) setHeaders(req *http.Request) {
	req.Header.Set("X-API-KEY", h.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "singing-materials-go/1.0")
}

func (h *httpClient) handleResponse(resp *http.Response, result any) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return parseError(body, resp.StatusCode)
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}
	return nil
}

// parseError parses an error response body. The API reports failures as
// {"detail": ...} where detail is either a string or a list of
// validation errors.
func parseError(body []byte, httpStatus int) error {
	var errResp struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Detail) > 0 {
		var msg string
		if err := json.Unmarshal(errResp.Detail, &msg); err != nil {
			msg = string(errResp.Detail)
		}
		return &Error{HTTPStatus: httpStatus, Detail: msg}
	}

	return &Error{
		HTTPStatus: httpStatus,
		Detail:     strings.TrimSpace(string(body)),
	}
}

// lookup fetches the single document for a material id restricted to
// fields. An empty hit list is reported as nil, nil.
func lookup[T any](ctx context.Context, h *httpClient, path, id string, fields ...string) (*T, error) {
	query := url.Values{}
	query.Set("material_ids", id)
	query.Set("_fields", strings.Join(fields, ","))

	var resp apiResponse[T]
	if err := h.get(ctx, path, query, &resp); err != nil {
		if e, ok := AsError(err); ok && e.MaterialID == "" {
			e.MaterialID = id
		}
		return nil, err
	}
	if len(resp.Data) == 0 {
		return nil, nil
	}
	return &resp.Data[0], nil
}
