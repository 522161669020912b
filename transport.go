package outlit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/outlit/outlit-go/adapters"
)

// maxErrorBodyBytes caps how much of an error response body is kept.
const maxErrorBodyBytes = 4 << 10

// beaconTimeout bounds the best-effort send so it cannot stall shutdown.
const beaconTimeout = 2 * time.Second

// Transport performs the network delivery of a batch.
type Transport interface {
	// Send POSTs the payload and returns the parsed response. Errors are
	// classified: ErrRequestTimeout for deadline hits, *APIError for
	// non-2xx responses, anything else is a network-level failure.
	// The transport never retries; that is the queue's job.
	Send(ctx context.Context, payload IngestPayload) (*IngestResponse, error)

	// SendBeacon is the best-effort path used when the process is going
	// away: fire-and-forget with a short timeout, failures logged only.
	SendBeacon(payload IngestPayload)
}

// HTTPTransport is the standard Transport implementation using net/http.
type HTTPTransport struct {
	client   *http.Client
	endpoint string
	timeout  time.Duration
	logger   adapters.LoggerAdapter
}

// Ensure HTTPTransport implements Transport interface
var _ Transport = (*HTTPTransport)(nil)

// NewHTTPTransport builds a transport for the config's endpoint:
// {apiHost}/api/i/v1/{publicKey}/events.
func NewHTTPTransport(config Config, logger adapters.LoggerAdapter) *HTTPTransport {
	return &HTTPTransport{
		client:   &http.Client{},
		endpoint: fmt.Sprintf("%s/api/i/v1/%s/events", config.APIHost, config.PublicKey),
		timeout:  config.Timeout,
		logger:   logger,
	}
}

// Endpoint returns the resolved collection URL.
func (t *HTTPTransport) Endpoint() string {
	return t.endpoint
}

// Send POSTs the payload as JSON with the configured timeout.
func (t *HTTPTransport) Send(ctx context.Context, payload IngestPayload) (*IngestResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	t.logger.Debug("sending %d events to %s", len(payload.Events), t.endpoint)

	resp, err := t.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w after %s", ErrRequestTimeout, t.timeout)
		}
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &APIError{Status: resp.StatusCode, Body: string(data)}
	}

	var result IngestResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	for _, ingestErr := range result.Errors {
		t.logger.Warn("event %d rejected by endpoint: %s", ingestErr.Index, ingestErr.Message)
	}
	t.logger.Debug("endpoint processed %d events", result.Processed)

	return &result, nil
}

// SendBeacon attempts one delivery with a short timeout. Nothing can act
// on a failure at this point, so it is only ever logged.
func (t *HTTPTransport) SendBeacon(payload IngestPayload) {
	ctx, cancel := context.WithTimeout(context.Background(), beaconTimeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		t.logger.Warn("best-effort send failed to marshal payload: %v", err)
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.endpoint, bytes.NewReader(body))
	if err != nil {
		t.logger.Warn("best-effort send failed to create request: %v", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("best-effort send failed: %v", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		t.logger.Warn("best-effort send got status %d", resp.StatusCode)
	}
}
