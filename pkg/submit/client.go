// Package submit sends normalized images to the remote analysis webhook
// and turns HTTP outcomes into a report string or a classified error.
package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/plantlens/plant-analyzer/pkg/types"
)

// AnalysisError is returned when a submission fails permanently, either
// because the service rejected the request or because the retry budget
// was exhausted.
type AnalysisError struct {
	// StatusCode is set for fatal rejections, 0 otherwise.
	StatusCode int
	// Attempts is the number of attempts performed before giving up.
	Attempts int
	Err      error
}

func (e *AnalysisError) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Err)
	}
	return fmt.Sprintf("analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Options configures a submission Client.
type Options struct {
	// EndpointURL is the analysis webhook address.
	EndpointURL string
	// MaxRetries bounds the total attempt count. Default 3.
	MaxRetries int
	// InitialDelay is the backoff before the second attempt; it doubles
	// for each further attempt. Default 1s.
	InitialDelay time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Client submits normalized images to the analysis service.
type Client struct {
	endpointURL  string
	maxRetries   int
	initialDelay time.Duration
	httpClient   *http.Client
	logger       *zap.Logger

	// sleep is swapped out in tests to observe backoff delays.
	sleep func(ctx context.Context, d time.Duration)
}

// NewClient creates a Client, filling in defaults for unset options.
func NewClient(opts Options) *Client {
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = 3
	}
	if opts.InitialDelay <= 0 {
		opts.InitialDelay = time.Second
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 2 * time.Minute}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Client{
		endpointURL:  opts.EndpointURL,
		maxRetries:   opts.MaxRetries,
		initialDelay: opts.InitialDelay,
		httpClient:   opts.HTTPClient,
		logger:       opts.Logger,
		sleep:        sleepContext,
	}
}

// outcomeKind tags the result of a single submission attempt.
type outcomeKind int

const (
	outcomeSuccess outcomeKind = iota
	outcomeFatal
	outcomeRetry
)

type attemptOutcome struct {
	kind   outcomeKind
	report string
	status int
	err    error
}

// Submit POSTs the image to the analysis endpoint and returns the report
// text. Fatal classifications (HTTP 4xx) surface immediately; transient
// failures are retried with exponential backoff until the attempt budget
// is spent. The payload bytes are identical across attempts.
func (c *Client) Submit(ctx context.Context, img *types.NormalizedImage, lang types.Language) (string, error) {
	payload, contentType, err := buildPayload(img, lang)
	if err != nil {
		return "", fmt.Errorf("build submission payload: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		out := c.attempt(ctx, payload, contentType)

		switch out.kind {
		case outcomeSuccess:
			c.logger.Info("analysis succeeded",
				zap.Int("attempt", attempt),
				zap.Int("status", out.status))
			return out.report, nil
		case outcomeFatal:
			c.logger.Error("analysis rejected",
				zap.Int("attempt", attempt),
				zap.Int("status", out.status),
				zap.Error(out.err))
			return "", &AnalysisError{StatusCode: out.status, Attempts: attempt, Err: out.err}
		}

		lastErr = out.err
		c.logger.Warn("analysis attempt failed",
			zap.Int("attempt", attempt),
			zap.Int("status", out.status),
			zap.Error(out.err))

		if attempt < c.maxRetries {
			delay := c.initialDelay << (attempt - 1)
			c.sleep(ctx, delay)
		}
	}

	return "", &AnalysisError{Attempts: c.maxRetries, Err: lastErr}
}

func (c *Client) attempt(ctx context.Context, payload []byte, contentType string) attemptOutcome {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpointURL, bytes.NewReader(payload))
	if err != nil {
		return attemptOutcome{kind: outcomeFatal, err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport failures are transient by classification.
		return attemptOutcome{kind: outcomeRetry, err: fmt.Errorf("send request: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return attemptOutcome{kind: outcomeRetry, status: resp.StatusCode, err: fmt.Errorf("read response: %w", err)}
	}

	return classify(resp.StatusCode, body)
}

// classify maps an HTTP response to a tagged attempt outcome.
func classify(status int, body []byte) attemptOutcome {
	switch {
	case status >= 400 && status < 500:
		return attemptOutcome{
			kind:   outcomeFatal,
			status: status,
			err:    fmt.Errorf("analysis service rejected the request: status %d: %s", status, strings.TrimSpace(string(body))),
		}
	case status < 200 || status >= 300:
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = "(empty body)"
		}
		return attemptOutcome{
			kind:   outcomeRetry,
			status: status,
			err:    fmt.Errorf("status %d %s: %s", status, http.StatusText(status), text),
		}
	case len(body) == 0:
		// A 2xx without content is an incomplete response, try again.
		return attemptOutcome{kind: outcomeRetry, status: status, err: errors.New("empty response body")}
	}

	report, _ := decodeReport(body)
	return attemptOutcome{kind: outcomeSuccess, status: status, report: report}
}

// reportDecoding tags how the success body was interpreted.
type reportDecoding int

const (
	// decodedStructured: valid JSON object with a string "text" field.
	decodedStructured reportDecoding = iota
	// decodedRaw: body is not JSON, returned verbatim.
	decodedRaw
	// decodedMismatch: valid JSON without the expected field; a
	// diagnostic string embedding the payload is returned instead.
	decodedMismatch
)

func decodeReport(body []byte) (string, reportDecoding) {
	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return string(body), decodedRaw
	}

	if obj, ok := payload.(map[string]any); ok {
		if text, ok := obj["text"].(string); ok {
			return text, decodedStructured
		}
	}

	return fmt.Sprintf("analysis service returned an unexpected payload: %s", body), decodedMismatch
}

func buildPayload(img *types.NormalizedImage, lang types.Language) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, img.Filename))
	header.Set("Content-Type", img.MediaType)
	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(img.Data); err != nil {
		return nil, "", err
	}

	if err := w.WriteField("language", string(lang)); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}

func sleepContext(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
