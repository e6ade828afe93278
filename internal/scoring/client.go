package scoring

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

	"github.com/rs/zerolog"

	"gramscore/internal/domain"
)

const (
	DefaultEndpoint = "http://localhost:8000/predict/"
	fileField       = "file"
	maxErrorBody    = 512
)

// Config controls the scoring endpoint client.
type Config struct {
	Endpoint string
	// Timeout bounds one request; zero means no timeout.
	Timeout time.Duration
}

// StatusError is returned for any non-2xx response.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("scoring API error (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("scoring API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error { return domain.ErrServer }

// Client posts audio samples to the grammar scoring endpoint.
type Client struct {
	endpoint string
	client   *http.Client
	log      zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Client{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// Score sends the sample as the "file" part of a multipart form and decodes
// {"grammar_score": N} from any 2xx response.
func (c *Client) Score(ctx context.Context, sample domain.AudioSample) (domain.AnalysisResult, error) {
	body, contentType, err := encodeForm(sample)
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}

	c.log.Debug().
		Str("file", sample.Name).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("scoring response")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.AnalysisResult{}, &StatusError{StatusCode: resp.StatusCode, Body: truncate(strings.TrimSpace(string(payload)), maxErrorBody)}
	}

	return decodeResult(payload)
}

type scoreResponse struct {
	GrammarScore *float64 `json:"grammar_score"`
}

func decodeResult(payload []byte) (domain.AnalysisResult, error) {
	var out scoreResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
	}
	if out.GrammarScore == nil {
		return domain.AnalysisResult{}, fmt.Errorf("%w: grammar_score missing", domain.ErrMalformedResponse)
	}
	return domain.AnalysisResult{GrammarScore: *out.GrammarScore}, nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// encodeForm builds the one-part form. multipart.CreateFormFile would force
// application/octet-stream, so the part header is written by hand to carry the sample type.
func encodeForm(sample domain.AudioSample) (io.Reader, string, error) {
	if sample.Name == "" {
		return nil, "", errors.New("audio sample has no name")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, quoteEscaper.Replace(sample.Name)))
	contentType := sample.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(sample.Data); err != nil {
		return nil, "", fmt.Errorf("copy audio data: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
