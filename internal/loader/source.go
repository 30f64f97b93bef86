package loader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/mcncl/jsonview/internal/errors"
	"github.com/mcncl/jsonview/internal/models"
	"github.com/mcncl/jsonview/internal/parser"
)

// DefaultDataPath is requested when a source URL names only a host.
const DefaultDataPath = "/bokning.json"

// RequestIDHeader carries the activation id on outgoing requests.
const RequestIDHeader = "X-Request-Id"

// ResolveURL validates raw as an absolute http(s) URL and fills in
// DefaultDataPath when it has no path.
func ResolveURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errors.NewConfigError(fmt.Sprintf("cannot parse URL '%s'", raw), errors.ErrInvalidURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.NewConfigError(fmt.Sprintf("URL '%s' must be an absolute http or https URL", raw), errors.ErrInvalidURL)
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = DefaultDataPath
	}
	return u.String(), nil
}

// HTTPSource fetches the document with a GET that bypasses caches.
type HTTPSource struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	Headers map[string]string
}

// NewHTTPSource creates a source for rawURL using http.DefaultClient.
func NewHTTPSource(rawURL string, timeout time.Duration) (*HTTPSource, error) {
	resolved, err := ResolveURL(rawURL)
	if err != nil {
		return nil, err
	}
	return &HTTPSource{
		URL:     resolved,
		Client:  http.DefaultClient,
		Timeout: timeout,
	}, nil
}

// Describe returns the URL.
func (s *HTTPSource) Describe() string {
	return s.URL
}

// Retrieve performs the request. Failures are reported as protocol errors
// (non-2xx status), transport errors (no usable response) or parsing errors
// (a body that is not JSON).
func (s *HTTPSource) Retrieve(ctx context.Context) (models.Value, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	reqCtx := ctx
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.URL, nil)
	if err != nil {
		return models.Value{}, errors.NewTransportError("failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range s.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Cache-Control", "no-cache, no-store, max-age=0")
	req.Header.Set("Pragma", "no-cache")
	if id, ok := ActivationID(ctx); ok {
		req.Header.Set(RequestIDHeader, id.String())
	}

	resp, err := client.Do(req)
	if err != nil {
		return models.Value{}, errors.NewTransportError("request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return models.Value{}, errors.NewProtocolError(resp.StatusCode, statusText(resp))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Value{}, errors.NewTransportError("failed to read response body", err)
	}
	return parser.ParseBytes(data)
}

// statusText is the reason phrase the server sent, falling back to the
// standard text for the code.
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return text
}

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

// Describe returns the path.
func (s *FileSource) Describe() string {
	return s.Path
}

// Retrieve parses the file. The context is only checked before reading.
func (s *FileSource) Retrieve(ctx context.Context) (models.Value, error) {
	if err := ctx.Err(); err != nil {
		return models.Value{}, errors.NewTransportError("read cancelled", err)
	}
	return parser.ParseFile(s.Path)
}
