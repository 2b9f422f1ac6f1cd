package hf

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/nchapman/prefetch/internal/config"
	"github.com/nchapman/prefetch/internal/logs"
	"github.com/nchapman/prefetch/internal/version"
)

type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
}

// ModelInfo is the subset of /api/models metadata the loader acts on.
type ModelInfo struct {
	SHA         string      `json:"sha"`
	Private     bool        `json:"private"`
	Gated       GatedStatus `json:"gated"`
	PipelineTag string      `json:"pipeline_tag"`
	Siblings    []Sibling   `json:"siblings"`
}

type Sibling struct {
	RFileName string `json:"rfilename"`
}

// HasFile reports whether the repository lists name. Metadata without a
// file listing is treated as listing everything.
func (m *ModelInfo) HasFile(name string) bool {
	if len(m.Siblings) == 0 {
		return true
	}
	for _, s := range m.Siblings {
		if s.RFileName == name {
			return true
		}
	}
	return false
}

// GatedStatus is true for any gating mode. The hub sends false, or the
// mode as a string ("auto", "manual").
type GatedStatus bool

func (g *GatedStatus) UnmarshalJSON(data []byte) error {
	switch raw := strings.TrimSpace(string(data)); raw {
	case "false", "null", `""`:
		*g = false
	default:
		*g = true
	}
	return nil
}

// HTTPError is returned for any non-2xx response from the hub.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Body)
}

// NewClient builds a hub client. Requests carry no timeout; a stalled fetch
// runs until the server or the context gives up.
func NewClient(cfg *config.Config) *Client {
	endpoint := strings.TrimRight(cfg.HuggingFace.Endpoint, "/")
	if endpoint == "" {
		endpoint = config.DefaultEndpoint
	}
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{
				Proxy: http.ProxyFromEnvironment,
			},
		},
		endpoint: endpoint,
		token:    getToken(cfg),
	}
}

// HasToken reports whether requests are authenticated.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// getToken resolves the bearer token: HF_TOKEN, then the configured token,
// then the token file written by `hf auth login`.
func getToken(cfg *config.Config) string {
	if token := os.Getenv("HF_TOKEN"); token != "" {
		return token
	}

	if cfg.HuggingFace.Token != "" {
		return cfg.HuggingFace.Token
	}

	tokenPath := filepath.Join(config.GetHomeDir(), ".cache", "huggingface", "token")
	if data, err := os.ReadFile(tokenPath); err == nil {
		return strings.TrimSpace(string(data))
	}

	return ""
}

// do sends a single request. Failed fetches fall back to lazy download in the
// host application, so nothing here retries.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	req.Header.Set("User-Agent", version.UserAgent())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	logs.Debug("hub request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return resp, nil
}

// GetModel fetches repository metadata, including the commit sha that
// downloads are pinned to.
func (c *Client) GetModel(ctx context.Context, modelID string) (*ModelInfo, error) {
	url := fmt.Sprintf("%s/api/models/%s", c.endpoint, modelID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var model ModelInfo
	if err := json.NewDecoder(resp.Body).Decode(&model); err != nil {
		return nil, fmt.Errorf("failed to decode model info: %w", err)
	}

	return &model, nil
}

// OpenFile starts a download of filename at revision. The caller closes the body.
func (c *Client) OpenFile(ctx context.Context, modelID, revision, filename string) (*http.Response, error) {
	url := fmt.Sprintf("%s/%s/resolve/%s/%s", c.endpoint, modelID, revision, filename)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	return c.do(req)
}
