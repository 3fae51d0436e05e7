// Package sheets is the client side of the external row store: a named
// spreadsheet with a named worksheet, written through an append endpoint
// and authenticated with a service-account credential blob. The backend
// itself (auth handshake, sheet lookup) lives outside this service.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/nagame-dev/aiready/internal/submit"
)

// ErrMalformedCredentials means the credential blob is not valid
// structured data. It is raised once at first use and never retried.
var ErrMalformedCredentials = errors.New("malformed sheets credentials")

// Credentials is the service-account blob supplied through configuration.
type Credentials struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	PrivateKey  string `json:"private_key"`
	ClientEmail string `json:"client_email"`
}

// ParseCredentials decodes and validates the credential blob.
func ParseCredentials(blob string) (Credentials, error) {
	var creds Credentials
	if err := json.Unmarshal([]byte(blob), &creds); err != nil {
		return Credentials{}, fmt.Errorf("%w: %v", ErrMalformedCredentials, err)
	}
	if creds.ClientEmail == "" || creds.PrivateKey == "" {
		return Credentials{}, fmt.Errorf("%w: client_email and private_key are required", ErrMalformedCredentials)
	}
	return creds, nil
}

// Config addresses the destination. Spreadsheet and Worksheet have fixed
// defaults and are overridable via configuration.
type Config struct {
	Endpoint    string
	Spreadsheet string
	Worksheet   string
	CredsJSON   string
	HTTPClient  *http.Client
}

const (
	DefaultSpreadsheet = "AI_Ready_Responses"
	DefaultWorksheet   = "responses"
)

// Client appends rows to one worksheet.
type Client struct {
	endpoint    string
	spreadsheet string
	worksheet   string
	creds       Credentials
	httpClient  *http.Client
}

func NewClient(cfg Config) (*Client, error) {
	creds, err := ParseCredentials(cfg.CredsJSON)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, errors.New("sheets endpoint is required")
	}
	if cfg.Spreadsheet == "" {
		cfg.Spreadsheet = DefaultSpreadsheet
	}
	if cfg.Worksheet == "" {
		cfg.Worksheet = DefaultWorksheet
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		endpoint:    strings.TrimRight(cfg.Endpoint, "/"),
		spreadsheet: cfg.Spreadsheet,
		worksheet:   cfg.Worksheet,
		creds:       creds,
		httpClient:  httpClient,
	}, nil
}

// AppendRow posts one ordered row to the worksheet's append endpoint.
func (c *Client) AppendRow(ctx context.Context, values []any) error {
	payload, err := json.Marshal(map[string]any{"values": values})
	if err != nil {
		return fmt.Errorf("marshal row: %w", err)
	}
	appendURL := fmt.Sprintf("%s/spreadsheets/%s/worksheets/%s/rows",
		c.endpoint, url.PathEscape(c.spreadsheet), url.PathEscape(c.worksheet))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, appendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build append request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Service-Account", c.creds.ClientEmail)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("append row: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return fmt.Errorf("append row: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

// LazyStore defers client construction to first use and caches the
// outcome: one writer constructs, every later append reuses the client or
// re-reports the original construction error without retrying it.
type LazyStore struct {
	cfg    Config
	once   sync.Once
	client *Client
	err    error
}

func NewLazyStore(cfg Config) *LazyStore {
	return &LazyStore{cfg: cfg}
}

func (s *LazyStore) AppendRow(ctx context.Context, values []any) error {
	s.once.Do(func() {
		s.client, s.err = NewClient(s.cfg)
	})
	if s.err != nil {
		return s.err
	}
	return s.client.AppendRow(ctx, values)
}

// Ensure both store shapes satisfy the RowStore interface at compile time.
var (
	_ submit.RowStore = (*Client)(nil)
	_ submit.RowStore = (*LazyStore)(nil)
)
