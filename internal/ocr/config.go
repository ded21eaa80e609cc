package ocr

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/RPasch/OCR-tool/constants"
)

// Config for the Document Intelligence client.
type Config struct {
	Endpoint     string // service endpoint, trailing slashes are trimmed
	APIKey       string
	APIVersion   string        // default constants.AzureAPIVersion
	ModelID      string        // default constants.ReadModelID
	PollInterval time.Duration // delay between status polls
	Timeout      time.Duration // per-HTTP-request timeout, not end-to-end
}

// Client talks to the Document Intelligence REST API.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient applies defaults and returns a ready client. Endpoint and
// APIKey are validated at call time so construction never fails.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")
	if cfg.APIVersion == "" {
		cfg.APIVersion = constants.AzureAPIVersion
	}
	if cfg.ModelID == "" {
		cfg.ModelID = constants.ReadModelID
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}
