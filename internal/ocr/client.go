package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/RPasch/OCR-tool/internal/common"
)

// analyze submits the document bytes to the prebuilt read model with
// barcode detection enabled and polls the returned operation until it
// reaches a terminal state. There is no internal deadline; callers bound
// latency through ctx.
func (c *Client) analyze(ctx context.Context, fileBytes []byte) (*analyzeResult, error) {
	if c.cfg.Endpoint == "" {
		return nil, fmt.Errorf("document intelligence endpoint is not configured")
	}
	if c.cfg.APIKey == "" {
		return nil, fmt.Errorf("document intelligence key is not configured")
	}

	rid := common.RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.New().String()
	}
	start := time.Now()

	u := fmt.Sprintf("%s/documentintelligence/documentModels/%s:analyze?%s",
		c.cfg.Endpoint, c.cfg.ModelID,
		url.Values{
			"api-version": {c.cfg.APIVersion},
			// Barcode/QR detection is off by default; request it explicitly.
			"features": {"barcodes"},
		}.Encode())

	c.logger.Info("ocr.analyze.request",
		"req_id", rid,
		"model", c.cfg.ModelID,
		"bytes", len(fileBytes),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(fileBytes))
	if err != nil {
		return nil, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("ocr.analyze.send_error", "req_id", rid, "error", err)
		return nil, err
	}
	opURL := resp.Header.Get("Operation-Location")
	body, _ := io.ReadAll(resp.Body)
	closeBody(resp.Body, c.logger, rid)

	if resp.StatusCode != http.StatusAccepted {
		c.logger.Error("ocr.analyze.rejected",
			"req_id", rid, "status", resp.StatusCode, "body_bytes", len(body))
		return nil, fmt.Errorf("analyze rejected with status %d: %s", resp.StatusCode, serviceMessage(body))
	}
	if opURL == "" {
		return nil, fmt.Errorf("analyze accepted but no Operation-Location header returned")
	}

	res, err := c.pollOperation(ctx, rid, opURL)
	if err != nil {
		return nil, err
	}
	c.logger.Info("ocr.analyze.ok",
		"req_id", rid,
		"pages", len(res.Pages),
		"barcodes", len(res.Barcodes),
		"key_value_pairs", len(res.KeyValuePairs),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// pollOperation follows the Operation-Location URL until the job settles.
func (c *Client) pollOperation(ctx context.Context, rid, opURL string) (*analyzeResult, error) {
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.cfg.PollInterval):
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build poll request: %w", err)
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.APIKey)

		resp, err := c.http.Do(req)
		if err != nil {
			c.logger.Error("ocr.poll.send_error", "req_id", rid, "error", err)
			return nil, err
		}
		raw, _ := io.ReadAll(resp.Body)
		closeBody(resp.Body, c.logger, rid)

		if resp.StatusCode/100 != 2 {
			return nil, fmt.Errorf("poll status %d: %s", resp.StatusCode, serviceMessage(raw))
		}

		var op analyzeOperation
		if err := json.Unmarshal(raw, &op); err != nil {
			return nil, fmt.Errorf("decode poll response: %w", err)
		}

		switch op.Status {
		case opStatusSucceeded:
			if op.AnalyzeResult == nil {
				return nil, fmt.Errorf("analyze succeeded but result payload is missing")
			}
			return op.AnalyzeResult, nil
		case opStatusFailed:
			return nil, fmt.Errorf("analyze failed: %s", op.Error.String())
		default:
			c.logger.Debug("ocr.poll.pending", "req_id", rid, "status", op.Status)
		}
	}
}

// serviceMessage extracts the error message from a service error body,
// falling back to the raw body text.
func serviceMessage(body []byte) string {
	var envelope struct {
		Error *azureError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error != nil {
		return envelope.Error.String()
	}
	return string(body)
}

func closeBody(body io.ReadCloser, logger *slog.Logger, rid string) {
	if err := body.Close(); err != nil {
		logger.Warn("ocr.response_body_close_error", "req_id", rid, "error", err)
	}
}
