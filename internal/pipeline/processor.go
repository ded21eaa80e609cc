package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/entity"
	"github.com/RPasch/OCR-tool/internal/llm"
)

// Extractor is the OCR stage the processor depends on. Service faults
// surface as an error-status result, not as a Go error.
type Extractor interface {
	Extract(ctx context.Context, fileBytes []byte, fileExt string) *entity.DocumentExtractionResult
}

// Outcome is the combined result of one upload-and-process action. The
// stages are decoupled: a successful extraction stays visible even when
// the agent stage fails, whose error is reported separately.
type Outcome struct {
	Extraction    *entity.DocumentExtractionResult `json:"extraction"`
	Normalization *entity.NormalizationResult      `json:"normalization,omitempty"`
	AgentError    string                           `json:"agent_error,omitempty"`
}

// Processor coordinates OCR extraction then agent normalization.
type Processor struct {
	Logger           *slog.Logger
	OCR              Extractor
	Agent            llm.Normalizer
	MaxContentLength int
}

func NewProcessor(ocr Extractor, agent llm.Normalizer, maxContentLength int, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{Logger: logger, OCR: ocr, Agent: agent, MaxContentLength: maxContentLength}
}

// Process runs the pipeline end-to-end synchronously: extract, and when
// normalize is set and extraction succeeded, prompt + agent + unwrap.
func (p *Processor) Process(ctx context.Context, fileBytes []byte, fileExt string, normalize bool) *Outcome {
	start := time.Now()

	log := p.Logger
	if sid := common.SessionIDFromContext(ctx); sid != "" {
		log = log.With("session_id", sid)
	}

	extraction := p.OCR.Extract(ctx, fileBytes, fileExt)
	out := &Outcome{Extraction: extraction}
	if extraction.Status != entity.StatusSuccess {
		log.Error("pipeline.ocr.failed", "message", extraction.Message)
		return out
	}
	log.Info("pipeline.ocr.ok",
		"pages", len(extraction.Pages),
		"barcodes", len(extraction.Barcodes),
		"handwriting", extraction.HasHandwriting(),
	)

	if !normalize {
		return out
	}
	if p.Agent == nil {
		out.AgentError = "normalization agent is not configured"
		return out
	}

	prompt := llm.BuildPrompt(extraction, p.MaxContentLength)
	raw, err := p.Agent.Normalize(ctx, prompt)
	if err != nil {
		// Do not discard the OCR result over an agent failure.
		log.Error("pipeline.agent.failed", "error", err)
		out.AgentError = err.Error()
		return out
	}

	norm := llm.Unwrap(raw, log)
	out.Normalization = &norm
	log.Info("pipeline.agent.ok",
		"parsed", norm.Parsed,
		"shape_ok", norm.ShapeOK,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out
}
