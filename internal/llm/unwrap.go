package llm

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/RPasch/OCR-tool/internal/entity"
)

// Unwrap turns raw agent text into a NormalizationResult. Detection order:
// a ```json fenced block, then any generic fenced block, else the whole
// text. The candidate is parsed strictly; parse failure downgrades to the
// raw-text fallback. Malformed agent output is an expected case, never an
// error past this boundary.
//
// Parsed objects are scrubbed of Arabic script deterministically (the
// prompt asks the model to drop it, but compliance is not assumed) and
// shape-checked: only objects carrying the required `data` envelope get
// the typed Document view.
func Unwrap(raw string, logger *slog.Logger) entity.NormalizationResult {
	if logger == nil {
		logger = slog.Default()
	}

	candidate := extractCandidate(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(candidate), &obj); err != nil {
		logger.Warn("llm.unwrap.parse_failed", "error", err, "raw_len", len(raw))
		return entity.NormalizationResult{Parsed: false, RawText: raw}
	}

	StripArabicFromMap(obj)
	out := entity.NormalizationResult{Parsed: true, Object: obj}

	scrubbed, err := json.Marshal(obj)
	if err != nil {
		logger.Warn("llm.unwrap.encode_failed", "error", err)
		return entity.NormalizationResult{Parsed: false, RawText: raw}
	}
	if err := ValidateNormalizedShape(scrubbed); err != nil {
		logger.Warn("llm.unwrap.shape_check_failed", "error", err)
		return out
	}

	var doc entity.NormalizedDocument
	if err := json.Unmarshal(scrubbed, &doc); err != nil {
		logger.Warn("llm.unwrap.decode_failed", "error", err)
		return out
	}
	out.ShapeOK = true
	out.Document = &doc
	return out
}

// extractCandidate strips optional markdown code fences. Indexing that
// finds no closing fence falls back to the remainder of the text.
func extractCandidate(raw string) string {
	if idx := strings.Index(raw, "```json"); idx >= 0 {
		return sliceBetweenFences(raw[idx+len("```json"):])
	}
	if idx := strings.Index(raw, "```"); idx >= 0 {
		return sliceBetweenFences(raw[idx+len("```"):])
	}
	return strings.TrimSpace(raw)
}

func sliceBetweenFences(rest string) string {
	if end := strings.Index(rest, "```"); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}
