package llm

// BuildNormalizedDocumentSchema returns the minimal required shape for
// agent output as a JSON-Schema (draft 2020-12 subset) generic map. The
// agent's schema is content-driven by design, so only the envelope is
// constrained: one object whose `data` member is an object.
func BuildNormalizedDocumentSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"data"},
		"properties": map[string]any{
			"data":     map[string]any{"type": "object"},
			"sections": map[string]any{"type": "object"},
			"entities": map[string]any{"type": "object"},
			"barcodes": map[string]any{"type": "array"},
		},
	}
}
