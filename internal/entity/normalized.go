package entity

// NormalizedDocument is the agent's output once successfully parsed and
// shape-checked. Data maps snake_case English keys to scalar, array, or
// nested values; keys stay present with null values rather than being
// omitted.
type NormalizedDocument struct {
	Data     map[string]any `json:"data"`
	Sections map[string]any `json:"sections,omitempty"`
	Entities map[string]any `json:"entities,omitempty"`
	Barcodes []any          `json:"barcodes,omitempty"`
}

// NormalizationResult is the outcome of the unwrap stage.
//
//   - Parsed=false: the agent text was not valid JSON after fence
//     stripping; RawText holds it verbatim for plain/code rendering.
//   - Parsed=true, ShapeOK=false: valid JSON, but missing the required
//     `data` envelope; Object carries the parsed value as-is.
//   - Parsed=true, ShapeOK=true: Document additionally holds the typed
//     view.
type NormalizationResult struct {
	Parsed   bool                `json:"parsed"`
	ShapeOK  bool                `json:"shape_ok"`
	Object   map[string]any      `json:"object,omitempty"`
	Document *NormalizedDocument `json:"document,omitempty"`
	RawText  string              `json:"raw_text,omitempty"`
}
