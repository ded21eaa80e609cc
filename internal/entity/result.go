package entity

// Status is the terminal state of an extraction attempt.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// DocumentExtractionResult is the canonical internal representation of an
// analyzed document. When Status is StatusError all content fields are
// empty and Message carries the failure text.
type DocumentExtractionResult struct {
	Status       Status           `json:"status"`
	Message      string           `json:"message,omitempty"`
	FullContent  string           `json:"full_content,omitempty"`
	Text         string           `json:"text,omitempty"`
	Pages        []PageResult     `json:"pages,omitempty"`
	Styles       []StyleFlag      `json:"styles,omitempty"`
	Barcodes     []BarcodeResult  `json:"barcodes"`
	KeyValues    []KeyValueResult `json:"key_value_pairs"`
	DocumentType string           `json:"document_type,omitempty"`
}

// PageResult is one physical page in provider order.
type PageResult struct {
	PageNumber int          `json:"page_number"`
	Width      float64      `json:"width"`
	Height     float64      `json:"height"`
	Unit       string       `json:"unit"`
	Lines      []LineResult `json:"lines"`
	Words      []WordResult `json:"words"`
}

// LineResult carries a recognized line and its rendered bounding box
// ("N/A" when the provider omitted the polygon).
type LineResult struct {
	Content     string `json:"content"`
	BoundingBox string `json:"bounding_box"`
}

// WordResult carries a recognized word with the provider confidence (0..1).
type WordResult struct {
	Content    string  `json:"content"`
	Confidence float64 `json:"confidence"`
}

// StyleFlag is one provider-detected style region.
type StyleFlag struct {
	IsHandwritten bool `json:"is_handwritten"`
}

// BarcodeResult is one detected barcode or QR code. Value, Confidence and
// BoundingBox are optional depending on document content. Source is a
// provenance tag reserved for future multi-source merging.
type BarcodeResult struct {
	Type        string   `json:"type"`
	Value       *string  `json:"value,omitempty"`
	Confidence  *float64 `json:"confidence,omitempty"`
	BoundingBox *string  `json:"bounding_box,omitempty"`
	Source      string   `json:"source"`
}

// KeyValueResult is one detected label/value association. The provider may
// locate only one side of a pair; at least one of Key/Value is non-nil.
type KeyValueResult struct {
	Key        *string  `json:"key"`
	Value      *string  `json:"value"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// HasHandwriting reports whether any style region was flagged handwritten.
func (r *DocumentExtractionResult) HasHandwriting() bool {
	for _, s := range r.Styles {
		if s.IsHandwritten {
			return true
		}
	}
	return false
}

// ErrorResult builds the error-shaped result mandated for service faults.
func ErrorResult(message string) *DocumentExtractionResult {
	return &DocumentExtractionResult{
		Status:    StatusError,
		Message:   message,
		Barcodes:  []BarcodeResult{},
		KeyValues: []KeyValueResult{},
	}
}
