package ocr

// Wire model for the Document Intelligence analyze operation. Every
// optional field the service may omit is a pointer or a slice so that
// absence decodes to nil instead of failing.

// analyzeOperation is the polled operation envelope.
type analyzeOperation struct {
	Status        string         `json:"status"`
	Error         *azureError    `json:"error,omitempty"`
	AnalyzeResult *analyzeResult `json:"analyzeResult,omitempty"`
}

type azureError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *azureError) String() string {
	if e == nil {
		return "unknown analyze error"
	}
	if e.Code == "" {
		return e.Message
	}
	return e.Code + ": " + e.Message
}

// analyzeResult is the root of the recognition payload.
type analyzeResult struct {
	APIVersion    string         `json:"apiVersion"`
	ModelID       string         `json:"modelId"`
	Content       string         `json:"content"`
	Pages         []azurePage    `json:"pages"`
	Styles        []azureStyle   `json:"styles"`
	Barcodes      []azureBarcode `json:"barcodes"`
	KeyValuePairs []azureKVPair  `json:"keyValuePairs"`
}

type azurePage struct {
	PageNumber int         `json:"pageNumber"`
	Angle      float64     `json:"angle"`
	Width      float64     `json:"width"`
	Height     float64     `json:"height"`
	Unit       string      `json:"unit"`
	Words      []azureWord `json:"words"`
	Lines      []azureLine `json:"lines"`
}

type azureWord struct {
	Content    string    `json:"content"`
	Polygon    []float64 `json:"polygon"`
	Confidence float64   `json:"confidence"`
}

type azureLine struct {
	Content string    `json:"content"`
	Polygon []float64 `json:"polygon"`
}

type azureStyle struct {
	IsHandwritten *bool    `json:"isHandwritten,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
}

type azureBarcode struct {
	Kind       string    `json:"kind"`
	Value      *string   `json:"value,omitempty"`
	Confidence *float64  `json:"confidence,omitempty"`
	Polygon    []float64 `json:"polygon,omitempty"`
}

type azureKVPair struct {
	Key        *azureKVElement `json:"key,omitempty"`
	Value      *azureKVElement `json:"value,omitempty"`
	Confidence *float64        `json:"confidence,omitempty"`
}

type azureKVElement struct {
	Content string `json:"content"`
}

// Operation states reported by the service.
const (
	opStatusSucceeded = "succeeded"
	opStatusFailed    = "failed"
)
