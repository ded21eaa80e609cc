package constants

// MaxContentLength is the default cap on document text embedded in the
// agent prompt, in characters. Protects the downstream token budget.
const MaxContentLength = 2000

// SampleWords is the default number of per-page sample words surfaced in
// summaries and exports.
const SampleWords = 5

// AzureAPIVersion pins the Document Intelligence REST API version.
const AzureAPIVersion = "2024-11-30"

// ReadModelID is the prebuilt generic text-read model.
const ReadModelID = "prebuilt-read"

// UI display strings.
const (
	PageTitle = "Document OCR with Azure AI"
	PageIcon  = "📄"
)
