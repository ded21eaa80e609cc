package llm

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RPasch/OCR-tool/internal/entity"
)

const contentMarker = "Document Content:\n"

func embeddedContent(t *testing.T, prompt string) string {
	t.Helper()
	idx := strings.Index(prompt, contentMarker)
	require.GreaterOrEqual(t, idx, 0, "prompt must carry the document content section")
	return prompt[idx+len(contentMarker):]
}

func TestBuildPromptTruncatesLongContent(t *testing.T) {
	result := &entity.DocumentExtractionResult{
		Status:      entity.StatusSuccess,
		FullContent: strings.Repeat("a", 5000),
	}
	prompt := BuildPrompt(result, 2000)
	assert.Len(t, embeddedContent(t, prompt), 2000, "hard truncation to exactly the configured maximum")
}

func TestBuildPromptBudgetCountsCharactersNotBytes(t *testing.T) {
	// 1500 characters but 3000 bytes: within the character budget, so it
	// must be embedded whole.
	full := strings.Repeat("ر", 1500)
	result := &entity.DocumentExtractionResult{
		Status:      entity.StatusSuccess,
		FullContent: full,
	}
	prompt := BuildPrompt(result, 2000)
	assert.Equal(t, full, embeddedContent(t, prompt))
}

func TestBuildPromptTruncationNeverSplitsARune(t *testing.T) {
	result := &entity.DocumentExtractionResult{
		Status:      entity.StatusSuccess,
		FullContent: strings.Repeat("م", 3000),
	}
	prompt := BuildPrompt(result, 2000)

	got := embeddedContent(t, prompt)
	assert.Equal(t, 2000, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got), "cut must land on a rune boundary")
}

func TestBuildPromptKeepsShortContentUnchanged(t *testing.T) {
	result := &entity.DocumentExtractionResult{
		Status:      entity.StatusSuccess,
		FullContent: "TRADE LICENSE No. 2202163.01",
	}
	prompt := BuildPrompt(result, 2000)
	assert.Equal(t, "TRADE LICENSE No. 2202163.01", embeddedContent(t, prompt))
}

func TestBuildPromptFallsBackToPageText(t *testing.T) {
	result := &entity.DocumentExtractionResult{
		Status: entity.StatusSuccess,
		Text:   "\n--- Page 1 ---\nhello\n",
	}
	prompt := BuildPrompt(result, 2000)
	assert.Contains(t, embeddedContent(t, prompt), "hello")
}

func TestBuildPromptEmbedsRuleSet(t *testing.T) {
	result := &entity.DocumentExtractionResult{
		Status:       entity.StatusSuccess,
		FullContent:  "x",
		DocumentType: "PDF",
	}
	prompt := BuildPrompt(result, 0)

	for _, rule := range []string{
		"EXACTLY ONE JSON object",
		"no markdown",
		"FLEXIBLE and CONTENT-DRIVEN",
		"\"data\": { ... }",
		"snake_case",
		"Do NOT invent values",
		"Preserve identifiers exactly",
		"arabic",
		"barcodes",
		"Proximity to strong label cues > visual prominence > frequency",
		"corroborated by multiple cues",
	} {
		assert.Contains(t, prompt, rule)
	}
}

func TestBuildPromptListsDetectedBarcodes(t *testing.T) {
	v := "https://x.example/qr"
	result := &entity.DocumentExtractionResult{
		Status:      entity.StatusSuccess,
		FullContent: "x",
		Barcodes: []entity.BarcodeResult{
			{Type: "QRCode", Value: &v, Source: "azure"},
		},
	}
	prompt := BuildPrompt(result, 2000)
	assert.Contains(t, prompt, "QRCode: https://x.example/qr")
}
