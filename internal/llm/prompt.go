package llm

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/RPasch/OCR-tool/constants"
	"github.com/RPasch/OCR-tool/internal/entity"
)

// BuildPrompt composes the normalization instruction for one extraction
// result. The document text is hard-truncated to maxContentLength
// characters (no summarization) to respect the downstream token budget;
// content beyond the cutoff is simply unavailable to the agent.
func BuildPrompt(result *entity.DocumentExtractionResult, maxContentLength int) string {
	if maxContentLength <= 0 {
		maxContentLength = constants.MaxContentLength
	}
	content := result.FullContent
	if content == "" {
		content = result.Text
	}
	content = truncateRunes(content, maxContentLength)

	var b strings.Builder
	b.WriteString("You are a data extraction and normalization agent. Given OCR output for ANY document ")
	b.WriteString("(licenses, permits, IDs, invoices, certificates, letters, forms, etc., in any language), ")
	b.WriteString("return ONE JSON object that flexibly reflects the document's content.\n\n")

	b.WriteString("### OUTPUT CONTRACT\n")
	b.WriteString("- Return EXACTLY ONE JSON object (no markdown, no prose).\n")
	b.WriteString("- The JSON must be valid and parseable.\n")
	b.WriteString("- The schema is FLEXIBLE and CONTENT-DRIVEN. Include only sections that make sense for the given document.\n\n")

	b.WriteString("### REQUIRED MINIMUM\n")
	b.WriteString("{\n\"data\": { ... }          key-value pairs extracted from the document (flat and/or nested)\n}\n\n")

	b.WriteString("### EXTRACTION RULES\n")
	b.WriteString("- Ignore and remove all arabic text.\n")
	b.WriteString("- Build `data` first: a clean set of key-value pairs that capture the most important information.\n")
	b.WriteString("- Keys in snake_case, concise, English where inferable (e.g., license_number, company_name, formation_number, address, issue_date, expiry_date, directors, activities, code, authority_name).\n")
	b.WriteString("- Use arrays for real multiples (e.g., directors, activities, addresses).\n")
	b.WriteString("- Nest only when a clear grouping exists (e.g., address objects with {line_1, city, country}; party objects with {role, name}).\n")
	b.WriteString("- Do NOT invent values. If uncertain, omit the key.\n")
	b.WriteString("- If no value under a certain header/key, input NULL but return the key/header.\n")
	b.WriteString("- Preserve identifiers exactly (e.g., punctuation in \"2202163.01\").\n")
	b.WriteString("- If both flat and grouped representations are useful, prefer grouped (in `sections` or `entities`) but keep the key facts also summarized in `data` for easy access.\n")
	b.WriteString("- Include all detected barcodes/QRs in \"barcodes\".\n\n")

	b.WriteString("### DISAMBIGUATION HEURISTICS\n")
	b.WriteString("1) Proximity to strong label cues > visual prominence > frequency.\n")
	b.WriteString("2) If multiple candidates for the same field: choose the clearest, most consistently labeled value.\n")
	b.WriteString("3) Resolve duplicates by preferring values repeated across sections or corroborated by multiple cues.\n\n")

	b.WriteString("### QUALITY GATES (before returning)\n")
	b.WriteString("- Output is ONE valid JSON object.\n")
	b.WriteString("- No arabic.\n")
	b.WriteString("- `data` contains the key facts available in the document.\n")
	b.WriteString("- No commentary outside JSON.\n\n")

	b.WriteString("Document type: ")
	b.WriteString(result.DocumentType)
	b.WriteString(". Pages: ")
	b.WriteString(strconv.Itoa(len(result.Pages)))
	b.WriteString(".\n")
	if len(result.Barcodes) > 0 {
		b.WriteString("Detected barcodes:\n")
		for _, bc := range result.Barcodes {
			b.WriteString("- ")
			b.WriteString(bc.Type)
			if bc.Value != nil {
				b.WriteString(": ")
				b.WriteString(*bc.Value)
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\nDocument Content:\n")
	b.WriteString(content)
	return b.String()
}

// truncateRunes cuts s after at most n characters without splitting a
// rune. The byte length bounds the rune count, so anything within n
// bytes passes through untouched.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	off := 0
	for i := 0; i < n; i++ {
		_, w := utf8.DecodeRuneInString(s[off:])
		if w == 0 {
			break
		}
		off += w
	}
	return s[:off]
}
