package ocr

import (
	"context"
	"fmt"
	"strings"

	"github.com/RPasch/OCR-tool/constants"
	"github.com/RPasch/OCR-tool/internal/entity"
)

// barcodeSource tags provenance on every barcode for future multi-source
// merging.
const barcodeSource = "azure"

// Extract analyzes the document bytes and maps the provider response to
// the canonical result. Service faults are not returned as Go errors:
// they become a result with Status error and the exception text, so the
// caller renders the message instead of failing.
func (c *Client) Extract(ctx context.Context, fileBytes []byte, fileExt string) *entity.DocumentExtractionResult {
	res, err := c.analyze(ctx, fileBytes)
	if err != nil {
		c.logger.Error("ocr.extract.failed", "error", err)
		return entity.ErrorResult(err.Error())
	}
	return buildResult(res, fileExt)
}

// buildResult walks the hierarchical analyze result exactly once.
// Optional provider fields translate to nil/absent, never to a panic.
func buildResult(res *analyzeResult, fileExt string) *entity.DocumentExtractionResult {
	out := &entity.DocumentExtractionResult{
		Status:       entity.StatusSuccess,
		FullContent:  res.Content,
		Pages:        make([]entity.PageResult, 0, len(res.Pages)),
		Styles:       make([]entity.StyleFlag, 0, len(res.Styles)),
		Barcodes:     make([]entity.BarcodeResult, 0, len(res.Barcodes)),
		KeyValues:    make([]entity.KeyValueResult, 0, len(res.KeyValuePairs)),
		DocumentType: strings.ToUpper(constants.NormalizeExt(fileExt)),
	}

	var text strings.Builder
	for _, page := range res.Pages {
		p := entity.PageResult{
			PageNumber: page.PageNumber,
			Width:      page.Width,
			Height:     page.Height,
			Unit:       page.Unit,
			Lines:      make([]entity.LineResult, 0, len(page.Lines)),
			Words:      make([]entity.WordResult, 0, len(page.Words)),
		}

		fmt.Fprintf(&text, "\n--- Page %d ---\n", page.PageNumber)
		for _, line := range page.Lines {
			text.WriteString(line.Content)
			text.WriteString("\n")
			p.Lines = append(p.Lines, entity.LineResult{
				Content:     line.Content,
				BoundingBox: FormatBoundingBox(line.Polygon),
			})
		}
		for _, word := range page.Words {
			p.Words = append(p.Words, entity.WordResult{
				Content:    word.Content,
				Confidence: word.Confidence,
			})
		}
		out.Pages = append(out.Pages, p)
	}
	out.Text = text.String()

	for _, style := range res.Styles {
		flag := entity.StyleFlag{}
		if style.IsHandwritten != nil {
			flag.IsHandwritten = *style.IsHandwritten
		}
		out.Styles = append(out.Styles, flag)
	}

	for _, bc := range res.Barcodes {
		kind := bc.Kind
		if kind == "" {
			kind = "Unknown"
		}
		b := entity.BarcodeResult{
			Type:       kind,
			Value:      bc.Value,
			Confidence: bc.Confidence,
			Source:     barcodeSource,
		}
		if len(bc.Polygon) > 0 {
			box := FormatBoundingBox(bc.Polygon)
			b.BoundingBox = &box
		}
		out.Barcodes = append(out.Barcodes, b)
	}

	for _, kv := range res.KeyValuePairs {
		pair := entity.KeyValueResult{Confidence: kv.Confidence}
		if kv.Key != nil {
			k := kv.Key.Content
			pair.Key = &k
		}
		if kv.Value != nil {
			v := kv.Value.Content
			pair.Value = &v
		}
		out.KeyValues = append(out.KeyValues, pair)
	}

	return out
}
