package export

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/RPasch/OCR-tool/internal/entity"
	"github.com/RPasch/OCR-tool/internal/pipeline"
)

// Service renders a pipeline outcome as an XLSX workbook for the
// operator's downstream use. There is no storage behind it; the workbook
// is produced from the in-memory result of the last action.
type Service struct {
	sampleWords int
	logger      *slog.Logger
}

func NewService(sampleWords int, logger *slog.Logger) *Service {
	if sampleWords <= 0 {
		sampleWords = 5
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{sampleWords: sampleWords, logger: logger}
}

// OutcomeXLSX returns workbook bytes with one sheet per result facet:
// summary, key-value pairs, barcodes, page word samples, and (when the
// agent produced structured output) the normalized data.
func (s *Service) OutcomeXLSX(out *pipeline.Outcome) ([]byte, error) {
	if out == nil || out.Extraction == nil {
		return nil, fmt.Errorf("no result to export")
	}
	start := time.Now()
	ext := out.Extraction

	f := excelize.NewFile()
	const summarySheet = "Summary"
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	writeRow := func(sheet string, row int, values ...any) {
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	handwriting := "no handwritten content"
	if ext.HasHandwriting() {
		handwriting = "contains handwritten content"
	}
	writeRow(summarySheet, 1, "Document Type", ext.DocumentType)
	writeRow(summarySheet, 2, "Status", string(ext.Status))
	writeRow(summarySheet, 3, "Total Pages", len(ext.Pages))
	writeRow(summarySheet, 4, "Handwriting", handwriting)
	if ext.Message != "" {
		writeRow(summarySheet, 5, "Message", ext.Message)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 18)
	_ = f.SetColWidth(summarySheet, "B", "B", 48)

	if len(ext.KeyValues) > 0 {
		const sheet = "Key-Value Pairs"
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		writeRow(sheet, 1, "Key", "Value", "Confidence")
		for i, kv := range ext.KeyValues {
			writeRow(sheet, i+2, strOrEmpty(kv.Key), strOrEmpty(kv.Value), confOrNA(kv.Confidence))
		}
		_ = f.SetColWidth(sheet, "A", "B", 32)
	}

	if len(ext.Barcodes) > 0 {
		const sheet = "Barcodes"
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		writeRow(sheet, 1, "Type", "Value", "Confidence", "Location", "Source")
		for i, bc := range ext.Barcodes {
			loc := ""
			if bc.BoundingBox != nil {
				loc = *bc.BoundingBox
			}
			writeRow(sheet, i+2, bc.Type, strOrEmpty(bc.Value), confOrNA(bc.Confidence), loc, bc.Source)
		}
		_ = f.SetColWidth(sheet, "B", "B", 40)
		_ = f.SetColWidth(sheet, "D", "D", 48)
	}

	if len(ext.Pages) > 0 {
		const sheet = "Word Samples"
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
		writeRow(sheet, 1, "Page", "Word", "Confidence")
		row := 2
		for _, page := range ext.Pages {
			for i, w := range page.Words {
				if i >= s.sampleWords {
					break
				}
				writeRow(sheet, row, page.PageNumber, w.Content, fmt.Sprintf("%.2f", w.Confidence))
				row++
			}
		}
	}

	if out.Normalization != nil && out.Normalization.ShapeOK {
		if err := s.writeNormalizedSheet(f, writeRow, out.Normalization.Document); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	s.logger.Info("export.xlsx.ok",
		"kv_pairs", len(ext.KeyValues),
		"barcodes", len(ext.Barcodes),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

func (s *Service) writeNormalizedSheet(f *excelize.File, writeRow func(string, int, ...any), doc *entity.NormalizedDocument) error {
	const sheet = "Normalized Data"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}
	keys := make([]string, 0, len(doc.Data))
	for k := range doc.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	writeRow(sheet, 1, "Key", "Value")
	row := 2
	for _, k := range keys {
		writeRow(sheet, row, k, renderValue(doc.Data[k]))
		row++
	}
	_ = f.SetColWidth(sheet, "A", "A", 28)
	_ = f.SetColWidth(sheet, "B", "B", 64)
	return nil
}

// renderValue flattens nested values for a spreadsheet cell.
func renderValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}

func strOrEmpty(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func confOrNA(p *float64) string {
	if p == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *p*100)
}
