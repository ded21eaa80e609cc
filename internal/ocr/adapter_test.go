package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RPasch/OCR-tool/internal/entity"
)

func boolPtr(b bool) *bool        { return &b }
func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestBuildResultWalksPages(t *testing.T) {
	res := &analyzeResult{
		Content: "Hello World",
		Pages: []azurePage{
			{
				PageNumber: 1,
				Width:      8.5,
				Height:     11,
				Unit:       "inch",
				Lines: []azureLine{
					{Content: "Hello", Polygon: []float64{1, 1, 2, 1, 2, 2, 1, 2}},
					{Content: "World"},
				},
				Words: []azureWord{
					{Content: "Hello", Confidence: 0.99},
					{Content: "World", Confidence: 0.42},
				},
			},
			{PageNumber: 2, Width: 8.5, Height: 11, Unit: "inch"},
		},
	}

	out := buildResult(res, ".pdf")

	require.Equal(t, entity.StatusSuccess, out.Status)
	assert.Equal(t, "PDF", out.DocumentType)
	assert.Equal(t, "Hello World", out.FullContent)

	require.Len(t, out.Pages, 2)
	assert.Equal(t, 1, out.Pages[0].PageNumber)
	assert.Equal(t, 2, out.Pages[1].PageNumber)

	require.Len(t, out.Pages[0].Lines, 2)
	assert.Equal(t, "[1, 1], [2, 1], [2, 2], [1, 2]", out.Pages[0].Lines[0].BoundingBox)
	assert.Equal(t, "N/A", out.Pages[0].Lines[1].BoundingBox, "absent polygon renders as N/A")

	require.Len(t, out.Pages[0].Words, 2)
	assert.InDelta(t, 0.42, out.Pages[0].Words[1].Confidence, 1e-9)

	assert.Contains(t, out.Text, "--- Page 1 ---")
	assert.Contains(t, out.Text, "--- Page 2 ---")
	assert.Contains(t, out.Text, "Hello\nWorld\n")
}

func TestBuildResultNoBarcodesIsEmptyNotNil(t *testing.T) {
	out := buildResult(&analyzeResult{}, "png")
	require.NotNil(t, out.Barcodes)
	assert.Empty(t, out.Barcodes)
	require.NotNil(t, out.KeyValues)
	assert.Empty(t, out.KeyValues)
}

func TestBuildResultBarcodes(t *testing.T) {
	res := &analyzeResult{
		Barcodes: []azureBarcode{
			{Kind: "QRCode", Value: strPtr("https://x.example/a"), Confidence: floatPtr(0.95), Polygon: []float64{1, 1, 2, 2}},
			{}, // provider omitted everything but the detection itself
		},
	}
	out := buildResult(res, "jpg")

	require.Len(t, out.Barcodes, 2)
	first := out.Barcodes[0]
	assert.Equal(t, "QRCode", first.Type)
	require.NotNil(t, first.Value)
	assert.Equal(t, "https://x.example/a", *first.Value)
	require.NotNil(t, first.BoundingBox)
	assert.Equal(t, "[1, 1], [2, 2]", *first.BoundingBox)
	assert.Equal(t, "azure", first.Source)

	second := out.Barcodes[1]
	assert.Equal(t, "Unknown", second.Type)
	assert.Nil(t, second.Value)
	assert.Nil(t, second.Confidence)
	assert.Nil(t, second.BoundingBox)
	assert.Equal(t, "azure", second.Source)
}

func TestBuildResultKeyValuePairs(t *testing.T) {
	res := &analyzeResult{
		KeyValuePairs: []azureKVPair{
			{Key: &azureKVElement{Content: "Date of Birth"}, Value: &azureKVElement{Content: "1990-01-01"}, Confidence: floatPtr(0.9)},
			{Key: &azureKVElement{Content: "Signature"}}, // value side not located
		},
	}
	out := buildResult(res, "pdf")

	require.Len(t, out.KeyValues, 2)
	for _, kv := range out.KeyValues {
		assert.True(t, kv.Key != nil || kv.Value != nil, "provider never emits a fully empty pair")
	}
	assert.Equal(t, "Date of Birth", *out.KeyValues[0].Key)
	assert.Equal(t, "1990-01-01", *out.KeyValues[0].Value)
	assert.Nil(t, out.KeyValues[1].Value)
}

func TestBuildResultHandwritingStyles(t *testing.T) {
	res := &analyzeResult{
		Styles: []azureStyle{
			{IsHandwritten: boolPtr(true)},
			{IsHandwritten: boolPtr(false)},
			{}, // omitted flag counts as not handwritten
		},
	}
	out := buildResult(res, "pdf")

	require.Len(t, out.Styles, 3)
	assert.True(t, out.HasHandwriting(), "summary is a logical OR across entries")
}

func TestErrorResultShape(t *testing.T) {
	out := entity.ErrorResult("timeout")
	assert.Equal(t, entity.StatusError, out.Status)
	assert.Equal(t, "timeout", out.Message)
	assert.Empty(t, out.FullContent)
	assert.Empty(t, out.Pages)
	assert.NotNil(t, out.Barcodes)
	assert.False(t, out.HasHandwriting())
}
