package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/RPasch/OCR-tool/constants"
	"github.com/RPasch/OCR-tool/internal/common"
	"github.com/RPasch/OCR-tool/internal/entity"
	"github.com/RPasch/OCR-tool/internal/export"
	"github.com/RPasch/OCR-tool/internal/llm"
	"github.com/RPasch/OCR-tool/internal/llm/openai"
	"github.com/RPasch/OCR-tool/internal/ocr"
	"github.com/RPasch/OCR-tool/internal/pipeline"
)

// ocr-batch analyzes a single document offline and writes sidecar files
// next to it: <base>_ocr_result.json with the extraction result and
// <base>_agent_output.txt with the raw agent text.
func main() {
	var (
		noAgent bool
		xlsx    bool
		timeout time.Duration
	)

	root := &cobra.Command{
		Use:   "ocr-batch <document>",
		Short: "Run the OCR and normalization pipeline on one file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], noAgent, xlsx, timeout)
		},
		SilenceUsage: true,
	}
	root.Flags().BoolVar(&noAgent, "no-agent", false, "skip the normalization stage")
	root.Flags().BoolVar(&xlsx, "xlsx", false, "also write <base>_result.xlsx")
	root.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall deadline for the pipeline")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(path string, noAgent, xlsx bool, timeout time.Duration) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	_ = godotenv.Load()
	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		return err
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	if !constants.IsAllowedExt(ext) {
		return fmt.Errorf("unsupported file type %q: expected pdf, png, jpg, or jpeg", ext)
	}

	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	ocrClient := ocr.NewClient(ocr.Config{
		Endpoint:     cfg.OCR.Endpoint,
		APIKey:       cfg.OCR.APIKey,
		APIVersion:   cfg.OCR.APIVersion,
		PollInterval: cfg.OCR.PollInterval,
	}, logger)

	var agent llm.Normalizer
	if !noAgent {
		if cfg.LLM.APIKey == "" {
			return common.ConfigError("OPENAI_API_KEY is required unless --no-agent is set")
		}
		agent = openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
	}

	proc := pipeline.NewProcessor(ocrClient, agent, cfg.LLM.MaxContentLength, logger)
	outcome := proc.Process(ctx, fileBytes, ext, !noAgent)

	base := strings.TrimSuffix(path, filepath.Ext(path))

	ocrJSON, err := json.MarshalIndent(outcome.Extraction, "", "  ")
	if err != nil {
		return fmt.Errorf("encode extraction result: %w", err)
	}
	if err := os.WriteFile(base+"_ocr_result.json", ocrJSON, 0o644); err != nil {
		return fmt.Errorf("write extraction result: %w", err)
	}

	if outcome.Extraction.Status != entity.StatusSuccess {
		return fmt.Errorf("extraction failed: %s", outcome.Extraction.Message)
	}

	if outcome.Normalization != nil {
		agentText := outcome.Normalization.RawText
		if outcome.Normalization.Parsed {
			b, err := json.MarshalIndent(outcome.Normalization.Object, "", "  ")
			if err != nil {
				return fmt.Errorf("encode agent output: %w", err)
			}
			agentText = string(b)
		}
		if err := os.WriteFile(base+"_agent_output.txt", []byte(agentText), 0o644); err != nil {
			return fmt.Errorf("write agent output: %w", err)
		}
	}
	if outcome.AgentError != "" {
		logger.Error("agent stage failed", "error", outcome.AgentError)
	}

	if xlsx {
		bs, err := export.NewService(cfg.UI.SampleWords, logger).OutcomeXLSX(outcome)
		if err != nil {
			return fmt.Errorf("export: %w", err)
		}
		if err := os.WriteFile(base+"_result.xlsx", bs, 0o644); err != nil {
			return fmt.Errorf("write workbook: %w", err)
		}
	}

	logger.Info("pipeline OK",
		"pages", len(outcome.Extraction.Pages),
		"barcodes", len(outcome.Extraction.Barcodes),
		"normalized", outcome.Normalization != nil && outcome.Normalization.Parsed,
	)
	return nil
}
