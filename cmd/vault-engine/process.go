// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/vault-engine/internal/index"
	"github.com/pdiddy/vault-engine/internal/pipeline"
	"github.com/pdiddy/vault-engine/internal/summarize"
	"github.com/pdiddy/vault-engine/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Summarize documents into linked vault notes",
	Long: `Process loads a document, summarizes it through the Claude API, and
writes the result as a Markdown note with YAML frontmatter. The note is
admitted to the vault index and linked to related notes by tag and topic
similarity.

With --batch, every supported document in the source directory is
processed; sources unchanged since the previous run are skipped.`,
	RunE: runProcess,
}

func runProcess(cmd *cobra.Command, args []string) error {
	batch, _ := cmd.Flags().GetBool("batch")
	if !batch && len(args) != 1 {
		return fmt.Errorf("provide exactly one input file, or use --batch")
	}

	cfg := pipelineConfig(cmd)
	if cfg.Summarize.APIKey == "" {
		return fmt.Errorf("no API key: set --api-key or .secrets/anthropic-api-key")
	}

	backend := &summarize.ClaudeBackend{
		APIKey:     cfg.Summarize.APIKey,
		Model:      cfg.Summarize.Model,
		MaxRetries: cfg.Summarize.MaxRetries,
		UserAgent:  cfg.Summarize.UserAgent,
		Client:     &http.Client{Timeout: cfg.Summarize.Timeout},
	}

	store := index.Load(cfg.Index.IndexPath)

	if batch {
		summary, err := pipeline.ProcessAll(context.Background(), backend, store, cfg, os.Stdout)
		if err != nil {
			return err
		}
		if summary.HasFailures() {
			return fmt.Errorf("%d document(s) failed processing", summary.Failed)
		}
		return nil
	}

	_, err := pipeline.Process(context.Background(), backend, store, cfg, args[0], os.Stdout)
	return err
}

// pipelineConfig assembles stage configuration from flags and secrets.
func pipelineConfig(cmd *cobra.Command) types.PipelineConfig {
	sourceDir, _ := cmd.Flags().GetString("source-dir")
	vaultDir, _ := cmd.Flags().GetString("vault-dir")
	ledgerPath, _ := cmd.Flags().GetString("ledger")
	indexPath, _ := cmd.Flags().GetString("index")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	maxLinks, _ := cmd.Flags().GetInt("max-links")
	mutual, _ := cmd.Flags().GetBool("mutual")
	model, _ := cmd.Flags().GetString("model")
	apiKey, _ := cmd.Flags().GetString("api-key")
	maxInput, _ := cmd.Flags().GetInt("max-input-chars")
	maxRetries, _ := cmd.Flags().GetInt("max-retries")

	return types.PipelineConfig{
		Ingest: types.IngestConfig{
			SourceDir:  sourceDir,
			VaultDir:   vaultDir,
			LedgerPath: ledgerPath,
		},
		Summarize: types.SummarizeConfig{
			AIConfig: types.AIConfig{
				HTTPConfig: types.HTTPConfig{
					Timeout:   timeout,
					UserAgent: "vault-engine/" + version,
				},
				Model:      model,
				APIKey:     secretDefault("anthropic-api-key", apiKey),
				MaxRetries: maxRetries,
			},
			MaxInputChars: maxInput,
		},
		Index: types.IndexConfig{IndexPath: indexPath},
		Linker: types.LinkerConfig{
			MinConfidence: minConfidence,
			MaxResults:    maxLinks,
			Mutual:        mutual,
		},
	}
}

func init() {
	processCmd.Flags().Bool("batch", false, "process all supported documents in source-dir")
	processCmd.Flags().String("source-dir", "sources", "directory scanned in batch mode")
	processCmd.Flags().String("vault-dir", "vault", "directory for rendered notes")
	processCmd.Flags().String("ledger", ".vault/ledger.db", "SQLite ledger of processed sources")
	processCmd.Flags().String("index", ".vault/index.json", "vault index file")
	processCmd.Flags().Float64("min-confidence", 0.3, "minimum similarity score for automatic links")
	processCmd.Flags().Int("max-links", 5, "maximum automatic links per note")
	processCmd.Flags().Bool("mutual", false, "also add the reverse outbound edge on link targets")
	processCmd.Flags().String("model", "claude-sonnet-4-5-20250929", "AI model identifier for summarization")
	processCmd.Flags().String("api-key", "", "AI API key (default: .secrets/anthropic-api-key)")
	processCmd.Flags().Int("max-input-chars", summarize.DefaultMaxInputChars, "document text budget sent to the AI API")
	processCmd.Flags().Int("max-retries", 3, "retry attempts for rate-limited API calls")
	processCmd.Flags().Duration("timeout", 2*time.Minute, "HTTP request timeout for API calls")

	rootCmd.AddCommand(processCmd)
}
