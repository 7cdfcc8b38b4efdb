package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/pipeline"
	"github.com/ppiankov/verdict/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Judge many disputes from a YAML file in parallel",
	Long: `Batch judges every dispute in a YAML file concurrently and writes a
JSON and Markdown judgment for each one.

The file is either a list of disputes or a mapping with a "disputes" key:

  disputes:
    - plaintiff: "I paid $500 for a laptop but never received it."
      defendant: "I shipped the laptop."
      evidence: "Receipt confirms payment"

Example:
  verdict batch disputes.yaml
  verdict batch disputes.yaml --concurrency 8 --output-dir ./judgments`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "number of concurrent workers (default: concurrency.workers)")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./verdict-judgments", "output directory for judgments")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 10*time.Minute, "total timeout for batch processing")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the reasoning cache")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for reasoning (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyJudgeFlags(cmd, cfg)
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := contextWithTimeout(cmd, batchTimeout)
	defer cancel()

	out := cmd.ErrOrStderr()
	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Input file:   %s\n", file)
	fmt.Fprintf(out, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(out, "  Output dir:   %s\n", outputDir)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(out, "  LLM:          %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintf(out, "\n")

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg, newLogger("pipeline"), nil)
	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	tally := map[model.Verdict]int{}
	failures := 0
	renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter)

	for _, result := range results {
		if result.Error != nil {
			failures++
			fmt.Fprintf(out, "✗ #%d: %v\n", result.Index+1, result.Error)
			continue
		}

		j := result.Judgment
		jsonPath, mdPath := pipeline.OutputPaths(outputDir, j)
		if err := renderer.RenderJSON(j, jsonPath); err != nil {
			failures++
			fmt.Fprintf(out, "✗ #%d: write JSON: %v\n", result.Index+1, err)
			continue
		}
		if err := renderer.RenderMarkdown(j, mdPath); err != nil {
			failures++
			fmt.Fprintf(out, "✗ #%d: write Markdown: %v\n", result.Index+1, err)
			continue
		}

		tally[j.Score.Winner]++
		fmt.Fprintf(out, "✓ #%d: %s (%s, %d-%d)\n", result.Index+1,
			j.Score.Winner, j.Score.Confidence, j.Score.PlaintiffScore, j.Score.DefendantScore)
	}

	fmt.Fprintf(out, "\n")
	fmt.Fprintf(out, "  Total:      %d disputes\n", len(results))
	fmt.Fprintf(out, "  Plaintiff:  %d\n", tally[model.VerdictPlaintiff])
	fmt.Fprintf(out, "  Defendant:  %d\n", tally[model.VerdictDefendant])
	fmt.Fprintf(out, "  Neutral:    %d\n", tally[model.VerdictNeutral])
	fmt.Fprintf(out, "  Failures:   %d\n", failures)
	fmt.Fprintf(out, "  Output:     %s\n", outputDir)
	fmt.Fprintf(out, "\n")

	if failures > 0 && failures == len(results) {
		return fmt.Errorf("all %d disputes failed", failures)
	}
	return nil
}
