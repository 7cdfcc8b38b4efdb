package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verdict/internal/model"
	"github.com/ppiankov/verdict/internal/pipeline"
)

var (
	plaintiffText string
	defendantText string
	evidenceText  string
	printJSON     bool
	outJSON       string
	outMD         string
	llmProvider   string
	llmModel      string
	judgeTimeout  time.Duration
	noCache       bool
	noFooter      bool
)

// judgeCmd represents the judge command
var judgeCmd = &cobra.Command{
	Use:   "judge",
	Short: "Judge a single dispute",
	Long: `Judge scores one dispute and explains the verdict.

Statements may be given as text or as @path to read them from a file.

Example:
  verdict judge --plaintiff "I paid but never received the laptop." --defendant "I shipped it."
  verdict judge --plaintiff @p.txt --defendant @d.txt --evidence "Receipt attached" --out-md verdict.md
  verdict judge --plaintiff ... --defendant ... --llm-provider ollama --llm-model llama3`,
	Args: cobra.NoArgs,
	RunE: runJudge,
}

func init() {
	rootCmd.AddCommand(judgeCmd)

	judgeCmd.Flags().StringVar(&plaintiffText, "plaintiff", "", "plaintiff statement (or @file)")
	judgeCmd.Flags().StringVar(&defendantText, "defendant", "", "defendant statement (or @file)")
	judgeCmd.Flags().StringVar(&evidenceText, "evidence", "", "evidence description (or @file)")

	judgeCmd.Flags().BoolVar(&printJSON, "json", false, "print the judgment as JSON to stdout")
	judgeCmd.Flags().StringVar(&outJSON, "out-json", "", "write the judgment JSON to this path")
	judgeCmd.Flags().StringVar(&outMD, "out-md", "", "write the judgment Markdown to this path")
	judgeCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")

	judgeCmd.Flags().DurationVar(&judgeTimeout, "timeout", time.Minute, "overall timeout")
	judgeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the reasoning cache")
	judgeCmd.Flags().StringVar(&llmProvider, "llm-provider", "", "LLM provider for reasoning (openai, anthropic, ollama)")
	judgeCmd.Flags().StringVar(&llmModel, "llm-model", "", "LLM model name")
}

func runJudge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	applyJudgeFlags(cmd, cfg)

	d, err := readDispute(plaintiffText, defendantText, evidenceText)
	if err != nil {
		return err
	}

	ctx, cancel := contextWithTimeout(cmd, judgeTimeout)
	defer cancel()

	p := pipeline.NewPipeline(cfg, newLogger("pipeline"), nil)
	j, err := p.Judge(ctx, d)
	if errors.Is(err, model.ErrMissingStatement) {
		return fmt.Errorf("%w: pass --plaintiff and --defendant", err)
	}
	if err != nil {
		return err
	}

	if printJSON {
		return writeJudgmentJSON(cmd.OutOrStdout(), j)
	}
	return p.RenderJudgment(j, outJSON, outMD, cfg.Output.Verbose)
}

// applyJudgeFlags lets explicitly set flags override file and env config
func applyJudgeFlags(cmd *cobra.Command, cfg *model.Config) {
	flags := cmd.Flags()
	if flags.Changed("llm-provider") {
		cfg.LLM.Provider = llmProvider
		applyEnvFallbacks(cfg)
	}
	if flags.Changed("llm-model") {
		cfg.LLM.Model = llmModel
	}
	if flags.Changed("no-cache") {
		cfg.Cache.Enabled = !noCache
	}
	if flags.Changed("no-footer") {
		cfg.Output.IncludeFooter = !noFooter
	}
}

// readDispute builds a dispute from flag values, reading @file arguments
func readDispute(plaintiff, defendant, evidence string) (model.Dispute, error) {
	var d model.Dispute
	var err error
	if d.Plaintiff, err = readArg(plaintiff); err != nil {
		return d, fmt.Errorf("plaintiff: %w", err)
	}
	if d.Defendant, err = readArg(defendant); err != nil {
		return d, fmt.Errorf("defendant: %w", err)
	}
	if d.Evidence, err = readArg(evidence); err != nil {
		return d, fmt.Errorf("evidence: %w", err)
	}
	return d, nil
}

func readArg(s string) (string, error) {
	if len(s) < 2 || s[0] != '@' {
		return s, nil
	}
	data, err := os.ReadFile(s[1:])
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJudgmentJSON(w io.Writer, j *model.Judgment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(j)
}
