package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/verdict/internal/model"
)

// Version is set at build time with -ldflags
var Version = "dev"

var (
	cfgFile   string
	verbose   bool
	logLevel  string
	logFormat string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "verdict",
	Short: "Verdict - keyword dispute judging with explained reasoning",
	Long: `Verdict decides small two-party disputes from plain-text statements.

A keyword scorer picks Plaintiff, Defendant or Neutral and a confidence.
A rule-based generator explains the decision in a fixed structure.
An optional LLM provider can write the explanation instead; when it is
unavailable the rule-based text is returned and the fallback is reported.

The verdict is always decided by the scorer, never by the LLM.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseLevel(logLevel)
		if err != nil {
			return err
		}
		initLogging(level, logFormat, os.Stderr)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "verdict %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.verdict/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".verdict"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	bindEnv(viper.GetViper())

	if err := viper.ReadInConfig(); err == nil {
		slog.Debug("using config file", "path", viper.ConfigFileUsed())
	}
}

// bindEnv maps VERDICT_LLM_PROVIDER to llm.provider and so on
func bindEnv(v *viper.Viper) {
	v.SetEnvPrefix("VERDICT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// loadConfig merges defaults, the config file and the environment into a
// Config. Defaults are registered per key so AutomaticEnv can see them
// during Unmarshal.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	def := model.DefaultConfig()
	defaults := map[string]any{
		"server.addr":                       def.Server.Addr,
		"server.read_timeout":               def.Server.ReadTimeout,
		"server.write_timeout":              def.Server.WriteTimeout,
		"server.shutdown_timeout":           def.Server.ShutdownTimeout,
		"llm.provider":                      def.LLM.Provider,
		"llm.model":                         def.LLM.Model,
		"llm.api_key":                       def.LLM.APIKey,
		"llm.base_url":                      def.LLM.BaseURL,
		"llm.timeout":                       def.LLM.Timeout,
		"llm.max_tokens":                    def.LLM.MaxTokens,
		"llm.temperature":                   def.LLM.Temperature,
		"llm.http_proxy":                    def.LLM.HTTPProxy,
		"llm.https_proxy":                   def.LLM.HTTPSProxy,
		"llm.no_proxy":                      def.LLM.NoProxy,
		"cache.enabled":                     def.Cache.Enabled,
		"cache.memory_ttl":                  def.Cache.MemoryTTL,
		"cache.disk_dir":                    def.Cache.DiskDir,
		"cache.disk_ttl":                    def.Cache.DiskTTL,
		"rate_limiting.requests_per_second": def.RateLimiting.RequestsPerSecond,
		"rate_limiting.burst_size":          def.RateLimiting.BurstSize,
		"concurrency.workers":               def.Concurrency.Workers,
		"output.verbose":                    def.Output.Verbose,
		"output.include_footer":             def.Output.IncludeFooter,
	}
	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	cfg := &model.Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	applyEnvFallbacks(cfg)
	return cfg, nil
}

// applyEnvFallbacks fills provider credentials from the conventional
// variables when the config leaves them empty
func applyEnvFallbacks(cfg *model.Config) {
	if cfg.LLM.APIKey == "" {
		switch strings.ToLower(cfg.LLM.Provider) {
		case "openai":
			cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		case "anthropic", "claude":
			cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		}
	}
	if cfg.LLM.BaseURL == "" && strings.EqualFold(cfg.LLM.Provider, "ollama") {
		cfg.LLM.BaseURL = os.Getenv("OLLAMA_BASE_URL")
	}
	if port := os.Getenv("PORT"); port != "" && cfg.Server.Addr == model.DefaultConfig().Server.Addr {
		cfg.Server.Addr = ":" + port
	}
}

func contextWithTimeout(cmd *cobra.Command, d time.Duration) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
