package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/ppiankov/verdict/internal/metrics"
	"github.com/ppiankov/verdict/internal/pipeline"
	"github.com/ppiankov/verdict/internal/server"
)

var serveAddr string

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve exposes the judging pipeline over HTTP:

  POST /verdict           score a dispute
  POST /api/genai_reason  explain a verdict (LLM with rule-based fallback)
  POST /api/judge         score and explain in one call
  GET  /health            health check
  GET  /metrics           Prometheus metrics

Example:
  verdict serve
  verdict serve --addr :8080
  VERDICT_LLM_PROVIDER=openai OPENAI_API_KEY=sk-... verdict serve`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.addr and PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	logger := newLogger("serve")
	mt := metrics.New()
	p := pipeline.NewPipeline(cfg, newLogger("pipeline"), mt)
	srv := server.New(p, mt, newLogger("server"), Version).HTTPServer(cfg.Server)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening",
			"addr", cfg.Server.Addr,
			"genai", p.Reasoner().GeneratorName(),
			"version", Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
