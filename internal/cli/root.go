// Package cli implements the finpro command tree.
package cli

import (
	"context"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/finpro/internal/app"
	"github.com/joseph-ayodele/finpro/internal/common"
)

var (
	verbose     bool
	storeDSN    string
	noOCR       bool
	textBackend string

	cfg    *common.Config
	logger = slog.Default()
)

var rootCmd = &cobra.Command{
	Use:   "finpro",
	Short: "Extract financial metrics from annual reports",
	Long: `finpro reads PDF or plain-text annual reports, extracts headline financial
metrics (revenue, profit, net income, assets, liabilities, EPS, margins and
leverage), summarizes the opening of the report and compares two periods.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	pf.StringVar(&storeDSN, "store", "", "history store DSN (sqlite://path, a file path or postgres://...)")
	pf.BoolVar(&noOCR, "no-ocr", false, "skip OCR of embedded images")
	pf.StringVar(&textBackend, "text-backend", "", "text layer backend: poppler or native")
}

// Execute runs the command tree with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// loadConfig reads .env and the environment, then applies global flags on top.
func loadConfig(cmd *cobra.Command, _ []string) error {
	if err := common.LoadDotEnv(); err != nil {
		return err
	}
	c := common.LoadConfig()
	flags := cmd.Flags()
	if flags.Changed("store") {
		c.Store.DSN = storeDSN
	}
	if noOCR {
		c.OCR.Enabled = false
	}
	if flags.Changed("text-backend") {
		c.OCR.TextBackend = strings.ToLower(textBackend)
	}
	cfg = c
	logger = app.NewLogger(cmd.ErrOrStderr(), c.Log.Format, verbose)
	slog.SetDefault(logger)
	return nil
}

// openEnv builds the processor for a command; the caller closes it.
func openEnv(cmd *cobra.Command) (*app.Env, error) {
	return app.NewEnv(cmd.Context(), cfg, logger)
}

// withTimeout applies FINPRO_TIMEOUT to the command context.
func withTimeout(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return common.WithTimeout(ctx, cfg.Timeout)
}
