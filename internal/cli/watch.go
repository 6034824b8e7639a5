package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/ingest"
	"github.com/joseph-ayodele/finpro/internal/report"
)

var (
	watchInitialScan bool
	watchDebounce    = ingest.DefaultDebounce
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir...]",
	Short: "Analyze reports as they land in a directory",
	Long: `Watches the directories (recursively) for new or rewritten .pdf and .txt files
and analyzes each one in turn. With a history store configured, files whose
content was analyzed before are not read again.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	f := watchCmd.Flags()
	f.BoolVar(&watchInitialScan, "initial-scan", false, "analyze files already present in the directories first")
	f.DurationVar(&watchDebounce, "debounce", ingest.DefaultDebounce, "quiet period before a changed file is picked up")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	env.Processor.Reuse = env.Store != nil

	ctx := cmd.Context()
	paths, errs, err := ingest.StartWatcher(ctx, ingest.WatchConfig{
		Roots:       args,
		InitialScan: watchInitialScan,
		Debounce:    watchDebounce,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	for {
		select {
		case p, ok := <-paths:
			if !ok {
				return nil
			}
			actx, cancel := withTimeout(cmd)
			actx = common.WithLogger(actx, logger.With("source", "watch"))
			a, err := env.Processor.Analyze(actx, p, "")
			cancel()
			if err != nil {
				logger.Error("watch.analyze.failed", "path", p, "error", err)
				if a == nil {
					continue
				}
			}
			fmt.Fprint(cmd.OutOrStdout(), report.RenderAnalysis(a))
			fmt.Fprintln(cmd.OutOrStdout())
		case err, ok := <-errs:
			if ok {
				logger.Warn("watch.error", "error", err)
			} else {
				errs = nil
			}
		}
	}
}
