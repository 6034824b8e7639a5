package cli

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/report"
)

var (
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history [id]",
	Short: "List stored analyses, or show one",
	Long: `Lists the analyses kept in the history store, newest first. With an ID,
prints that analysis in full. Needs --store or FINPRO_STORE_DSN.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of analyses to list (0 = all)")
	historyCmd.Flags().BoolVar(&historyJSON, "json", false, "output a single analysis as JSON")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	if cfg.Store.DSN == "" {
		return common.NewAppError(common.CodeConfig, "history needs a store: set --store or FINPRO_STORE_DSN", common.ErrInvalidInput)
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()
	ctx := cmd.Context()

	if len(args) == 1 {
		id, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("%w: analysis id %q", common.ErrInvalidInput, args[0])
		}
		a, err := env.Store.GetByID(ctx, id)
		if errors.Is(err, common.ErrNotFound) {
			return fmt.Errorf("no analysis %s", id)
		}
		if err != nil {
			return err
		}
		if historyJSON {
			b, err := report.JSON(a)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		}
		fmt.Fprint(cmd.OutOrStdout(), report.RenderAnalysis(a))
		return nil
	}

	list, err := env.Store.List(ctx, historyLimit)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), report.RenderHistory(list))
	return nil
}
