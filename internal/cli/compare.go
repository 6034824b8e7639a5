package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/finpro/internal/common"
	"github.com/joseph-ayodele/finpro/internal/entity"
	"github.com/joseph-ayodele/finpro/internal/export"
	"github.com/joseph-ayodele/finpro/internal/report"
)

var (
	compareLabel1 string
	compareLabel2 string
	compareJSON   bool
	compareXLSX   string
)

var compareCmd = &cobra.Command{
	Use:   "compare [file1] [file2]",
	Short: "Compare the metrics of two reporting periods",
	Long: `Analyzes the first report completely, then the second, and prints every
metric side by side with the absolute and percent change.`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareLabel1, "label1", "Period 1", "label for the first report")
	f.StringVar(&compareLabel2, "label2", "Period 2", "label for the second report")
	f.BoolVar(&compareJSON, "json", false, "output the comparison as JSON")
	f.StringVar(&compareXLSX, "xlsx", "", "also write an XLSX workbook with a comparison chart to this path")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	v := common.NewValidator()
	v.Field("label2", compareLabel2, common.Required, common.DistinctFrom(compareLabel1))
	if v.HasErrors() {
		return common.NewAppError(common.CodeConfig, v.ErrorMessage(), common.ErrInvalidInput)
	}

	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	res, err := env.Processor.Compare(ctx, args[0], compareLabel1, args[1], compareLabel2)
	if err != nil {
		return err
	}

	if compareJSON {
		b, err := report.ComparisonJSON(res.A, res.B, res.Table)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), report.RenderComparison(res.Table))
		for _, a := range []*entity.Analysis{res.A, res.B} {
			fmt.Fprintf(cmd.OutOrStdout(), "\nSummary (%s):\n%s\n", a.DisplayLabel(), a.Summary)
		}
	}

	if compareXLSX != "" {
		b, err := export.NewService(logger).ComparisonXLSX(res.A, res.B, res.Table)
		if err != nil {
			return err
		}
		if err := os.WriteFile(compareXLSX, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", compareXLSX, err)
		}
		logger.Info("workbook written", "path", compareXLSX)
	}
	return nil
}
