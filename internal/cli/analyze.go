package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/finpro/internal/document"
	"github.com/joseph-ayodele/finpro/internal/export"
	"github.com/joseph-ayodele/finpro/internal/report"
)

var (
	analyzeLabel     string
	analyzeSentences int
	analyzeJSON      bool
	analyzeXLSX      string
	analyzeShowText  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file]",
	Short: "Extract metrics and a summary from one report",
	Long: `Reads a PDF (text layer plus OCR of embedded images) or a .txt file, extracts
the financial metrics and prints them with a short extractive summary.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeLabel, "label", "l", "", "label for the report (defaults to the file path)")
	f.IntVarP(&analyzeSentences, "sentences", "s", 0, "summary length in sentences (default from FINPRO_SUMMARY_SENTENCES)")
	f.BoolVar(&analyzeJSON, "json", false, "output the analysis as JSON")
	f.StringVar(&analyzeXLSX, "xlsx", "", "also write an XLSX workbook to this path")
	f.BoolVar(&analyzeShowText, "show-text", false, "print the extracted raw text first")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	if cmd.Flags().Changed("sentences") {
		cfg.Summary.MaxSentences = analyzeSentences
	}
	env, err := openEnv(cmd)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, cancel := withTimeout(cmd)
	defer cancel()

	if analyzeShowText {
		env.Processor.OnRead = func(doc document.Document) {
			fmt.Fprintln(cmd.OutOrStdout(), doc.Text)
			fmt.Fprintln(cmd.OutOrStdout())
		}
	}

	a, err := env.Processor.Analyze(ctx, path, analyzeLabel)
	if a == nil {
		return err
	}
	storeErr := err

	if analyzeJSON {
		b, err := report.JSON(a)
		if err != nil {
			return fmt.Errorf("render json: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
	} else {
		fmt.Fprint(cmd.OutOrStdout(), report.RenderAnalysis(a))
	}

	if analyzeXLSX != "" {
		b, err := export.NewService(logger).AnalysisXLSX(a)
		if err != nil {
			return err
		}
		if err := os.WriteFile(analyzeXLSX, b, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", analyzeXLSX, err)
		}
		logger.Info("workbook written", "path", analyzeXLSX)
	}
	return storeErr
}
