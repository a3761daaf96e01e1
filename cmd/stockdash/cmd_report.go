package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"stockAnalysis/internal/dashboard"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the dashboard as a formatted report",
	Long: `Compute every dashboard section and print it as markdown rendered for the
terminal.

Examples:
  stockdash report
  stockdash report --month 2024-03
  stockdash report --plain > dashboard.md`,
	RunE: runReport,
}

var (
	reportMonth string
	reportPlain bool
	reportWidth int
)

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().StringVar(&reportMonth, "month", "", "Month for the monthly movers, YYYY-MM (default: latest)")
	reportCmd.Flags().BoolVar(&reportPlain, "plain", false, "Print raw markdown")
	reportCmd.Flags().IntVar(&reportWidth, "width", 100, "Word wrap width of the rendered report")
}

func runReport(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	report, err := dashboard.NewService(cfg.DashboardOptions()).Report(ds, reportMonth)
	if err != nil {
		return err
	}
	md, err := report.Markdown()
	if err != nil {
		return err
	}
	if reportPlain {
		_, err = fmt.Fprint(os.Stdout, md)
		return err
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(reportWidth))
	if err != nil {
		return fmt.Errorf("terminal renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}
	_, err = fmt.Fprint(os.Stdout, out)
	return err
}
