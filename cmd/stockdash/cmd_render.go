package main

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stockAnalysis/internal/analytics"
	"stockAnalysis/internal/dashboard"
	"stockAnalysis/internal/plot"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render every dashboard chart to PNG files",
	Long: `Render the charts of the dashboard into an output directory, one
<section>.png per chart. Sections that lack data are skipped with a warning.`,
	RunE: runRender,
}

var (
	renderOut   string
	renderMonth string
)

func init() {
	rootCmd.AddCommand(renderCmd)
	renderCmd.Flags().StringVar(&renderOut, "out", "charts", "Output directory")
	renderCmd.Flags().StringVar(&renderMonth, "month", "", "Month of the monthly chart, YYYY-MM (default: latest)")
}

func runRender(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(renderOut, 0o755); err != nil {
		return err
	}
	svc := dashboard.NewService(cfg.DashboardOptions())

	var g errgroup.Group
	g.SetLimit(4)
	for _, sec := range dashboard.Sections {
		g.Go(func() error {
			img, err := svc.Chart(ds, sec, renderMonth)
			var insufficient *analytics.InsufficientDataError
			if errors.As(err, &insufficient) || errors.Is(err, plot.ErrNoData) {
				log.Warn().Str("section", string(sec)).Err(err).Msg("render: skipped")
				return nil
			}
			if err != nil {
				return err
			}
			path := filepath.Join(renderOut, string(sec)+".png")
			if err := os.WriteFile(path, img, 0o644); err != nil {
				return err
			}
			log.Info().Str("path", path).Int("bytes", len(img)).Msg("render: wrote chart")
			return nil
		})
	}
	return g.Wait()
}
