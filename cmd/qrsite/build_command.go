package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qrsite/internal/config"
	"qrsite/internal/logging"
	"qrsite/internal/sitebuild"
)

// inputFlags override the configured inputs, output and base URL.
type inputFlags struct {
	baseURL string
	input   string
	images  string
	out     string
}

func (f *inputFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.baseURL, "base-url", "", "Public URL the site is served from (overrides site.base_url)")
	cmd.Flags().StringVar(&f.input, "input", "", "Spreadsheet path (overrides paths.spreadsheet)")
	cmd.Flags().StringVar(&f.images, "images", "", "Image folder (overrides paths.images_dir)")
	cmd.Flags().StringVar(&f.out, "out", "", "Output directory (overrides paths.output_dir)")
}

// apply returns a copy of cfg with the flag overrides applied.
func (f *inputFlags) apply(cfg *config.Config) (*config.Config, error) {
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	local := *cfg
	if f.baseURL != "" {
		local.Site.BaseURL = config.NormalizeBaseURL(f.baseURL)
	}
	for _, override := range []struct {
		value string
		dst   *string
	}{
		{f.input, &local.Paths.Spreadsheet},
		{f.images, &local.Paths.ImagesDir},
		{f.out, &local.Paths.OutputDir},
	} {
		if override.value == "" {
			continue
		}
		expanded, err := config.ExpandPath(override.value)
		if err != nil {
			return nil, err
		}
		*override.dst = expanded
	}
	return &local, nil
}

func newBuildCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags
	var opts sitebuild.Options

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Generate the static site from the spreadsheet and images",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(ctx.configValue())
			if err != nil {
				return err
			}
			logger, done, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer done()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			runCtx = logging.WithRunID(runCtx, "")

			summary, err := sitebuild.Build(runCtx, cfg, opts, logger)
			if err != nil {
				if errors.Is(err, context.Canceled) {
					logger.Warn("build interrupted; output directory left unchanged",
						logging.String("output", cfg.Paths.OutputDir))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderDetails(buildSummaryRows(summary, opts)))
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&opts.Labels, "labels", false, "Also write the printable label sheet ("+sitebuild.LabelsFile+")")
	cmd.Flags().BoolVar(&opts.Overview, "overview", false, "Also write the 3x5 overview sheet ("+sitebuild.OverviewFile+")")
	return cmd
}

func buildSummaryRows(summary sitebuild.Summary, opts sitebuild.Options) [][2]string {
	rows := [][2]string{
		{"Output", summary.Output},
		{"Base URL", summary.BaseURL},
		{"Entries", strconv.Itoa(summary.Entries)},
		{"Files", strconv.Itoa(summary.Files)},
	}
	if opts.Labels {
		rows = append(rows, [2]string{"Label pages", strconv.Itoa(summary.LabelPages)})
	}
	if opts.Overview {
		rows = append(rows, [2]string{"Overview pages", strconv.Itoa(summary.OverviewPages)})
	}
	rows = append(rows,
		[2]string{"Duration", summary.Duration.Round(time.Millisecond).String()},
		[2]string{"Run ID", summary.RunID},
	)
	return rows
}
