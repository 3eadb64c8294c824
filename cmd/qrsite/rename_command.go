package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"qrsite/internal/catalog"
	"qrsite/internal/config"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		dir       string
		recursive bool
		apply     bool
		quality   int
	)

	cmd := &cobra.Command{
		Use:   "rename",
		Short: "Rename photos to their capture time as JPEG",
		Long: "Plan a new name YYYY-MM-DD_HHMMSS.jpeg for every image from its EXIF date (falling back to the\n" +
			"modification time). Shows the plan unless --apply is given, which converts each photo to JPEG\n" +
			"under its new name and removes the original.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if quality < 1 || quality > 100 {
				return fmt.Errorf("--quality must be between 1 and 100 (got %d)", quality)
			}
			cfg := ctx.configValue()
			source, err := pathOrDefault(dir, cfg.Paths.ImagesDir)
			if err != nil {
				return err
			}
			logger, done, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer done()

			moves, err := catalog.PlanRenames(source, recursive)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pending := 0
			rows := make([][]string, 0, len(moves))
			for _, m := range moves {
				to := config.RelativeTo(source, m.To)
				switch {
				case m.Skip != "":
					to = "skipped: " + m.Skip
				case m.Unchanged():
					to = "unchanged"
				default:
					pending++
				}
				rows = append(rows, []string{config.RelativeTo(source, m.From), to, string(m.Source)})
			}
			fmt.Fprintln(out, renderTable([]string{"Current", "New", "Date source"}, rows, nil))

			if !apply {
				fmt.Fprintf(out, "%d of %d files would be renamed in %s; run with --apply to convert them\n", pending, len(moves), filepath.Clean(source))
				return nil
			}
			renamed, err := catalog.ApplyRenames(moves, quality, logger)
			if err != nil {
				return fmt.Errorf("renamed %d files before failing: %w", renamed, err)
			}
			fmt.Fprintf(out, "Renamed %d files\n", renamed)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Image folder (defaults to paths.images_dir)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include images in subfolders")
	cmd.Flags().BoolVar(&apply, "apply", false, "Convert and rename the files instead of only showing the plan")
	cmd.Flags().IntVar(&quality, "quality", 95, "JPEG quality of converted photos")
	return cmd
}
