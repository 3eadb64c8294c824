package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"qrsite/internal/catalog"
	"qrsite/internal/config"
	"qrsite/internal/entries"
	"qrsite/internal/logging"
	"qrsite/internal/textutil"
)

const previewDescriptionRunes = 40

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		dir          string
		outPath      string
		baseURL      string
		recursive    bool
		write        bool
		overwrite    bool
		descFromName bool
	)

	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Create the spreadsheet from an image folder",
		Long: "List the images in a folder ordered by capture time (file name stamp, EXIF, then modification time)\n" +
			"and assign sequential ids. Shows a preview unless --write is given.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			source, err := pathOrDefault(dir, cfg.Paths.ImagesDir)
			if err != nil {
				return err
			}
			target, err := pathOrDefault(outPath, cfg.Paths.Spreadsheet)
			if err != nil {
				return err
			}
			logger, done, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer done()
			logger = logging.NewComponentLogger(logger, "scan")

			scanned, err := catalog.Scan(catalog.ScanOptions{
				Dir:          source,
				Recursive:    recursive,
				BaseURL:      baseURL,
				DescFromName: descFromName,
			})
			if err != nil {
				return err
			}
			logger.Info("image folder scanned",
				logging.String("dir", source),
				logging.Int("images", len(scanned)),
			)

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(scanned))
			for _, s := range scanned {
				e := s.Entry
				rows = append(rows, []string{e.ID, e.Image, e.Date, string(s.Source), textutil.Truncate(e.Description, previewDescriptionRunes), e.Link})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Image", "Date", "Date source", "Description", "Link"},
				rows,
				[]columnAlignment{alignRight},
			))

			if !write {
				fmt.Fprintf(out, "%d images found; run with --write to save %s\n", len(scanned), target)
				return nil
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("spreadsheet already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check spreadsheet path: %w", err)
				}
			}
			if err := entries.Write(target, catalog.Entries(scanned)); err != nil {
				return err
			}
			logger.Info("spreadsheet written", logging.String("path", target), logging.Int("entries", len(scanned)))
			fmt.Fprintf(out, "Wrote %d entries to %s\n", len(scanned), target)
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Image folder to scan (defaults to paths.images_dir)")
	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Include images in subfolders")
	cmd.Flags().BoolVar(&write, "write", false, "Save the spreadsheet instead of only previewing it")
	cmd.Flags().StringVar(&outPath, "out", "", "Spreadsheet to write, .xlsx or .csv (defaults to paths.spreadsheet)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing spreadsheet")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "Prefill the link column with <base-url>/<ID>.html")
	cmd.Flags().BoolVar(&descFromName, "desc-from-name", false, "Derive descriptions from file names")
	return cmd
}

// pathOrDefault expands value, falling back to the configured path.
func pathOrDefault(value, fallback string) (string, error) {
	if value == "" {
		return fallback, nil
	}
	return config.ExpandPath(value)
}
