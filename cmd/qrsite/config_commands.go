package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"qrsite/internal/config"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigValidateCommand(ctx))
	configCmd.AddCommand(newConfigInitCommand())

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string
	var overwrite bool

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a sample configuration file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := initTarget(targetPath)
			if err != nil {
				return err
			}
			if !overwrite {
				if _, err := os.Stat(target); err == nil {
					return fmt.Errorf("config file already exists at %s (use --overwrite to replace it)", target)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check config path: %w", err)
				}
			}
			if err := config.CreateSample(target); err != nil {
				return fmt.Errorf("create sample config: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote sample configuration to %s\n", target)
			fmt.Fprintln(out, "Set site.base_url (or export QRSITE_BASE_URL) before printing any QR codes.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file (defaults to ~/.config/qrsite/config.toml)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite existing configuration if present")
	return cmd
}

// initTarget resolves where config init writes, defaulting to the per-user file.
func initTarget(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		target, err := config.DefaultConfigPath()
		if err != nil {
			return "", fmt.Errorf("determine default config path: %w", err)
		}
		return target, nil
	}
	target, err := config.ExpandPath(path)
	if err != nil {
		return "", fmt.Errorf("resolve config path: %w", err)
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return filepath.Join(target, "qrsite.toml"), nil
	}
	return target, nil
}

func newConfigValidateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:         "validate",
		Short:       "Validate the configuration and show the effective settings",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, exists, err := config.Load(ctx.configPath())
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Config path: %s\n", path)
			if !exists {
				fmt.Fprintln(out, "Config file did not exist; defaults were used")
			}
			fmt.Fprintln(out, renderDetails(effectiveSettings(cfg)))
			if cfg.Site.BaseURL == "" {
				fmt.Fprintln(out, "Note: site.base_url is empty; pass --base-url to qrsite build")
			}
			fmt.Fprintln(out, "Configuration valid")
			return nil
		},
	}
}

func effectiveSettings(cfg *config.Config) [][2]string {
	l := cfg.Labels
	return [][2]string{
		{"Spreadsheet", cfg.Paths.Spreadsheet},
		{"Images", cfg.Paths.ImagesDir},
		{"Output", cfg.Paths.OutputDir},
		{"Base URL", cfg.Site.BaseURL},
		{"QR level", cfg.QR.Level},
		{"Label grid", fmt.Sprintf("%dx%d cells of %smm (%d per page)", l.Cols, l.Rows, strconv.FormatFloat(l.CellMM, 'f', -1, 64), cfg.LabelCells())},
		{"Deploy", fmt.Sprintf("%s -> %s", cfg.Deploy.SiteDir, deployTargetLabel(cfg.Deploy))},
	}
}

func deployTargetLabel(d config.Deploy) string {
	repo := d.RepoURL
	if repo == "" {
		repo = "origin"
	}
	return repo + " (" + d.Branch + ")"
}
