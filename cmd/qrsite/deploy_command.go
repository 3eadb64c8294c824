package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"qrsite/internal/config"
	"qrsite/internal/deploy"
	"qrsite/internal/logging"
	"qrsite/internal/site"
	"qrsite/internal/textutil"
)

func newDeployCommand(ctx *commandContext) *cobra.Command {
	var message string

	cmd := &cobra.Command{
		Use:   "deploy [repo_url] [branch] [site_dir]",
		Short: "Publish the generated site to a git branch",
		Long: "Publish the generated site by committing it to a git branch and pushing it.\n" +
			"Arguments left out fall back to the [deploy] configuration; an empty repo_url keeps the existing origin remote.",
		Args: cobra.MaximumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.configValue()
			target := deploy.Target{
				RepoURL:       cfg.Deploy.RepoURL,
				Branch:        cfg.Deploy.Branch,
				Dir:           textutil.Ternary(cfg.Deploy.SiteDir != "", cfg.Deploy.SiteDir, cfg.Paths.OutputDir),
				CommitMessage: textutil.Ternary(message != "", message, cfg.Deploy.CommitMessage),
			}
			if len(args) > 0 && args[0] != "" {
				target.RepoURL = args[0]
			}
			if len(args) > 1 && args[1] != "" {
				target.Branch = args[1]
			}
			if len(args) > 2 && args[2] != "" {
				dir, err := config.ExpandPath(args[2])
				if err != nil {
					return err
				}
				target.Dir = dir
			}

			logger, done, err := ctx.newLogger(cmd)
			if err != nil {
				return err
			}
			defer done()

			lock, err := site.AcquireLock(target.Dir)
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Warn("failed to release site lock", logging.Error(err))
				}
			}()

			runCtx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			runCtx = logging.WithRunID(runCtx, "")

			deployer := deploy.New(cfg.GitBinary(), logging.WithContext(runCtx, logging.NewComponentLogger(logger, "deploy")))
			result, err := deployer.Run(runCtx, target)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(result.Steps))
			for _, step := range result.Steps {
				rows = append(rows, []string{step.Name, step.Detail, step.Duration.Round(time.Millisecond).String()})
			}
			fmt.Fprintln(out, renderTable([]string{"Step", "Detail", "Duration"}, rows, []columnAlignment{alignLeft, alignLeft, alignRight}))
			fmt.Fprintf(out, "Branch %s pushed to %s (new commit: %s)\n", result.Branch, result.Remote, yesNo(result.Committed))
			if result.PublishedURL != "" {
				fmt.Fprintf(out, "Published URL: %s\n", result.PublishedURL)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message (overrides deploy.commit_message)")
	return cmd
}
