package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"qrsite/internal/deps"
	"qrsite/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var flags inputFlags

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check that inputs, output and tools are ready for a build",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.apply(ctx.configValue())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := newStatusReport(out)

			report.section("Configuration")
			source := ctx.loadedPath
			if !ctx.configExists {
				source = "defaults (no file at " + ctx.loadedPath + ")"
			}
			report.add("Config file", statusInfo, source)

			report.section("Build")
			for _, r := range preflight.RunAll(cfg) {
				report.check(r.Name, r.Passed, r.Detail)
			}
			report.section("Dependencies")
			addDependencies(report, preflight.CheckSystemDeps(cfg))
			fmt.Fprintln(out, report)

			if report.errors > 0 {
				return fmt.Errorf("%d of %d checks failed", report.errors, report.checks)
			}
			return nil
		},
	}

	flags.register(cmd)
	return cmd
}

// addDependencies reports binaries. Missing optional ones only warn and do
// not fail the status command.
func addDependencies(report *statusReport, statuses []deps.Status) {
	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Path != "" {
				message = fmt.Sprintf("Ready (%s)", dep.Path)
			}
			report.add(dep.Name, statusOK, message)
			continue
		}
		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		if dep.Description != "" {
			detail = fmt.Sprintf("%s; %s", detail, strings.ToLower(dep.Description[:1])+dep.Description[1:])
		}
		if dep.Optional {
			report.add(dep.Name, statusWarn, detail)
			continue
		}
		report.check(dep.Name, false, detail)
	}
}
