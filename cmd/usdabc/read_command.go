package main

import (
	"github.com/spf13/cobra"

	"usdabc/internal/convert"
	"usdabc/internal/preflight"
)

func newReadCommand(ctx *commandContext) *cobra.Command {
	var failFast bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "read <archive> [scene.yaml]",
		Short: "Convert an archive back into a scene document",
		Long: "Reads every curves object of an archive into HermiteCurves prims. The scene\n" +
			"document is written to the given path, or to stdout when no path is given.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src := args[0]
			var dst string
			if len(args) == 2 {
				dst = args[1]
			}
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.ForRead(cfg, src, dst)); err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			opts, err := convert.OptionsFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("fail-fast") {
				opts.FailFast = failFast
			}

			stage, report, err := convert.OpenArchiveStage(cmd.Context(), src, opts)
			if err != nil {
				return err
			}
			report.Destination = dst
			if dst == "" {
				if err := stage.Encode(cmd.OutOrStdout()); err != nil {
					return err
				}
				return finishRun(cmd, cfg, logger, report, outputStderr)
			}
			if err := stage.Save(dst); err != nil {
				return err
			}
			return finishRun(cmd, cfg, logger, report, reportMode(jsonOutput))
		},
	}

	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first object that fails")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the conversion report as JSON")
	return cmd
}
