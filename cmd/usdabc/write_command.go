package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"usdabc/internal/convert"
	"usdabc/internal/hermite"
	"usdabc/internal/preflight"
)

func newWriteCommand(ctx *commandContext) *cobra.Command {
	var basisFlag string
	var workers int
	var failFast bool
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "write <scene.yaml> <archive>",
		Short: "Convert the HermiteCurves prims of a scene document into an archive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, dst := args[0], args[1]
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if err := preflight.Err(preflight.ForWrite(cfg, src, dst)); err != nil {
				return fmt.Errorf("preflight: %w", err)
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts, err := convert.OptionsFromConfig(cfg, logger)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("basis") {
				if opts.Basis, err = hermite.ParseBasis(basisFlag); err != nil {
					return fmt.Errorf("--basis: %w", err)
				}
			}
			if cmd.Flags().Changed("workers") {
				if workers < 0 {
					return fmt.Errorf("--workers must be non-negative")
				}
				opts.Workers = workers
			}
			if cmd.Flags().Changed("fail-fast") {
				opts.FailFast = failFast
			}

			report, err := convert.WriteArchive(cmd.Context(), src, dst, opts)
			if err != nil {
				return err
			}
			return finishRun(cmd, cfg, logger, report, reportMode(jsonOutput))
		},
	}

	cmd.Flags().StringVar(&basisFlag, "basis", "", "Native curve basis: hermite or bezier (default from config)")
	cmd.Flags().IntVar(&workers, "workers", 0, "Prims converted in parallel (0 = one per CPU)")
	cmd.Flags().BoolVar(&failFast, "fail-fast", false, "Stop at the first prim that fails")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the conversion report as JSON")
	return cmd
}
