package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"threatmatrix/internal/config"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var printSchema bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and print the effective settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			if printSchema {
				_, err := cmd.OutOrStdout().Write(config.Schema())
				return err
			}
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			out, err := cfg.Marshal()
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().BoolVar(&printSchema, "print-schema", false, "Print the embedded CUE schema instead")
	return cmd
}
