package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/artpar/tracedoc/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("Configuration valid: listening on %s, docs %q %s\n",
			cfg.Addr(), cfg.Docs.Title, cfg.Docs.Version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
