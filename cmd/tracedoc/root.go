package main

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tracedoc",
	Short: "Demo API documented through reflection-traced schemas",
	Long: `Tracedoc serves a small JSON API whose OpenAPI document is generated
at startup by tracing the serialization shape of plain Go types, without
any schema annotations on the types themselves.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "tracedoc.yaml",
		"path to configuration file")
}
