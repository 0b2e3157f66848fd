package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/tracedoc/bootstrap"
	"github.com/artpar/tracedoc/config"
)

var hotReload bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the demo API server",
	Long: `Start the tracedoc demo server.

The server will:
  - Load configuration from tracedoc.yaml (or --config), with
    TRACEDOC_* environment variables taking precedence
  - Trace and register every response type's schema
  - Serve the API, the OpenAPI document, and the swagger UI

Examples:
  tracedoc serve
  tracedoc serve --config /etc/tracedoc/config.yaml
  TRACEDOC_SERVER_PORT=8080 tracedoc serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true,
		"reload document metadata when the config file changes")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	var a *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		a, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}
		a, err = bootstrap.New(cfg)
	}
	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	return a.Run()
}
