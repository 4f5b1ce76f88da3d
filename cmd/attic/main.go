package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configFiles []string

var rootCmd = &cobra.Command{
	Version: version,
	Use:     "attic",
	Short:   "Static asset server with caching validators and compression",
	Long: `Attic serves a directory of static assets over HTTP with correct
content types, ETag/Last-Modified validators, conditional requests,
compression negotiation, and optional Basic-auth-protected directory
listings.`,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&configFiles, "config", nil, "config file path(s); later files override earlier ones (default: ./config.yaml)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
