package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "systerview",
	Short: "Diagram panel for the Syster modeling language",
	Long: `Systerview hosts a sandboxed diagram panel for Syster models. It
bridges to the Syster language server for diagram data, watches the
workspace for changes to .sysml and .kerml sources, and serves the
visual front end on a local port.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".systerview.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
