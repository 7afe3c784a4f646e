package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "ultralist",
	Short:        "Virtualized list engine tools",
	Long:         `ultralist drives a recycled terminal list from externally computed diffs.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.Version = version

	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(planCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

const version = "0.1.0"
