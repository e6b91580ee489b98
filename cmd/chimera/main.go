package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chimera-labs/chimera/pkg/log"
	"github.com/chimera-labs/chimera/pkg/types"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "chimera",
	Short:   "Chimera - distributed multi-agent crypto-analytics platform",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("Chimera version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "INFO", "Log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)")
	rootCmd.PersistentFlags().Bool("log-json", true, "Output logs as newline-delimited JSON")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(monitoringCmd)
	rootCmd.AddCommand(inspectCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")

	log.Init(log.Config{
		Level:      types.LogLevel(level),
		JSONOutput: jsonOutput,
	})
}
