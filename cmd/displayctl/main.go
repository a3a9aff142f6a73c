// Command displayctl is the CLI front end for the Display Control
// Engine: list, enable/disable, mode, orientation, position, primary,
// test-mode, batch, and performance-report operations, each a thin
// cobra subcommand delegating to the engine package.
package main

import (
	"fmt"
	"os"

	"displaycontrol/engine"
	"displaycontrol/internal/config"
	"displaycontrol/internal/enginelog"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	cfgFile string
	jsonOut bool

	log = enginelog.L("main")
	eng *engine.Engine
)

var rootCmd = &cobra.Command{
	Use:           "displayctl",
	Short:         "Display Control Engine CLI",
	Long:          `displayctl inspects and reconfigures Windows multi-monitor topology: enable/disable, mode, orientation, position, and primary designation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		enginelog.Init(cfg.LogFormat, cfg.LogLevel, os.Stdout)
		log = enginelog.L("main")
		eng = engine.New(cfg)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("displayctl v%s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: displayctl.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit JSON output where supported")

	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
