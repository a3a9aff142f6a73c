package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var perfCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the strategy performance report",
	Long:  `report enables performance tracking for this process's lifetime and prints the per-strategy success-rate/duration summary.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng.EnablePerformanceTracking(true)
		fmt.Print(eng.GeneratePerformanceReport())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(perfCmd)
}
