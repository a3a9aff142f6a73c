package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable <logical-id>",
	Short: "Enable a logical display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetEnabled(args[0], true); err != nil {
			return err
		}
		fmt.Printf("%s enabled\n", args[0])
		return nil
	},
}

var disableCmd = &cobra.Command{
	Use:   "disable <logical-id>",
	Short: "Disable a logical display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetEnabled(args[0], false); err != nil {
			return err
		}
		fmt.Printf("%s disabled\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
	rootCmd.AddCommand(disableCmd)
}
