package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var primaryCmd = &cobra.Command{
	Use:   "primary <logical-id>",
	Short: "Designate a logical display as primary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := eng.SetPrimary(args[0]); err != nil {
			return err
		}
		fmt.Printf("%s is now primary\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(primaryCmd)
}
