package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List every correlated logical display",
	Long:  `list shows every display the engine currently correlates, both enabled and disabled.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		displays, err := eng.ListDisplays()
		if err != nil {
			return err
		}

		if jsonOut {
			return json.NewEncoder(os.Stdout).Encode(displays)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "LOGICAL\tNAME\tENABLED\tPRIMARY\tMODE\tPOSITION")
		for _, d := range displays {
			mode := fmt.Sprintf("%dx%d@%dHz", d.Width, d.Height, d.RefreshHz)
			pos := fmt.Sprintf("(%d,%d)", d.PositionX, d.PositionY)
			name := d.FriendlyName
			if name == "" {
				name = "(unidentified)"
			}
			fmt.Fprintf(w, "%s\t%s\t%v\t%v\t%s\t%s\n", d.LogicalID, name, d.IsEnabled, d.IsPrimary, mode, pos)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
