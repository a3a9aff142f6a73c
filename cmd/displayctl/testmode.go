package main

import (
	"fmt"

	"displaycontrol/engine"

	"github.com/spf13/cobra"
)

var testModeCmd = &cobra.Command{
	Use:   "test-mode <logical-id>",
	Short: "Apply a mode temporarily, then revert automatically",
	Long: fmt.Sprintf(`test-mode applies the requested mode and orientation, holds it for
%s, then reverts to whatever mode was active beforehand -- even if the
initial apply reported an error.`, engine.TestModeHoldDuration),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orientation, err := parseOrientation(orientationIn)
		if err != nil {
			return err
		}
		m := engine.Mode{Width: modeWidth, Height: modeHeight, RefreshHz: modeRefresh}
		fmt.Printf("applying test mode to %s, holding for %s...\n", args[0], engine.TestModeHoldDuration)
		err = eng.TestMode(args[0], m, orientation, func(applyErr error) {
			if applyErr != nil {
				log.Warn("test-mode: initial apply failed", "error", applyErr.Error())
			}
		})
		if err != nil {
			return err
		}
		fmt.Println("test mode complete, reverted")
		return nil
	},
}

func init() {
	testModeCmd.Flags().Uint32Var(&modeWidth, "width", 0, "target width in pixels")
	testModeCmd.Flags().Uint32Var(&modeHeight, "height", 0, "target height in pixels")
	testModeCmd.Flags().Uint32Var(&modeRefresh, "refresh", 0, "target refresh rate in Hz")
	testModeCmd.Flags().StringVar(&orientationIn, "orientation", "landscape", "landscape|portrait|landscape-flipped|portrait-flipped")
	rootCmd.AddCommand(testModeCmd)
}
