package main

import (
	"fmt"
	"strings"

	"displaycontrol/engine"
	"displaycontrol/internal/ccdapi"

	"github.com/spf13/cobra"
)

var (
	modeWidth     uint32
	modeHeight    uint32
	modeRefresh   uint32
	orientationIn string
)

var modeCmd = &cobra.Command{
	Use:   "mode <logical-id>",
	Short: "Apply a resolution/refresh/orientation to a logical display",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		orientation, err := parseOrientation(orientationIn)
		if err != nil {
			return err
		}
		m := engine.Mode{Width: modeWidth, Height: modeHeight, RefreshHz: modeRefresh}
		if err := eng.ApplyMode(args[0], m, orientation); err != nil {
			return err
		}
		fmt.Printf("%s: applied %dx%d@%dHz %s\n", args[0], modeWidth, modeHeight, modeRefresh, orientationIn)
		return nil
	},
}

var orientationCmd = &cobra.Command{
	Use:   "orient <logical-id> <landscape|portrait|landscape-flipped|portrait-flipped>",
	Short: "Rotate a logical display without changing its resolution",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		orientation, err := parseOrientation(args[1])
		if err != nil {
			return err
		}
		if err := eng.SetOrientation(args[0], orientation); err != nil {
			return err
		}
		fmt.Printf("%s: orientation set to %s\n", args[0], args[1])
		return nil
	},
}

func init() {
	modeCmd.Flags().Uint32Var(&modeWidth, "width", 0, "target width in pixels")
	modeCmd.Flags().Uint32Var(&modeHeight, "height", 0, "target height in pixels")
	modeCmd.Flags().Uint32Var(&modeRefresh, "refresh", 0, "target refresh rate in Hz")
	modeCmd.Flags().StringVar(&orientationIn, "orientation", "landscape", "landscape|portrait|landscape-flipped|portrait-flipped")
	rootCmd.AddCommand(modeCmd)
	rootCmd.AddCommand(orientationCmd)
}

func parseOrientation(s string) (ccdapi.DisplayOrientation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "landscape", "":
		return ccdapi.OrientationLandscape, nil
	case "portrait":
		return ccdapi.OrientationPortrait, nil
	case "landscape-flipped":
		return ccdapi.OrientationLandscapeFlipped, nil
	case "portrait-flipped":
		return ccdapi.OrientationPortraitFlipped, nil
	default:
		return 0, fmt.Errorf("unrecognized orientation %q (want landscape|portrait|landscape-flipped|portrait-flipped)", s)
	}
}
