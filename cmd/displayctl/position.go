package main

import (
	"fmt"
	"strconv"
	"strings"

	"displaycontrol/engine"

	"github.com/spf13/cobra"
)

var positionCmd = &cobra.Command{
	Use:   "move <logical-id> <x> <y>",
	Short: "Move a single logical display on the virtual desktop",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := strconv.ParseInt(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid x %q: %w", args[1], err)
		}
		y, err := strconv.ParseInt(args[2], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid y %q: %w", args[2], err)
		}
		if err := eng.SetPosition(args[0], int32(x), int32(y)); err != nil {
			return err
		}
		fmt.Printf("%s moved to (%d,%d)\n", args[0], x, y)
		return nil
	},
}

// applyPositionsCmd batches several "<logical-id>:<x>,<y>" triples into
// a single atomic multi-display move, mirroring ApplyPositions.
var applyPositionsCmd = &cobra.Command{
	Use:   "move-all <logical-id>:<x>,<y> [...]",
	Short: "Atomically reposition several logical displays",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputs := make([]engine.PositionInput, 0, len(args))
		for _, arg := range args {
			id, x, y, err := parsePositionArg(arg)
			if err != nil {
				return err
			}
			inputs = append(inputs, engine.PositionInput{LogicalID: id, X: x, Y: y})
		}
		if err := eng.ApplyPositions(inputs); err != nil {
			return err
		}
		fmt.Printf("applied %d position(s)\n", len(inputs))
		return nil
	},
}

func parsePositionArg(arg string) (id string, x, y int32, err error) {
	idPart, coords, ok := strings.Cut(arg, ":")
	if !ok {
		return "", 0, 0, fmt.Errorf("malformed %q, want <logical-id>:<x>,<y>", arg)
	}
	xs, ys, ok := strings.Cut(coords, ",")
	if !ok {
		return "", 0, 0, fmt.Errorf("malformed %q, want <logical-id>:<x>,<y>", arg)
	}
	xi, err := strconv.ParseInt(xs, 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid x in %q: %w", arg, err)
	}
	yi, err := strconv.ParseInt(ys, 10, 32)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid y in %q: %w", arg, err)
	}
	return idPart, int32(xi), int32(yi), nil
}

func init() {
	rootCmd.AddCommand(positionCmd)
	rootCmd.AddCommand(applyPositionsCmd)
}
