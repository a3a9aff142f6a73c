package main

import (
	"fmt"
	"strconv"
	"strings"

	"displaycontrol/engine"
	"displaycontrol/internal/ccdapi"

	"github.com/spf13/cobra"
)

// batchEnableCmd takes "<logical-id>=<true|false>" pairs and applies
// set_enabled to each, best-effort -- one failure never blocks the rest.
var batchEnableCmd = &cobra.Command{
	Use:   "batch-enable <logical-id>=<true|false> [...]",
	Short: "Enable or disable several logical displays, best-effort",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make(map[string]bool, len(args))
		for _, arg := range args {
			id, val, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("malformed %q, want <logical-id>=<true|false>", arg)
			}
			b, err := strconv.ParseBool(val)
			if err != nil {
				return fmt.Errorf("invalid bool in %q: %w", arg, err)
			}
			entries[id] = b
		}
		result := eng.BatchSetEnabled(entries)
		printBatchResult(result.Successes, result.Failures)
		return nil
	},
}

// batchApplyModesCmd takes "<logical-id>=<width>x<height>@<hz>[:<orientation>]"
// entries and applies apply_mode to each, best-effort.
var batchApplyModesCmd = &cobra.Command{
	Use:   "batch-apply-modes <logical-id>=<width>x<height>@<hz>[:<orientation>] [...]",
	Short: "Apply a resolution/refresh/orientation to several logical displays, best-effort",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make(map[string]engine.ModeOrientation, len(args))
		for _, arg := range args {
			id, spec, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("malformed %q, want <logical-id>=<width>x<height>@<hz>[:<orientation>]", arg)
			}
			modeSpec, orientSpec, _ := strings.Cut(spec, ":")
			mode, err := parseModeSpec(modeSpec)
			if err != nil {
				return fmt.Errorf("invalid mode in %q: %w", arg, err)
			}
			orientation, err := parseOrientation(orientSpec)
			if err != nil {
				return fmt.Errorf("invalid orientation in %q: %w", arg, err)
			}
			entries[id] = engine.ModeOrientation{Mode: mode, Orientation: orientation}
		}
		result := eng.BatchApplyModes(entries)
		printBatchResult(result.Successes, result.Failures)
		return nil
	},
}

// batchApplyOrientationsCmd takes "<logical-id>=<orientation>" entries and
// applies set_orientation to each, best-effort.
var batchApplyOrientationsCmd = &cobra.Command{
	Use:   "batch-apply-orientations <logical-id>=<landscape|portrait|landscape-flipped|portrait-flipped> [...]",
	Short: "Rotate several logical displays, best-effort",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		entries := make(map[string]ccdapi.DisplayOrientation, len(args))
		for _, arg := range args {
			id, val, ok := strings.Cut(arg, "=")
			if !ok {
				return fmt.Errorf("malformed %q, want <logical-id>=<orientation>", arg)
			}
			orientation, err := parseOrientation(val)
			if err != nil {
				return fmt.Errorf("invalid orientation in %q: %w", arg, err)
			}
			entries[id] = orientation
		}
		result := eng.BatchApplyOrientations(entries)
		printBatchResult(result.Successes, result.Failures)
		return nil
	},
}

// parseModeSpec parses "<width>x<height>@<hz>" into an engine.Mode.
func parseModeSpec(spec string) (engine.Mode, error) {
	wh, hz, ok := strings.Cut(spec, "@")
	if !ok {
		return engine.Mode{}, fmt.Errorf("malformed %q, want <width>x<height>@<hz>", spec)
	}
	w, h, ok := strings.Cut(wh, "x")
	if !ok {
		return engine.Mode{}, fmt.Errorf("malformed %q, want <width>x<height>", wh)
	}
	width, err := strconv.ParseUint(w, 10, 32)
	if err != nil {
		return engine.Mode{}, fmt.Errorf("invalid width %q: %w", w, err)
	}
	height, err := strconv.ParseUint(h, 10, 32)
	if err != nil {
		return engine.Mode{}, fmt.Errorf("invalid height %q: %w", h, err)
	}
	refresh, err := strconv.ParseUint(hz, 10, 32)
	if err != nil {
		return engine.Mode{}, fmt.Errorf("invalid refresh %q: %w", hz, err)
	}
	return engine.Mode{Width: uint32(width), Height: uint32(height), RefreshHz: uint32(refresh)}, nil
}

func printBatchResult(successes []string, failures map[string]error) {
	for _, id := range successes {
		fmt.Printf("%s: ok\n", id)
	}
	for id, err := range failures {
		fmt.Printf("%s: FAILED: %v\n", id, err)
	}
	fmt.Printf("%d succeeded, %d failed\n", len(successes), len(failures))
}

func init() {
	rootCmd.AddCommand(batchEnableCmd)
	rootCmd.AddCommand(batchApplyModesCmd)
	rootCmd.AddCommand(batchApplyOrientationsCmd)
}
