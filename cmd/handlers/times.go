package handlers

import (
	"fmt"
	"strings"

	"postcraft/internal/core"
	"postcraft/internal/schedule"

	"github.com/spf13/cobra"
)

// NewTimesCmd creates the optimal-times command
func NewTimesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "times [platform]",
		Short: "Show optimal posting hours for a platform",
		Long: `Show the recommended posting hours for a social media platform.

With no argument, hours for all supported platforms are listed.

Examples:
  postcraft times
  postcraft times twitter`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				for _, platform := range core.Platforms() {
					printOptimalTimes(platform)
				}
				return nil
			}

			platform := core.Platform(strings.ToLower(args[0]))
			if !platform.Valid() {
				return fmt.Errorf("unknown platform %q, must be one of: twitter, instagram, linkedin", args[0])
			}
			printOptimalTimes(platform)
			return nil
		},
	}

	return cmd
}

func printOptimalTimes(platform core.Platform) {
	hours := schedule.OptimalHours(platform)
	labels := make([]string, len(hours))
	for i, h := range hours {
		labels[i] = fmt.Sprintf("%02d:00", h)
	}
	fmt.Printf("%-10s %s\n", platform, strings.Join(labels, ", "))
}
