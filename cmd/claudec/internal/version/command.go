package version

import (
	"fmt"

	"github.com/nmnduy/claude-c/cmd/claudec/internal"
	"github.com/spf13/cobra"
)

// NewVersionCommand builds the `version` subcommand: prints the binary's
// version, git commit (if known), build time, and Go toolchain version.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			buildTime, goVersion := internal.FormatBuildInfo()
			fmt.Printf("claude-c %s\n", internal.FormatVersion())
			if buildTime != "" {
				fmt.Printf("built: %s\n", buildTime)
			}
			fmt.Printf("go: %s\n", goVersion)
		},
	}
}
