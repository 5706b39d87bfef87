package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/version"
)

func newVersionCmd() *cobra.Command {
	var plain, asJSON bool

	cmd := &cobra.Command{
		Use:     "version",
		Aliases: []string{"v"},
		Short:   "Display version information (v)",
		Long:    "Display version, commit, build date, and Go version information for gh-release-changelog",
		Example: `  # Show version info
  gh-release-changelog version

  # Plain output (for scripts)
  gh-release-changelog version --plain`,
		GroupID: GroupSetup,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()
			switch {
			case asJSON:
				return writeJSON(cmd.OutOrStdout(), info)
			case plain:
				printPlainVersion(cmd.OutOrStdout(), info)
			default:
				printPrettyVersion(cmd.OutOrStdout(), info)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Plain output without formatting")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")
	cmd.MarkFlagsMutuallyExclusive("plain", "json")
	return cmd
}

// printPlainVersion prints a simple version output for scripting
func printPlainVersion(w io.Writer, info version.Info) {
	fmt.Fprintf(w, "gh-release-changelog %s\n", info.Version)
	fmt.Fprintf(w, "commit: %s\n", info.Commit)
	fmt.Fprintf(w, "built: %s\n", info.BuildDate)
	fmt.Fprintf(w, "go: %s\n", info.GoVersion)
	fmt.Fprintf(w, "platform: %s\n", info.Platform)
}

func printPrettyVersion(w io.Writer, info version.Info) {
	cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(w, "%s %s\n\n", cyan("gh-release-changelog"), info.Version)
	for _, row := range []struct{ label, value string }{
		{"Commit", truncateCommit(info.Commit)},
		{"Built", info.BuildDate},
		{"Go", info.GoVersion},
		{"Platform", info.Platform},
	} {
		fmt.Fprintf(w, "  %s  %s\n", yellow(fmt.Sprintf("%-9s", row.label)), row.value)
	}
}

// truncateCommit shortens commit hash if it's too long
func truncateCommit(commit string) string {
	if len(commit) > 8 {
		return commit[:8]
	}
	return commit
}
