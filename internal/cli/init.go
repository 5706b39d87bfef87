package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/gh-release-changelog/gh-release-changelog/internal/config"
)

func newInitCmd(opts *rootOptions) *cobra.Command {
	var force, user bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented configuration file",
		Long: `Create a configuration file listing every option with its default.

By default the project config .gh-release-changelog.yml is created in the
working directory. Use --user for the user config, which applies to every
project.

An existing file is left unchanged unless --force is given.`,
		Example: `  # Create .gh-release-changelog.yml
  gh-release-changelog init

  # Create the user-level config
  gh-release-changelog init --user

  # Overwrite an existing config with defaults
  gh-release-changelog init --force`,
		GroupID: GroupSetup,
		Args:    usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if user {
				p, err := config.UserConfigPath()
				if err != nil {
					return fmt.Errorf("locating user config: %w", err)
				}
				path = p
			} else {
				dir, err := opts.workDir()
				if err != nil {
					return err
				}
				path = config.ProjectConfigPath(dir)
			}
			return writeConfigTemplate(cmd, path, force)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config")
	cmd.Flags().BoolVar(&user, "user", false, "Create the user-level config instead of the project config")
	return cmd
}

func writeConfigTemplate(cmd *cobra.Command, path string, force bool) error {
	out := cmd.OutOrStdout()
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if _, err := os.Stat(path); err == nil && !force {
		fmt.Fprintf(out, "%s %s already exists (use --force to overwrite)\n", yellow("!"), path)
		return nil
	}

	template := []byte(config.GetDefaultConfigTemplate())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, template, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Fprintf(out, "%s Created %s\n", green("✓"), path)
	return nil
}
