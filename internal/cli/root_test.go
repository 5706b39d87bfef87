package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_Structure(t *testing.T) {
	t.Parallel()

	cmd := newRootCmd()
	assert.Equal(t, "gh-release-changelog", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)
	assert.NotEmpty(t, cmd.Example)
	assert.True(t, cmd.SilenceErrors)
	assert.True(t, cmd.SilenceUsage)
}

func TestRootCmd_PersistentFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		shorthand string
		defValue  string
	}{
		"config":   {shorthand: "c"},
		"cwd":      {shorthand: "C"},
		"env-file": {},
		"debug":    {shorthand: "d", defValue: "false"},
		"quiet":    {shorthand: "q", defValue: "false"},
		"no-color": {defValue: "false"},
	}

	cmd := newRootCmd()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.PersistentFlags().Lookup(name)
			require.NotNil(t, flag, "Flag %s should exist", name)
			assert.Equal(t, tt.shorthand, flag.Shorthand)
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRootCmd_ReleaseFlags(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		flagType string
		defValue string
	}{
		"tag":                      {flagType: "string", defValue: ""},
		"from-tag":                 {flagType: "string", defValue: ""},
		"repo":                     {flagType: "string", defValue: ""},
		"draft":                    {flagType: "bool", defValue: "false"},
		"prerelease":               {flagType: "bool", defValue: "false"},
		"generate-release-notes":   {flagType: "bool", defValue: "false"},
		"discussion-category-name": {flagType: "string", defValue: ""},
		"dry-run":                  {flagType: "bool", defValue: "false"},
		"initial-depth":            {flagType: "int", defValue: "4"},
		"ignore":                   {flagType: "stringArray", defValue: "[]"},
		"ignore-mode":              {flagType: "string", defValue: "append"},
		"check-standard-version":   {flagType: "bool", defValue: "true"},
		"check-pkg-available":      {flagType: "bool", defValue: "false"},
		"npm-registry":             {flagType: "string", defValue: "https://registry.npmjs.org"},
		"workspaces":               {flagType: "stringSlice", defValue: "[]"},
		"on-package-error":         {flagType: "string", defValue: "abort"},
		"concurrency":              {flagType: "int", defValue: "8"},
	}

	cmd := newRootCmd()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			flag := cmd.Flags().Lookup(name)
			require.NotNil(t, flag, "Flag %s should exist", name)
			assert.Equal(t, tt.flagType, flag.Value.Type())
			assert.Equal(t, tt.defValue, flag.DefValue)
		})
	}
}

func TestRootCmd_Subcommands(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		group string
	}{
		"extract": {group: GroupRelease},
		"action":  {group: GroupRelease},
		"init":    {group: GroupSetup},
		"doctor":  {group: GroupSetup},
		"version": {group: GroupSetup},
	}

	cmd := newRootCmd()
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err)
			assert.Equal(t, name, sub.Name())
			assert.Equal(t, tt.group, sub.GroupID)
			assert.NotEmpty(t, sub.Short)
		})
	}
}

func TestRootCmd_Help(t *testing.T) {
	res := runCLI(t, "--help")
	assert.Equal(t, ExitSuccess, res.code)
	assert.Contains(t, res.stdout, "Release:")
	assert.Contains(t, res.stdout, "extract")
	assert.Contains(t, res.stdout, "--dry-run")
}
