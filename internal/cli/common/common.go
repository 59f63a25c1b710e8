// Package common holds the global flags shared by every command.
package common

import "github.com/urfave/cli/v2"

const (
	ProjectDirFlagName = "project-dir"
	VerboseFlagName    = "verbose"
)

// GlobalFlags are registered on the app and read by subcommands through the context lineage.
func GlobalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    ProjectDirFlagName,
			Aliases: []string{"d"},
			Value:   ".",
			Usage:   "Use the given directory as the project root",
		},
		&cli.BoolFlag{
			Name:    VerboseFlagName,
			Aliases: []string{"v"},
			Usage:   "Enable verbose output",
		},
	}
}

// ProjectDir returns the --project-dir value, defaulting to the current directory.
func ProjectDir(c *cli.Context) string {
	if dir := c.String(ProjectDirFlagName); dir != "" {
		return dir
	}
	return "."
}

// Verbose returns the --verbose value.
func Verbose(c *cli.Context) bool {
	return c.Bool(VerboseFlagName)
}
