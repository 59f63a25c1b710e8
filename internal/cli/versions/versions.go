package versions

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/package-versions-go/internal/cli/common"
	"github.com/nightconcept/package-versions-go/internal/core/config"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
	coreversions "github.com/nightconcept/package-versions-go/internal/core/versions"
)

// VersionsCmd defines the structure for the 'versions' command.
var VersionsCmd = &cli.Command{
	Name:      "versions",
	Usage:     "Displays the installed version of every package, or of a single one.",
	ArgsUsage: "[package]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "root",
			Usage: "Print only the root package name",
		},
		&cli.StringFlag{
			Name:  "constraint",
			Usage: "Fail unless the installed version of <package> satisfies this semver constraint",
		},
	},
	Action: versionsAction,
}

func versionsAction(c *cli.Context) error {
	if c.NArg() > 1 {
		return cli.Exit("Error: expected at most one package name.", 1)
	}

	paths, err := config.Resolve(common.ProjectDir(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	v, err := coreversions.Open(paths)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	if v.IsFallback() {
		_, _ = fmt.Fprintf(c.App.ErrWriter, "Warning: %s not found, versions were read from %s.\n", paths.GeneratedFile, v.Source())
	}

	out := c.App.Writer

	if c.Bool("root") {
		_, _ = fmt.Fprintln(out, v.RootPackageName())
		return nil
	}

	packageName := c.Args().First()
	constraint := c.String("constraint")
	if constraint != "" && packageName == "" {
		return cli.Exit("Error: --constraint requires a package name.", 1)
	}

	if packageName != "" {
		version, err := v.GetVersion(packageName)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		_, _ = fmt.Fprintln(out, "Installed version:")
		dumpPackageVersion(c, packageName, version)

		if constraint == "" {
			return nil
		}
		ok, err := v.Satisfies(packageName, constraint)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		if !ok {
			return cli.Exit(fmt.Sprintf("Error: %s does not satisfy %q.", packageName, constraint), 1)
		}
		return nil
	}

	_, _ = fmt.Fprintln(out, "Installed versions:")
	for _, e := range v.Sorted() {
		dumpPackageVersion(c, e.Name, e.Version)
	}
	return nil
}

// dumpPackageVersion prints "<name>: <version>@<reference>" with the name highlighted.
func dumpPackageVersion(c *cli.Context, packageName, composite string) {
	nameColor := color.New(color.FgGreen).SprintFunc()
	version, ref := mapping.SplitComposite(composite)
	_, _ = fmt.Fprintf(c.App.Writer, "%s: %s@%s\n", nameColor(packageName), version, ref)
}
