package dump

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/package-versions-go/internal/cli/common"
	"github.com/nightconcept/package-versions-go/internal/core/config"
	"github.com/nightconcept/package-versions-go/internal/core/hook"
	"github.com/nightconcept/package-versions-go/internal/core/installer"
	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/logger"
	"github.com/nightconcept/package-versions-go/internal/core/project"
)

// RootVersionEnv is the Composer environment variable naming the root package version.
const RootVersionEnv = "COMPOSER_ROOT_VERSION"

// NewDumpCommand creates the command Composer runs as a script after
// dependencies change. It rebuilds the generated version file from
// composer.json and composer.lock.
//
// Typical composer.json wiring:
//
//	"scripts": {"post-autoload-dump": "pkgversions dump"}
func NewDumpCommand() *cli.Command {
	return &cli.Command{
		Name:  "dump",
		Usage: "Regenerates the version file from composer.json and composer.lock",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "event",
				Value: string(hook.PostAutoloadDump),
				Usage: "Lifecycle event to dispatch",
			},
			&cli.BoolFlag{
				Name:  "no-dev",
				Usage: "Leave out packages-dev, as 'composer install --no-dev' does",
			},
			&cli.BoolFlag{
				Name:  "removing",
				Usage: "Signal that this tool is being uninstalled; nothing is written",
			},
			&cli.StringFlag{
				Name:  "root-reference",
				Usage: "Source reference (commit) of the root project",
			},
		},
		Action: dumpAction,
	}
}

func dumpAction(c *cli.Context) error {
	eventName, err := hook.ParseEventName(c.String("event"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	paths, err := config.Resolve(common.ProjectDir(c))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	manifest, err := project.LoadManifest(paths.ProjectDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("Error: %s not found in %s.", project.ManifestName, paths.ProjectDir), 1)
		}
		return cli.Exit(fmt.Sprintf("Error loading %s: %v", project.ManifestName, err), 1)
	}

	lockPath := filepath.Join(paths.ProjectDir, lockfile.LockfileName)
	doc, err := lockfile.ReadLock(lockPath, !c.Bool("no-dev"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("Error: %s not found. Run 'composer install' first.", lockPath), 1)
		}
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}

	ev := &hook.Event{
		Name:      eventName,
		Root:      manifest.Root(os.Getenv(RootVersionEnv), c.String("root-reference")),
		Packages:  doc.Packages,
		VendorDir: paths.VendorDir,
		Removing:  c.Bool("removing"),
	}

	registry := hook.NewRegistry()
	installer.New(logger.New(c.App.ErrWriter, common.Verbose(c))).Register(registry)

	if registry.Subscribed(eventName) == 0 && common.Verbose(c) {
		_, _ = fmt.Fprintf(c.App.ErrWriter, "No listener subscribed to %s; nothing to do.\n", eventName)
	}
	if err := registry.Dispatch(ev); err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	return nil
}
