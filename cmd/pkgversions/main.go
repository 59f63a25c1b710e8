package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/package-versions-go/internal/cli/common"
	"github.com/nightconcept/package-versions-go/internal/cli/dump"
	"github.com/nightconcept/package-versions-go/internal/cli/self"
	"github.com/nightconcept/package-versions-go/internal/cli/versions"
)

// version is overridden at release time with -ldflags "-X main.version=...".
var version = "v0.1.0"

func main() {
	app := &cli.App{
		Name:    "pkgversions",
		Usage:   "Record and look up the installed versions of Composer packages",
		Version: version,
		Flags:   common.GlobalFlags(),
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			versions.VersionsCmd,
			dump.NewDumpCommand(),
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
