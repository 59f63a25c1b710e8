package self

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/charmbracelet/log"
	"github.com/creativeprojects/go-selfupdate"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/package-versions-go/internal/cli/common"
	"github.com/nightconcept/package-versions-go/internal/core/logger"
)

// DefaultRepository is where release binaries of pkgversions are published.
const DefaultRepository = "nightconcept/package-versions-go"

// NewSelfCommand creates a new command for self-management.
func NewSelfCommand() *cli.Command {
	return &cli.Command{
		Name:  "self",
		Usage: "Manage the pkgversions binary itself",
		Subcommands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update pkgversions to the latest release",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "yes",
						Aliases: []string{"y"},
						Usage:   "Automatically confirm the update",
					},
					&cli.BoolFlag{
						Name:  "check",
						Usage: "Check for available updates without installing",
					},
					&cli.StringFlag{
						Name:  "source",
						Usage: "GitHub repository to update from, as 'owner/repo'",
						Value: DefaultRepository,
					},
				},
				Action: updateAction,
			},
		},
	}
}

// ParseCurrentVersion accepts "vX.Y.Z" as well as "X.Y.Z".
func ParseCurrentVersion(raw string) (*semver.Version, error) {
	v, err := semver.NewVersion(strings.TrimPrefix(raw, "v"))
	if err != nil {
		return nil, fmt.Errorf("error parsing current version '%s': %w. Ensure version is like vX.Y.Z or X.Y.Z", raw, err)
	}
	return v, nil
}

// ParseRepository validates an 'owner/repo' slug.
func ParseRepository(slug string) (string, error) {
	owner, repo, ok := strings.Cut(slug, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", fmt.Errorf("invalid --source format. Expected 'owner/repo', got: %s", slug)
	}
	return slug, nil
}

func updateAction(c *cli.Context) error {
	l := logger.New(c.App.ErrWriter, common.Verbose(c))
	out := c.App.Writer

	current, err := ParseCurrentVersion(c.App.Version)
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	repoSlug, err := ParseRepository(c.String("source"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
	}
	l.Debug("checking for updates", "current", current.String(), "source", repoSlug)

	updater, err := newUpdater()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Failed to initialize updater: %v", err), 1)
	}

	latest, found, err := updater.DetectLatest(c.Context, selfupdate.ParseSlug(repoSlug))
	if err != nil {
		return cli.Exit(fmt.Sprintf("Error detecting latest version: %v", err), 1)
	}
	if !found || !latest.GreaterThan(current.String()) {
		_, _ = fmt.Fprintf(out, "Current version %s is already the latest.\n", c.App.Version)
		return nil
	}
	logRelease(l, latest)

	_, _ = fmt.Fprintf(out, "New version available: %s (current: %s)\n", latest.Version(), c.App.Version)
	if c.Bool("check") {
		return nil
	}

	if !c.Bool("yes") && !confirm(c) {
		_, _ = fmt.Fprintln(out, "Update cancelled.")
		return nil
	}

	execPath, err := os.Executable()
	if err != nil {
		return cli.Exit(fmt.Sprintf("Could not get executable path: %v", err), 1)
	}
	l.Debug("replacing executable", "path", execPath)

	if err := updater.UpdateTo(c.Context, latest, execPath); err != nil {
		return cli.Exit(fmt.Sprintf("Failed to update: %v", err), 1)
	}

	_, _ = fmt.Fprintf(out, "Successfully updated to version %s.\n", latest.Version())
	return nil
}

func newUpdater() (*selfupdate.Updater, error) {
	source, err := selfupdate.NewGitHubSource(selfupdate.GitHubConfig{})
	if err != nil {
		return nil, err
	}
	return selfupdate.NewUpdater(selfupdate.Config{Source: source})
}

func logRelease(l *log.Logger, r *selfupdate.Release) {
	l.Debug("latest release", "version", r.Version(), "url", r.URL, "asset", r.AssetURL)
	if r.ReleaseNotes != "" {
		l.Debug("release notes", "notes", r.ReleaseNotes)
	}
}

func confirm(c *cli.Context) bool {
	_, _ = fmt.Fprint(c.App.Writer, "Do you want to update? (y/N): ")
	reader := bufio.NewReader(c.App.Reader)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(strings.ToLower(input)) == "y"
}
