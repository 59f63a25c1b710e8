// Package installer writes the generated version file when dependencies change.
package installer

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/nightconcept/package-versions-go/internal/core/generated"
	"github.com/nightconcept/package-versions-go/internal/core/hook"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
)

// Installer is the listener that regenerates the version file.
type Installer struct {
	log *log.Logger
}

// New creates an Installer logging to l.
func New(l *log.Logger) *Installer {
	return &Installer{log: l}
}

// Register subscribes the installer to the autoload dump event, the last
// event Composer fires after an install or update.
func (i *Installer) Register(r *hook.Registry) {
	r.Subscribe(hook.PostAutoloadDump, i)
}

// OnDependenciesChanged builds the mapping from ev and writes it.
// Nothing is written, and an existing file is left untouched, when the tool is
// not part of the resolved set or is being removed.
func (i *Installer) OnDependenciesChanged(ev *hook.Event) error {
	if ev.Removing {
		i.log.Debug("skipping version file: package is being removed", "event", ev.Name)
		return nil
	}
	if !requiresFeature(ev) {
		i.log.Debug("skipping version file: package is not required by the root project", "root", ev.Root.Name)
		return nil
	}

	path := generated.Path(ev.VendorDir, ev.Root.Name)
	i.log.Info("Generating version file...")

	m := mapping.Build(ev.Root, ev.Packages)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}
	if err := generated.Write(path, m); err != nil {
		return err
	}

	i.log.Info("...done generating version file", "path", path, "packages", m.Len())
	return nil
}

func requiresFeature(ev *hook.Event) bool {
	if ev.Root.Name == generated.FeatureName {
		return true
	}
	for _, rec := range ev.Packages {
		if rec.Name == generated.FeatureName {
			return true
		}
	}
	return false
}
