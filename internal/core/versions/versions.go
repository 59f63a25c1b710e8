// Package versions is the lookup API over installed package versions.
//
// Open reads the generated version file written by the installer hook. When
// that file was never generated it falls back to recomputing the mapping from
// installed.json or composer.lock; IsFallback reports which path was taken.
// Every lookup returns the composite "<version>@<reference>" string, where
// the reference may be empty but the "@" is always present.
package versions

import (
	"errors"
	"fmt"
	"os"

	"github.com/Masterminds/semver/v3"

	"github.com/nightconcept/package-versions-go/internal/core/config"
	"github.com/nightconcept/package-versions-go/internal/core/fallback"
	"github.com/nightconcept/package-versions-go/internal/core/generated"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
)

// Versions is a loaded, read-only version mapping.
type Versions struct {
	m        *mapping.Mapping
	source   string
	fallback bool
}

// Open loads the mapping for the project described by paths.
func Open(paths config.Paths) (*Versions, error) {
	m, err := generated.Load(paths.GeneratedFile)
	if err == nil {
		return &Versions{m: m, source: paths.GeneratedFile}, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	fb := fallback.New(paths.LockCandidates)
	m, err = fb.Mapping()
	if err != nil {
		return nil, err
	}
	return &Versions{m: m, source: "lock data", fallback: true}, nil
}

// FromMapping wraps an already built mapping.
func FromMapping(m *mapping.Mapping) *Versions {
	return &Versions{m: m, source: "memory"}
}

// GetVersion returns the composite version of packageName, or an error
// matching mapping.ErrPackageNotFound.
func (v *Versions) GetVersion(packageName string) (string, error) {
	return v.m.Get(packageName)
}

// RootPackageName returns the root project's name. On the fallback path this
// is the lockfile.RootMarker placeholder.
func (v *Versions) RootPackageName() string {
	return v.m.RootName()
}

// All returns every entry in generation order.
func (v *Versions) All() []mapping.Entry {
	return v.m.Entries()
}

// Sorted returns every entry ordered by package name.
func (v *Versions) Sorted() []mapping.Entry {
	return v.m.Sorted()
}

// IsFallback reports whether the mapping was recomputed from lock data.
func (v *Versions) IsFallback() bool {
	return v.fallback
}

// Source describes where the mapping was read from.
func (v *Versions) Source() string {
	return v.source
}

// Satisfies reports whether the installed version of packageName matches the
// semver constraint, e.g. "^1.2" or ">= 2.0, < 3".
func (v *Versions) Satisfies(packageName, constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, fmt.Errorf("invalid constraint %q: %w", constraint, err)
	}

	composite, err := v.GetVersion(packageName)
	if err != nil {
		return false, err
	}

	raw, _ := mapping.SplitComposite(composite)
	installed, err := semver.NewVersion(raw)
	if err != nil {
		return false, fmt.Errorf("installed version %q of %s is not a semantic version: %w", raw, packageName, err)
	}
	return c.Check(installed), nil
}
