// Package generated reads and writes the version file produced on every
// dependency install or update.
//
// The file is a TOML document with one [[package]] table per installed
// package, in the order the installer produced them. The last table is
// always the root package. A digest over the rows guards against hand
// edits and truncated writes.
package generated

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/package-versions-go/internal/core/hasher"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
)

// FeatureName is the Composer package name of this tool.
const FeatureName = "nightconcept/package-versions"

// RelPath is where the file lives inside the tool's package directory.
const RelPath = "generated/versions.toml"

// FileMode is applied after every write so the result does not depend on the umask.
const FileMode os.FileMode = 0o664

// ErrCorrupt is returned when the file does not match its recorded digest.
var ErrCorrupt = errors.New("generated version file is corrupt")

const header = `# This file is generated by nightconcept/package-versions.
#
# It is overwritten at every run of "composer install" or "composer update".
# Do not read it from your code: use the versions lookup API instead.

`

type row struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type document struct {
	RootPackageName string `toml:"root_package_name"`
	Digest          string `toml:"digest"`
	Packages        []row  `toml:"package"`
}

// Path returns where the file goes for a project whose vendor dir is vendorDir.
// When the root project is this tool itself the file lands in the project
// tree next to the vendor dir.
func Path(vendorDir, rootName string) string {
	if rootName == FeatureName {
		return filepath.Join(filepath.Dir(filepath.Clean(vendorDir)), filepath.FromSlash(RelPath))
	}
	return filepath.Join(vendorDir, filepath.FromSlash(FeatureName), filepath.FromSlash(RelPath))
}

func digest(entries []mapping.Entry) string {
	d := hasher.New()
	for _, e := range entries {
		d.Add(e.Name, e.Version)
	}
	return d.Sum()
}

// Render serializes m. Identical mappings render to identical bytes.
func Render(m *mapping.Mapping) ([]byte, error) {
	entries := m.Entries()
	doc := document{
		RootPackageName: m.RootName(),
		Digest:          digest(entries),
		Packages:        make([]row, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Packages = append(doc.Packages, row{Name: e.Name, Version: e.Version})
	}

	buf := bytes.NewBufferString(header)
	enc := toml.NewEncoder(buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode version file: %w", err)
	}
	return buf.Bytes(), nil
}

// Write renders m to path, replacing any previous file even if it is read-only.
func Write(path string, m *mapping.Mapping) error {
	data, err := Render(m)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to replace version file %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, FileMode); err != nil {
		return fmt.Errorf("failed to write version file %s: %w", path, err)
	}
	if err := os.Chmod(path, FileMode); err != nil {
		return fmt.Errorf("failed to set permissions on version file %s: %w", path, err)
	}
	return nil
}

// Load reads the file at path back into a mapping.
// A missing file yields an error matching os.ErrNotExist.
func Load(path string) (*mapping.Mapping, error) {
	var doc document
	if _, err := toml.DecodeFile(path, &doc); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to decode version file %s: %w", path, err)
	}

	m := mapping.New()
	for _, r := range doc.Packages {
		if m.Has(r.Name) {
			return nil, fmt.Errorf("%w: %s lists %q twice", ErrCorrupt, path, r.Name)
		}
		m.Set(r.Name, r.Version)
	}

	if got := digest(m.Entries()); got != doc.Digest {
		return nil, fmt.Errorf("%w: %s has digest %s, expected %s", ErrCorrupt, path, got, doc.Digest)
	}
	if m.RootName() != doc.RootPackageName {
		return nil, fmt.Errorf("%w: %s names root %q but its last entry is %q", ErrCorrupt, path, doc.RootPackageName, m.RootName())
	}
	return m, nil
}
