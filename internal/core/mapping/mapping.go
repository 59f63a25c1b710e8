// Package mapping holds the ordered package-name to composite-version table
// shared by the installer, the generated artifact and the fallback resolver.
package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// SelfVersion is the replace constraint that makes a replaced package
// inherit the root package's own version.
const SelfVersion = "self.version"

// ErrPackageNotFound is matched by every PackageNotFoundError via errors.Is.
var ErrPackageNotFound = errors.New("package not installed")

// PackageNotFoundError reports a lookup for a package that is absent from the mapping.
type PackageNotFoundError struct {
	Name string
}

func (e *PackageNotFoundError) Error() string {
	return fmt.Sprintf(
		"Required package %q is not installed: check your ./vendor/composer/installed.json and/or ./composer.lock files",
		e.Name,
	)
}

// Is lets errors.Is(err, ErrPackageNotFound) succeed.
func (e *PackageNotFoundError) Is(target error) bool {
	return target == ErrPackageNotFound
}

// Entry is a single row of the mapping.
// Version holds the composite "<version>@<reference>" string.
type Entry struct {
	Name    string
	Version string
}

// Mapping is an insertion-ordered map with unique keys.
type Mapping struct {
	entries []Entry
	index   map[string]int
}

// New creates an empty Mapping.
func New() *Mapping {
	return &Mapping{index: make(map[string]int)}
}

// Set inserts name or, if already present, overwrites its value in place.
func (m *Mapping) Set(name, version string) {
	if i, ok := m.index[name]; ok {
		m.entries[i].Version = version
		return
	}
	m.index[name] = len(m.entries)
	m.entries = append(m.entries, Entry{Name: name, Version: version})
}

// SetLast is Set, except that an existing entry is moved to the end.
func (m *Mapping) SetLast(name, version string) {
	if i, ok := m.index[name]; ok {
		m.entries = append(m.entries[:i], m.entries[i+1:]...)
		for j := i; j < len(m.entries); j++ {
			m.index[m.entries[j].Name] = j
		}
		delete(m.index, name)
	}
	m.Set(name, version)
}

// Get returns the composite version recorded for name.
func (m *Mapping) Get(name string) (string, error) {
	i, ok := m.index[name]
	if !ok {
		return "", &PackageNotFoundError{Name: name}
	}
	return m.entries[i].Version, nil
}

// Has reports whether name is present.
func (m *Mapping) Has(name string) bool {
	_, ok := m.index[name]
	return ok
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.entries)
}

// Entries returns a copy of the entries in insertion order.
func (m *Mapping) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Names returns the package names in insertion order.
func (m *Mapping) Names() []string {
	names := make([]string, len(m.entries))
	for i, e := range m.entries {
		names[i] = e.Name
	}
	return names
}

// Sorted returns a copy of the entries ordered by package name.
func (m *Mapping) Sorted() []Entry {
	out := m.Entries()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// RootName returns the name of the last entry, which Build always reserves
// for the root package. It is empty for an empty mapping.
func (m *Mapping) RootName() string {
	if len(m.entries) == 0 {
		return ""
	}
	return m.entries[len(m.entries)-1].Name
}

// Composite joins a version with the preferred reference.
// The source reference wins over the dist reference; the separator is always present.
func Composite(version, sourceRef, distRef string) string {
	ref := sourceRef
	if ref == "" {
		ref = distRef
	}
	return version + "@" + ref
}

// SplitComposite splits a composite string on its first "@".
func SplitComposite(composite string) (version, ref string) {
	version, ref, _ = strings.Cut(composite, "@")
	return version, ref
}
