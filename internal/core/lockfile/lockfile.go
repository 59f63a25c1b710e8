package lockfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// LockfileName is the Composer lockfile in the project root.
	LockfileName = "composer.lock"
	// InstalledName is the installed-state file relative to the vendor dir.
	InstalledName = "composer/installed.json"
)

// RootMarker is appended to every document read from disk. A lock document
// cannot tell who the root project is, so the fallback path names it with
// this placeholder instead.
var RootMarker = PackageRecord{Name: "unknown/root-package", Version: "UNKNOWN"}

// PackageRecord represents a single resolved package.
// Example (composer.lock):
//
//	{"name": "foo/bar", "version": "1.2.3",
//	 "source": {"reference": "abc123"}, "dist": {"reference": "abc123"}}
type PackageRecord struct {
	Name            string
	Version         string
	SourceReference string
	DistReference   string
}

type packageJSON struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Source  *struct {
		Reference string `json:"reference"`
	} `json:"source,omitempty"`
	Dist *struct {
		Reference string `json:"reference"`
	} `json:"dist,omitempty"`
}

func (p packageJSON) record() PackageRecord {
	rec := PackageRecord{Name: p.Name, Version: p.Version}
	if p.Source != nil {
		rec.SourceReference = p.Source.Reference
	}
	if p.Dist != nil {
		rec.DistReference = p.Dist.Reference
	}
	return rec
}

// lockJSON covers both the full lockfile and the Composer 2 installed.json object.
type lockJSON struct {
	ContentHash *string       `json:"content-hash"`
	Packages    []packageJSON `json:"packages"`
	PackagesDev []packageJSON `json:"packages-dev"`
}

// Kind tells which lock document shape was parsed.
type Kind int

const (
	// KindLockfile is a full composer.lock with "content-hash".
	KindLockfile Kind = iota
	// KindInstalled is an installed.json file, either a flat array or an object with "packages".
	KindInstalled
)

// Document is a parsed lock document.
type Document struct {
	Path     string
	Kind     Kind
	Packages []PackageRecord
}

// Records returns the packages followed by RootMarker.
func (d *Document) Records() []PackageRecord {
	out := make([]PackageRecord, 0, len(d.Packages)+1)
	out = append(out, d.Packages...)
	return append(out, RootMarker)
}

// LocationNotFoundError is returned when none of the candidate paths exist.
type LocationNotFoundError struct {
	Checked []string
}

func (e *LocationNotFoundError) Error() string {
	checked, _ := json.Marshal(e.Checked)
	return fmt.Sprintf(
		"could not locate the `vendor/composer/installed.json` or your `composer.lock` location. "+
			"This is assumed to be in %s. If you customized your composer vendor directory and ran composer "+
			"installation with --no-scripts or if you deployed without the required composer files, "+
			"the installed versions cannot be determined",
		checked,
	)
}

// DefaultCandidates returns the lookup order used by the fallback resolver:
// the project's installed.json, the project's composer.lock, then the lockfile
// bundled with this tool (skipped when empty).
func DefaultCandidates(projectDir, vendorDir, bundledLock string) []string {
	candidates := []string{
		filepath.Join(vendorDir, filepath.FromSlash(InstalledName)),
		filepath.Join(projectDir, LockfileName),
	}
	if bundledLock != "" {
		candidates = append(candidates, bundledLock)
	}
	return candidates
}

// Locate returns the first candidate that exists.
func Locate(candidates []string) (string, error) {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat lock document %s: %w", path, err)
		}
	}
	return "", &LocationNotFoundError{Checked: candidates}
}

// Load locates and reads the first available lock document.
func Load(candidates []string) (*Document, error) {
	path, err := Locate(candidates)
	if err != nil {
		return nil, err
	}
	return Read(path)
}

// Read parses the lock document at path, including dev packages.
func Read(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lock document %s: %w", path, err)
	}
	doc, err := Parse(data, true)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lock document %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// ReadLock reads a full composer.lock. Dev packages are skipped when withDev is false.
func ReadLock(path string, withDev bool) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lockfile %s: %w", path, err)
	}
	doc, err := Parse(data, withDev)
	if err != nil {
		return nil, fmt.Errorf("failed to decode lockfile %s: %w", path, err)
	}
	doc.Path = path
	return doc, nil
}

// Parse decodes a lock document held in memory.
func Parse(data []byte, withDev bool) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty document")
	}

	// Composer 1 installed.json is a bare array of packages.
	if trimmed[0] == '[' {
		var pkgs []packageJSON
		if err := json.Unmarshal(trimmed, &pkgs); err != nil {
			return nil, err
		}
		return &Document{Kind: KindInstalled, Packages: records(pkgs)}, nil
	}

	var lock lockJSON
	if err := json.Unmarshal(trimmed, &lock); err != nil {
		return nil, err
	}

	if lock.ContentHash == nil {
		return &Document{Kind: KindInstalled, Packages: records(lock.Packages)}, nil
	}

	pkgs := lock.Packages
	if withDev {
		pkgs = append(pkgs, lock.PackagesDev...)
	}
	return &Document{Kind: KindLockfile, Packages: records(pkgs)}, nil
}

func records(pkgs []packageJSON) []PackageRecord {
	out := make([]PackageRecord, 0, len(pkgs))
	for _, p := range pkgs {
		out = append(out, p.record())
	}
	return out
}
