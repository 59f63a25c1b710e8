package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nightconcept/package-versions-go/internal/core/generated"
	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/project"
)

// FileName is the optional tool configuration in the project root.
const FileName = "pkgversions.toml"

// DefaultVendorDir is Composer's default install target.
const DefaultVendorDir = "vendor"

// VendorDirEnv is the Composer environment variable overriding the vendor dir.
const VendorDirEnv = "COMPOSER_VENDOR_DIR"

// File represents the structure of the pkgversions.toml file.
// Example:
//
//	vendor_dir = "lib/vendor"
//	lock_paths = ["build/composer.lock"]
//	bundled_lock = "/opt/app/composer.lock"
type File struct {
	VendorDir string `toml:"vendor_dir,omitempty"`
	// LockPaths replaces the default fallback candidates when set.
	LockPaths   []string `toml:"lock_paths,omitempty"`
	BundledLock string   `toml:"bundled_lock,omitempty"`
}

// LoadFile reads pkgversions.toml from dirPath.
// A missing file is not an error: it yields an empty File.
func LoadFile(dirPath string) (*File, error) {
	fullPath := filepath.Join(dirPath, FileName)
	var f File
	if _, err := toml.DecodeFile(fullPath, &f); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("failed to decode %s: %w", fullPath, err)
	}
	return &f, nil
}

// Paths are the resolved locations every command works with.
type Paths struct {
	ProjectDir string
	VendorDir  string
	// RootName is the root package name from composer.json, empty when unknown.
	RootName string
	// GeneratedFile is where the installer writes and the lookup API reads.
	GeneratedFile string
	// LockCandidates is the ordered list the fallback resolver checks.
	LockCandidates []string
}

// Resolve computes Paths for the project in projectDir.
// The vendor dir comes from pkgversions.toml, then COMPOSER_VENDOR_DIR, then
// composer.json's config.vendor-dir, then DefaultVendorDir.
func Resolve(projectDir string) (Paths, error) {
	absProject, err := filepath.Abs(projectDir)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve project dir %s: %w", projectDir, err)
	}

	f, err := LoadFile(absProject)
	if err != nil {
		return Paths{}, err
	}

	manifest, err := project.LoadManifest(absProject)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Paths{}, err
		}
		manifest = &project.Manifest{}
	}

	vendorDir := firstNonEmpty(f.VendorDir, os.Getenv(VendorDirEnv), manifest.Config.VendorDir, DefaultVendorDir)
	vendorDir = resolveIn(absProject, vendorDir)

	bundled := f.BundledLock
	if bundled == "" {
		bundled = filepath.Join(vendorDir, filepath.FromSlash(generated.FeatureName), lockfile.LockfileName)
	} else {
		bundled = resolveIn(absProject, bundled)
	}

	candidates := lockfile.DefaultCandidates(absProject, vendorDir, bundled)
	if len(f.LockPaths) > 0 {
		candidates = make([]string, 0, len(f.LockPaths))
		for _, p := range f.LockPaths {
			candidates = append(candidates, resolveIn(absProject, p))
		}
	}

	return Paths{
		ProjectDir:     absProject,
		VendorDir:      vendorDir,
		RootName:       manifest.Name,
		GeneratedFile:  generated.Path(vendorDir, manifest.Name),
		LockCandidates: candidates,
	}, nil
}

func resolveIn(base, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(base, p)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
