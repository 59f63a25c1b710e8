package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the Composer manifest in the project root.
const ManifestName = "composer.json"

// DefaultRootVersion is what Composer reports for a root package that has no
// version in its manifest and no COMPOSER_ROOT_VERSION set.
const DefaultRootVersion = "1.0.0+no-version-set"

// Link is a package link declared by the root package, e.g. a "replace" entry.
type Link struct {
	Target     string
	Constraint string
}

// Links keeps the manifest's declaration order, which a plain map would lose.
type Links []Link

// UnmarshalJSON decodes a JSON object of target → constraint in document order.
func (l *Links) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		// Composer tolerates an empty array for empty link sections.
		var empty []any
		if err := json.Unmarshal(data, &empty); err == nil && len(empty) == 0 {
			*l = nil
			return nil
		}
		return fmt.Errorf("expected object for package links, got %v", tok)
	}

	var out Links
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var constraint string
		if err := dec.Decode(&constraint); err != nil {
			return fmt.Errorf("invalid constraint for %q: %w", key, err)
		}
		out = append(out, Link{Target: key, Constraint: constraint})
	}
	*l = out
	return nil
}

// Manifest represents the parts of composer.json this tool reads.
type Manifest struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
	Replace Links  `json:"replace,omitempty"`
	Config  struct {
		VendorDir string `json:"vendor-dir,omitempty"`
	} `json:"config"`
}

// RootPackageInfo holds the root project's identity as the mapping builder sees it.
type RootPackageInfo struct {
	Name            string
	PrettyVersion   string
	SourceReference string
	Replaces        []Link
}

// LoadManifest reads composer.json from dirPath.
func LoadManifest(dirPath string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dirPath, ManifestName))
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", ManifestName, err)
	}
	return &m, nil
}

// Root builds the root package info. The manifest version wins over
// envVersion (COMPOSER_ROOT_VERSION), which wins over DefaultRootVersion.
func (m *Manifest) Root(envVersion, sourceReference string) RootPackageInfo {
	version := m.Version
	if version == "" {
		version = envVersion
	}
	if version == "" {
		version = DefaultRootVersion
	}
	return RootPackageInfo{
		Name:            m.Name,
		PrettyVersion:   version,
		SourceReference: sourceReference,
		Replaces:        append([]Link(nil), m.Replace...),
	}
}
