// Package fallback recomputes the version mapping from on-disk lock data.
//
// It is only used when the generated version file is missing, typically
// because "composer install --no-scripts" skipped the hook. The root project
// cannot be identified from a lock document, so the mapping ends with
// lockfile.RootMarker instead of the real root package.
package fallback

import (
	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/mapping"
)

// Resolver reads the first available lock document among Candidates.
type Resolver struct {
	Candidates []string
}

// New creates a Resolver over the given ordered candidate paths.
func New(candidates []string) *Resolver {
	return &Resolver{Candidates: candidates}
}

// Mapping loads lock data and builds the degraded mapping.
// It fails with *lockfile.LocationNotFoundError when no candidate exists.
func (r *Resolver) Mapping() (*mapping.Mapping, error) {
	doc, err := lockfile.Load(r.Candidates)
	if err != nil {
		return nil, err
	}
	return mapping.FromRecords(doc.Records()), nil
}

// GetVersion returns the composite version of packageName.
func (r *Resolver) GetVersion(packageName string) (string, error) {
	m, err := r.Mapping()
	if err != nil {
		return "", err
	}
	return m.Get(packageName)
}
