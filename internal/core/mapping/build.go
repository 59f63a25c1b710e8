package mapping

import (
	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/project"
)

// Build creates the mapping the installer writes: every record in order,
// then each replace target bound to "self.version", then the root package.
// The root version is the pretty version as declared, never normalized.
func Build(root project.RootPackageInfo, records []lockfile.PackageRecord) *Mapping {
	m := FromRecords(records)

	rootVersion := Composite(root.PrettyVersion, root.SourceReference, "")
	for _, link := range root.Replaces {
		if link.Constraint != SelfVersion {
			continue
		}
		m.Set(link.Target, rootVersion)
	}

	m.SetLast(root.Name, rootVersion)
	return m
}

// FromRecords maps each record to its composite version, in order.
func FromRecords(records []lockfile.PackageRecord) *Mapping {
	m := New()
	for _, rec := range records {
		m.Set(rec.Name, Composite(rec.Version, rec.SourceReference, rec.DistReference))
	}
	return m
}
