// Package hook models the package manager lifecycle events this tool reacts to.
//
// The host (Composer, through the dump command) fills an Event with the
// resolved dependency state and dispatches it through a Registry. Listeners
// subscribe by event name; there is no other coupling to the host.
package hook

import (
	"fmt"

	"github.com/nightconcept/package-versions-go/internal/core/lockfile"
	"github.com/nightconcept/package-versions-go/internal/core/project"
)

// EventName identifies a lifecycle event.
type EventName string

const (
	PostInstall      EventName = "post-install-cmd"
	PostUpdate       EventName = "post-update-cmd"
	PostAutoloadDump EventName = "post-autoload-dump"
)

// Known lists the events the host may dispatch.
var Known = []EventName{PostInstall, PostUpdate, PostAutoloadDump}

// ParseEventName validates a user-supplied event name.
func ParseEventName(s string) (EventName, error) {
	for _, name := range Known {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("unknown event %q (expected one of %v)", s, Known)
}

// Event is the context handed to listeners when dependencies change.
type Event struct {
	Name EventName
	// Root is the root project as resolved by the host.
	Root project.RootPackageInfo
	// Packages is the resolved package set, in the host's order.
	Packages []lockfile.PackageRecord
	// VendorDir is the configured install-target directory.
	VendorDir string
	// Removing is set when the triggering operation uninstalls this tool.
	Removing bool
}

// Listener reacts to a dependency change.
type Listener interface {
	OnDependenciesChanged(ev *Event) error
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(ev *Event) error

// OnDependenciesChanged calls f(ev).
func (f ListenerFunc) OnDependenciesChanged(ev *Event) error {
	return f(ev)
}

// Registry is the callback table from event names to listeners.
type Registry struct {
	listeners map[EventName][]Listener
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{listeners: make(map[EventName][]Listener)}
}

// Subscribe adds l to the listeners of name.
func (r *Registry) Subscribe(name EventName, l Listener) {
	r.listeners[name] = append(r.listeners[name], l)
}

// Subscribed returns the number of listeners for name.
func (r *Registry) Subscribed(name EventName) int {
	return len(r.listeners[name])
}

// Dispatch runs the listeners of ev.Name in subscription order and stops at the first error.
func (r *Registry) Dispatch(ev *Event) error {
	for _, l := range r.listeners[ev.Name] {
		if err := l.OnDependenciesChanged(ev); err != nil {
			return fmt.Errorf("%s listener failed: %w", ev.Name, err)
		}
	}
	return nil
}
