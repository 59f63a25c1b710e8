// Package hook_test contains tests for the hook package.
package hook_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nightconcept/package-versions-go/internal/core/hook"
)

func TestParseEventName(t *testing.T) {
	t.Parallel()
	for _, name := range hook.Known {
		got, err := hook.ParseEventName(string(name))
		require.NoError(t, err)
		assert.Equal(t, name, got)
	}

	_, err := hook.ParseEventName("pre-install-cmd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pre-install-cmd")
}

func TestRegistry_DispatchInSubscriptionOrder(t *testing.T) {
	t.Parallel()
	r := hook.NewRegistry()
	var calls []string
	r.Subscribe(hook.PostAutoloadDump, hook.ListenerFunc(func(*hook.Event) error {
		calls = append(calls, "first")
		return nil
	}))
	r.Subscribe(hook.PostAutoloadDump, hook.ListenerFunc(func(*hook.Event) error {
		calls = append(calls, "second")
		return nil
	}))
	r.Subscribe(hook.PostInstall, hook.ListenerFunc(func(*hook.Event) error {
		calls = append(calls, "other event")
		return nil
	}))

	require.NoError(t, r.Dispatch(&hook.Event{Name: hook.PostAutoloadDump}))
	assert.Equal(t, []string{"first", "second"}, calls)
	assert.Equal(t, 2, r.Subscribed(hook.PostAutoloadDump))
	assert.Equal(t, 0, r.Subscribed(hook.PostUpdate))
}

func TestRegistry_DispatchStopsAtFirstError(t *testing.T) {
	t.Parallel()
	r := hook.NewRegistry()
	boom := errors.New("boom")
	called := false
	r.Subscribe(hook.PostUpdate, hook.ListenerFunc(func(*hook.Event) error { return boom }))
	r.Subscribe(hook.PostUpdate, hook.ListenerFunc(func(*hook.Event) error {
		called = true
		return nil
	}))

	err := r.Dispatch(&hook.Event{Name: hook.PostUpdate})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), string(hook.PostUpdate))
	assert.False(t, called)
}

func TestRegistry_DispatchWithoutListeners(t *testing.T) {
	t.Parallel()
	assert.NoError(t, hook.NewRegistry().Dispatch(&hook.Event{Name: hook.PostInstall}))
}
