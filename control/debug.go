// control/debug.go
// Author: momentics <momentics@gmail.com>
//
// Runtime debug handler and probe reflector for internal inspection.

package control

import "sync"

// DebugProbes holds registered probe functions for one named component.
// Probe names are stored under "<component>.<name>" so that Dispatcher.Stats
// output is self-describing without every call site having to spell out the
// component prefix itself.
type DebugProbes struct {
	mu        sync.RWMutex
	component string
	probes    map[string]func() any
}

// NewDebugProbes creates a probe registry namespaced under component.
func NewDebugProbes(component string) *DebugProbes {
	return &DebugProbes{
		component: component,
		probes:    make(map[string]func() any),
	}
}

// RegisterProbe inserts a named debug hook under this registry's component.
func (dp *DebugProbes) RegisterProbe(name string, fn func() any) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.probes[dp.component+"."+name] = fn
}

// DumpState returns output of all probes, keyed by their namespaced name.
func (dp *DebugProbes) DumpState() map[string]any {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	out := make(map[string]any, len(dp.probes))
	for k, fn := range dp.probes {
		out[k] = fn()
	}
	return out
}
