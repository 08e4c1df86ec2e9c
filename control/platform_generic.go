//go:build !linux && !windows && !darwin && !dragonfly && !freebsd && !netbsd && !openbsd
// +build !linux,!windows,!darwin,!dragonfly,!freebsd,!netbsd,!openbsd

// control/platform_generic.go
// Author: momentics <momentics@gmail.com>
//
// Fallback debug probes for platforms with neither a Linux- nor BSD-style
// RLIMIT_NOFILE (golang.org/x/sys/unix may not build at all here — see
// reactor_stub.go, the reactor counterpart, whose tag set is this one plus
// windows, which has its own platform file in this package).

package control

import "runtime"

// RegisterPlatformProbes adds the probes available everywhere Go runs.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
