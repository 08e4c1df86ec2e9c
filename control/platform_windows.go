//go:build windows
// +build windows

// control/platform_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows debug probes. No RLIMIT_NOFILE equivalent is exposed the way
// Unix reports it, so this stays CPU/goroutine count only — the reactor
// itself is unsupported on Windows (see reactor_stub.go), so this path only
// runs in the control package's own tests on a Windows build host.

package control

import (
	"runtime"
)

// RegisterPlatformProbes adds CPU count and live goroutine count.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
}
