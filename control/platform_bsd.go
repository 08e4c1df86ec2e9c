//go:build darwin || dragonfly || freebsd || netbsd || openbsd
// +build darwin dragonfly freebsd netbsd openbsd

// control/platform_bsd.go
// Author: momentics <momentics@gmail.com>
//
// Debug probes for the kqueue platforms (BSD/Darwin). RLIMIT_NOFILE is part
// of the same golang.org/x/sys/unix surface the kqueue reactor already uses.

package control

import (
	"runtime"

	"golang.org/x/sys/unix"
)

// RegisterPlatformProbes adds CPU count, live goroutine count, and the
// process's open-file-descriptor limit, mirroring platform_linux.go.
func RegisterPlatformProbes(dp *DebugProbes) {
	dp.RegisterProbe("platform.cpus", func() any {
		return runtime.NumCPU()
	})
	dp.RegisterProbe("platform.goroutines", func() any {
		return runtime.NumGoroutine()
	})
	dp.RegisterProbe("platform.fd_limit", func() any {
		var rlimit unix.Rlimit
		if err := unix.Getrlimit(unix.RLIMIT_NOFILE, &rlimit); err != nil {
			return -1
		}
		return rlimit.Cur
	})
}
