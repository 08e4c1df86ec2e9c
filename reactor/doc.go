// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the multiplexed-wait abstraction the dispatcher's
// readiness loop drives, with epoll (Linux) and kqueue (BSD/Darwin)
// implementations. Other platforms get a stub that errors at construction.
package reactor
