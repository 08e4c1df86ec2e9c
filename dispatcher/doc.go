// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package dispatcher implements a multiplexed socket dispatcher: a single
// readiness-loop goroutine performs a bounded multiplexed wait over a table
// of registered stream sockets and accounts for per-socket idle timeouts,
// while a fixed worker pool invokes user handler callbacks so that a slow
// handler never stalls readiness accounting for any other socket.
//
// All structural changes to the socket table (add, remove, close, reset)
// are serialized through a command queue consumed solely by the readiness
// loop, which therefore needs no lock around its socket table.
package dispatcher
