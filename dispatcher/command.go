// File: dispatcher/command.go
// Author: momentics <momentics@gmail.com>
//
// Tagged-variant notifications flowing through the two queues. The source
// this dispatcher is modeled on materializes each event as a polymorphic
// notification object; the idiomatic Go shape is a tagged struct plus a
// FIFO, with no inheritance hierarchy required.

package dispatcher

import "time"

// CommandKind tags the externally-producible control messages that flow
// through the command queue and are applied to the socket table by the
// readiness loop.
type CommandKind int

const (
	CmdAdd CommandKind = iota
	CmdRemove
	CmdClose
	CmdReset
)

// Command is one control message: AddSocket, RemoveSocket, CloseSocket, or
// Reset. Only the fields relevant to Kind are populated.
type Command struct {
	Kind    CommandKind
	Handle  Handle
	Handler Handler
	Timeout time.Duration
}

// TaskKind tags the internal notifications the readiness loop posts to the
// worker queue once it has observed readiness, a timeout, or an exception
// for a socket.
type TaskKind int

const (
	TaskReadable TaskKind = iota
	TaskTimeout
	TaskException
)

// Task is one internal handler-invocation notification. Info pins the
// SocketInfo for the duration of the task, even if the readiness loop later
// erases the corresponding socket-table entry out from under it — the
// handler is responsible for tolerating a mid-task removal.
type Task struct {
	Kind   TaskKind
	Handle Handle
	Info   *SocketInfo
}
