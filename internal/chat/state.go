package chat

import (
	"errors"
	"fmt"
)

// State is the conversation's position in the request/stream cycle.
type State int

const (
	Idle State = iota
	Sending
	Streaming
	Errored
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Sending:
		return "sending"
	case Streaming:
		return "streaming"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Loading reports whether a turn is in flight.
func (s State) Loading() bool {
	return s == Sending || s == Streaming
}

// Event drives a state change.
type Event int

const (
	EventSubmit Event = iota
	EventConnected
	EventChunk
	EventCompleted
	EventFailed
	EventRecovered
	EventReset
)

func (e Event) String() string {
	switch e {
	case EventSubmit:
		return "submit"
	case EventConnected:
		return "connected"
	case EventChunk:
		return "chunk"
	case EventCompleted:
		return "completed"
	case EventFailed:
		return "failed"
	case EventRecovered:
		return "recovered"
	case EventReset:
		return "reset"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// ErrInvalidTransition is returned by Next for an event the state does not accept.
var ErrInvalidTransition = errors.New("invalid transition")

type transition struct {
	from  State
	event Event
}

var transitions = map[transition]State{
	{Idle, EventSubmit}:         Sending,
	{Sending, EventConnected}:   Streaming,
	{Sending, EventFailed}:      Errored,
	{Streaming, EventChunk}:     Streaming,
	{Streaming, EventCompleted}: Idle,
	{Streaming, EventFailed}:    Errored,
	{Errored, EventRecovered}:   Idle,
}

// Next is the conversation's only transition function.
func Next(from State, ev Event) (State, error) {
	if ev == EventReset {
		return Idle, nil
	}
	to, ok := transitions[transition{from, ev}]
	if !ok {
		return from, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, from, ev)
	}
	return to, nil
}
