package state

import (
	"fmt"
	"log"
)

// State is a step of a single dialogue turn
type State string

const (
	AwaitingQuery        State = "AWAITING_QUERY"
	Retrieving           State = "RETRIEVING"
	OracleCall           State = "ORACLE_CALL"
	RagReply             State = "RAG_REPLY"
	BookingValidate      State = "BOOKING_VALIDATE"
	BookingMissingFields State = "BOOKING_MISSING_FIELDS"
	BookingDuplicate     State = "BOOKING_DUPLICATE"
	BookingCommitted     State = "BOOKING_COMMITTED"
	Degraded             State = "DEGRADED"
	Done                 State = "DONE"
)

var transitions = map[State][]State{
	AwaitingQuery:        {Retrieving},
	Retrieving:           {OracleCall},
	OracleCall:           {RagReply, BookingValidate, Degraded},
	BookingValidate:      {BookingMissingFields, BookingDuplicate, BookingCommitted, Degraded},
	RagReply:             {Done},
	BookingMissingFields: {Done},
	BookingDuplicate:     {Done},
	BookingCommitted:     {Done},
	Degraded:             {Done},
}

// Manager tracks one pass through the dialogue state machine.
// It is not safe for concurrent use; create one per request.
type Manager struct {
	current State
	trail   []State
	logger  *log.Logger
}

// NewManager creates a new state manager in AWAITING_QUERY
func NewManager(logger *log.Logger) *Manager {
	return &Manager{
		current: AwaitingQuery,
		trail:   []State{AwaitingQuery},
		logger:  logger,
	}
}

func (m *Manager) Current() State {
	return m.current
}

// Trail returns every state visited so far, in order
func (m *Manager) Trail() []State {
	out := make([]State, len(m.trail))
	copy(out, m.trail)
	return out
}

// Transition moves to the next state or fails if the edge does not exist
func (m *Manager) Transition(to State) error {
	for _, allowed := range transitions[m.current] {
		if allowed == to {
			m.logger.Printf("[STATE] %s -> %s", m.current, to)
			m.current = to
			m.trail = append(m.trail, to)
			return nil
		}
	}
	return fmt.Errorf("illegal state transition %s -> %s", m.current, to)
}
