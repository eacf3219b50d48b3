package state

import (
	"io"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_HappyPaths(t *testing.T) {
	paths := map[string][]State{
		"rag":       {Retrieving, OracleCall, RagReply, Done},
		"missing":   {Retrieving, OracleCall, BookingValidate, BookingMissingFields, Done},
		"duplicate": {Retrieving, OracleCall, BookingValidate, BookingDuplicate, Done},
		"committed": {Retrieving, OracleCall, BookingValidate, BookingCommitted, Done},
		"degraded":  {Retrieving, OracleCall, Degraded, Done},
		"bad draft": {Retrieving, OracleCall, BookingValidate, Degraded, Done},
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			m := NewManager(log.New(io.Discard, "", 0))
			for _, s := range path {
				require.NoError(t, m.Transition(s))
			}
			assert.Equal(t, Done, m.Current())
			assert.Equal(t, append([]State{AwaitingQuery}, path...), m.Trail())
		})
	}
}

func TestManager_RejectsIllegalTransitions(t *testing.T) {
	m := NewManager(log.New(io.Discard, "", 0))

	assert.Error(t, m.Transition(OracleCall), "cannot skip retrieval")
	require.NoError(t, m.Transition(Retrieving))
	require.NoError(t, m.Transition(OracleCall))
	assert.Error(t, m.Transition(BookingCommitted), "commit requires validation first")
	assert.Equal(t, OracleCall, m.Current())
}
