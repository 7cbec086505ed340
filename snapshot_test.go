package cfr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_Empty(t *testing.T) {
	solver := newTestSolver(t)
	require.Empty(t, solver.GetSnapshot(), "untrained solver should have an empty snapshot")
}

func TestSnapshot_Contents(t *testing.T) {
	solver := newTestSolver(t)
	for i := 0; i < 100; i++ {
		solver.TrainStep()
	}

	snapshot := solver.GetSnapshot()
	require.Len(t, snapshot, 12)

	for infoSet, data := range snapshot {
		require.Len(t, data.AvgStrategy, 2, "infoset %q", infoSet)
		require.Len(t, data.Regret, 2, "infoset %q", infoSet)
		require.Len(t, data.CurrentStrategy, 2, "infoset %q", infoSet)

		assert.InDelta(t, 1.0, data.AvgStrategy[0]+data.AvgStrategy[1], 1e-9,
			"average strategy for %q should sum to 1", infoSet)
		assert.InDelta(t, 1.0, data.CurrentStrategy[0]+data.CurrentStrategy[1], 1e-9,
			"current strategy for %q should sum to 1", infoSet)
	}
}

// Mutating a snapshot must never touch live solver state.
func TestSnapshot_Independence(t *testing.T) {
	solver := newTestSolver(t)
	for i := 0; i < 100; i++ {
		solver.TrainStep()
	}

	first := solver.GetSnapshot()
	for _, data := range first {
		data.AvgStrategy[0] = 99
		data.Regret[0] = 99
		data.CurrentStrategy[0] = 99
	}

	second := solver.GetSnapshot()
	for infoSet, data := range second {
		assert.NotEqual(t, 99.0, data.AvgStrategy[0], "infoset %q aliases solver state", infoSet)
		assert.NotEqual(t, 99.0, data.Regret[0], "infoset %q aliases solver state", infoSet)
		assert.NotEqual(t, 99.0, data.CurrentStrategy[0], "infoset %q aliases solver state", infoSet)
	}
}
