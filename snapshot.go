package cfr

// InfoSetSnapshot is a read-only view of one information set's statistics
// at a moment in training.
type InfoSetSnapshot struct {
	AvgStrategy     []float64
	Regret          []float64
	CurrentStrategy []float64
}

// Snapshot maps infoset keys to their statistics. It is a deep copy and
// never mutated after creation.
type Snapshot map[string]InfoSetSnapshot

// GetSnapshot returns an independent copy of the solver's table for
// consumption by reporting and visualization collaborators. It retains no
// reference into live solver state, so callers may hold it indefinitely.
// Intended to be called between training steps.
func (s *Solver) GetSnapshot() Snapshot {
	snapshot := make(Snapshot, len(s.nodes))
	for infoSet, node := range s.nodes {
		snapshot[infoSet] = InfoSetSnapshot{
			AvgStrategy:     node.AverageStrategy(),
			Regret:          node.RegretSum(),
			CurrentStrategy: node.CurrentStrategy(),
		}
	}

	return snapshot
}
