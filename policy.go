package cfr

import (
	"kuhn-cfr/internal/f64"
)

// Node holds the accumulated statistics for a single information set:
// cumulative signed regret per action, reach-weighted strategy mass per
// action, and the most recently computed instantaneous strategy. Nodes are
// created lazily on first visit and live for the solver's lifetime.
type Node struct {
	strategy    []float64
	regretSum   []float64
	strategySum []float64
}

func newNode(nActions int) *Node {
	return &Node{
		strategy:    uniformDist(nActions),
		regretSum:   make([]float64, nActions),
		strategySum: make([]float64, nActions),
	}
}

// nextStrategy recomputes the instantaneous strategy by regret matching and
// accumulates it into the strategy sum, weighted by the acting player's own
// incoming reach probability. The returned slice is owned by the Node and
// valid until the next visit.
func (n *Node) nextStrategy(reachWeight float64) []float64 {
	n.regretMatching()
	f64.AxpyUnitary(reachWeight, n.strategy, n.strategySum)
	return n.strategy
}

// regretMatching sets the strategy proportional to the positive part of the
// accumulated regret, falling back to uniform when no action has positive
// regret.
func (n *Node) regretMatching() {
	copy(n.strategy, n.regretSum)
	makePositive(n.strategy)
	total := f64.Sum(n.strategy)
	if total > 0 {
		f64.ScalUnitary(1.0/total, n.strategy)
	} else {
		for i := range n.strategy {
			n.strategy[i] = 1.0 / float64(len(n.strategy))
		}
	}
}

// addRegret accumulates one iteration's counterfactual regret, weighted by
// the opponent's reach probability.
func (n *Node) addRegret(counterfactualReach float64, actionUtils []float64, nodeUtil float64) {
	for i, u := range actionUtils {
		n.regretSum[i] += counterfactualReach * (u - nodeUtil)
	}
}

// AverageStrategy returns the normalized time-averaged strategy. It is
// uniform for a node whose strategy sum has never been updated.
func (n *Node) AverageStrategy() []float64 {
	total := f64.Sum(n.strategySum)
	if total > 0 {
		avg := make([]float64, len(n.strategySum))
		f64.ScalUnitaryTo(avg, 1.0/total, n.strategySum)
		return avg
	}

	return uniformDist(len(n.regretSum))
}

// CurrentStrategy returns a copy of the most recently computed
// instantaneous strategy, for diagnostics.
func (n *Node) CurrentStrategy() []float64 {
	return append([]float64(nil), n.strategy...)
}

// RegretSum returns a copy of the cumulative regret per action.
func (n *Node) RegretSum() []float64 {
	return append([]float64(nil), n.regretSum...)
}

func (n *Node) numActions() int {
	return len(n.regretSum)
}

func uniformDist(n int) []float64 {
	result := make([]float64, n)
	f64.AddConst(1.0/float64(n), result)
	return result
}

func makePositive(v []float64) {
	for i := range v {
		if v[i] < 0 {
			v[i] = 0.0
		}
	}
}
