// Package cfr implements vanilla counterfactual regret minimization over
// the Kuhn poker game tree. Each training step is one complete depth-first
// traversal of the reachable tree, updating regret and strategy sums for
// both players in the same pass.
package cfr

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"kuhn-cfr/kuhn"
)

// Solver owns the persistent table of per-infoset statistics. It is not
// safe for concurrent use; training proceeds one synchronous step at a time.
type Solver struct {
	game  *kuhn.Game
	nodes map[string]*Node
	iter  int

	slicePool *floatSlicePool
}

// New creates a Solver for the given game. The reach-probability
// bookkeeping is two-player by construction, so games with more players
// are rejected.
func New(game *kuhn.Game) (*Solver, error) {
	if game.NumPlayers() != 2 {
		return nil, errors.Errorf("cfr: solver supports exactly 2 players, got %d", game.NumPlayers())
	}

	return &Solver{
		game:      game,
		nodes:     make(map[string]*Node),
		slicePool: &floatSlicePool{},
	}, nil
}

// Iter returns the number of completed training steps.
func (s *Solver) Iter() int {
	return s.iter
}

// NumInfoSets returns the number of information sets visited so far.
func (s *Solver) NumInfoSets() int {
	return len(s.nodes)
}

// AverageStrategy returns the time-averaged strategy for the given infoset
// key, or nil if it has never been visited.
func (s *Solver) AverageStrategy(infoSet string) []float64 {
	node := s.nodes[infoSet]
	if node == nil {
		return nil
	}

	return node.AverageStrategy()
}

// CurrentStrategy returns the instantaneous strategy for the given infoset
// key, or nil if it has never been visited.
func (s *Solver) CurrentStrategy(infoSet string) []float64 {
	node := s.nodes[infoSet]
	if node == nil {
		return nil
	}

	return node.CurrentStrategy()
}

// TrainStep performs one full-tree CFR iteration from a fresh initial state
// and returns the iteration's expected value for player 0.
func (s *Solver) TrainStep() float64 {
	state := s.game.NewInitialState()
	ev := s.runHelper(state, 1.0, 1.0)
	s.iter++
	return ev
}

// runHelper returns the node's expected utility in the player-0 frame.
// reachP0 and reachP1 are each player's own contribution to the probability
// of reaching this node.
func (s *Solver) runHelper(state *kuhn.State, reachP0, reachP1 float64) float64 {
	if state.IsTerminal() {
		return state.Returns()[0]
	}

	if state.IsChanceNode() {
		return s.handleChanceNode(state, reachP0, reachP1)
	}

	return s.handlePlayerNode(state, reachP0, reachP1)
}

// handleChanceNode fully enumerates the remaining deals; chance outcomes are
// never sampled. Reach probabilities are unchanged down chance branches.
func (s *Solver) handleChanceNode(state *kuhn.State, reachP0, reachP1 float64) float64 {
	outcomes, err := state.ChanceOutcomes()
	if err != nil {
		panic(err)
	}

	var expectedValue float64
	for _, o := range outcomes {
		child := state.Clone()
		mustApply(child, o.Action)
		expectedValue += o.Prob * s.runHelper(child, reachP0, reachP1)
	}

	return expectedValue
}

func (s *Solver) handlePlayerNode(state *kuhn.State, reachP0, reachP1 float64) float64 {
	player := state.CurrentPlayer()
	actions := state.LegalActions()
	node := s.getNode(state.InformationStateString(player), len(actions))

	reach := reachP0
	if player != 0 {
		reach = reachP1
	}
	strategy := node.nextStrategy(reach)

	// Recursive calls return utility in the player-0 frame; player 1's
	// branches are negated on the way up so that the regret update below is
	// always in the acting player's own frame.
	actionUtils := s.slicePool.alloc(len(actions))
	defer s.slicePool.free(actionUtils)
	var nodeUtil float64
	for i, a := range actions {
		child := state.Clone()
		mustApply(child, a)
		if player == 0 {
			actionUtils[i] = s.runHelper(child, strategy[i]*reachP0, reachP1)
		} else {
			actionUtils[i] = -s.runHelper(child, reachP0, strategy[i]*reachP1)
		}

		nodeUtil += strategy[i] * actionUtils[i]
	}

	counterfactualReach := reachP1
	if player != 0 {
		counterfactualReach = reachP0
	}
	node.addRegret(counterfactualReach, actionUtils, nodeUtil)

	if player == 0 {
		return nodeUtil
	}

	return -nodeUtil
}

func (s *Solver) getNode(infoSet string, nActions int) *Node {
	node, ok := s.nodes[infoSet]
	if !ok {
		node = newNode(nActions)
		s.nodes[infoSet] = node
		glog.V(2).Infof("New infoset %q (%d total)", infoSet, len(s.nodes))
		return node
	}

	if node.numActions() != nActions {
		panic(fmt.Errorf("cfr: node has n_actions=%v but infoset %q has %v legal actions",
			node.numActions(), infoSet, nActions))
	}

	return node
}

// mustApply applies an action the state machine itself reported as legal;
// a failure here is an implementation bug.
func mustApply(state *kuhn.State, action kuhn.Action) {
	if err := state.ApplyAction(action); err != nil {
		panic(err)
	}
}
