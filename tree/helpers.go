// Package tree provides helpers for walking the full Kuhn game tree,
// used by tests and diagnostics.
package tree

import (
	"kuhn-cfr/kuhn"
)

// Visit walks every state reachable from state in depth-first order.
// Each branch is explored on its own clone, so the given state is not
// mutated.
func Visit(state *kuhn.State, visitor func(*kuhn.State)) {
	visitor(state)
	for _, action := range state.LegalActions() {
		child := state.Clone()
		if err := child.ApplyAction(action); err != nil {
			panic(err)
		}

		Visit(child, visitor)
	}
}

// VisitInfoSets calls visitor once for each distinct information set in the
// tree, with the acting player and the infoset key.
func VisitInfoSets(state *kuhn.State, visitor func(player int, infoSet string)) {
	seen := make(map[string]struct{})
	Visit(state, func(s *kuhn.State) {
		if s.IsChanceNode() || s.IsTerminal() {
			return
		}

		player := s.CurrentPlayer()
		infoSet := s.InformationStateString(player)
		if _, ok := seen[infoSet]; ok {
			return
		}

		visitor(player, infoSet)
		seen[infoSet] = struct{}{}
	})
}

// CountNodes returns the total number of nodes in the tree.
func CountNodes(state *kuhn.State) int {
	total := 0
	Visit(state, func(*kuhn.State) { total++ })
	return total
}

// CountTerminalNodes returns the number of terminal nodes in the tree.
func CountTerminalNodes(state *kuhn.State) int {
	total := 0
	Visit(state, func(s *kuhn.State) {
		if s.IsTerminal() {
			total++
		}
	})

	return total
}

// CountInfoSets returns the number of distinct information sets in the tree.
func CountInfoSets(state *kuhn.State) int {
	total := 0
	VisitInfoSets(state, func(int, string) { total++ })
	return total
}
