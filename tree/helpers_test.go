package tree

import (
	"testing"

	"kuhn-cfr/kuhn"
)

func newRoot(t *testing.T) *kuhn.State {
	t.Helper()
	game, err := kuhn.NewGame(kuhn.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	return game.NewInitialState()
}

func TestGameTree_Counts(t *testing.T) {
	root := newRoot(t)

	if nNodes := CountNodes(root); nNodes != 58 {
		t.Errorf("expected %d nodes, got %d", 58, nNodes)
	}

	if nTerminal := CountTerminalNodes(root); nTerminal != 30 {
		t.Errorf("expected %d terminal nodes, got %d", 30, nTerminal)
	}

	if nInfoSets := CountInfoSets(root); nInfoSets != 12 {
		t.Errorf("expected %d infosets, got %d", 12, nInfoSets)
	}
}

func TestGameTree_InfoSetKeys(t *testing.T) {
	want := map[string]int{
		"0": 0, "1": 0, "2": 0,
		"0pb": 0, "1pb": 0, "2pb": 0,
		"0p": 1, "1p": 1, "2p": 1,
		"0b": 1, "1b": 1, "2b": 1,
	}

	seen := make(map[string]int)
	VisitInfoSets(newRoot(t), func(player int, infoSet string) {
		seen[infoSet] = player
	})

	if len(seen) != len(want) {
		t.Fatalf("expected %d infosets, got %v", len(want), seen)
	}

	for infoSet, player := range want {
		got, ok := seen[infoSet]
		if !ok {
			t.Errorf("missing infoset %q", infoSet)
		} else if got != player {
			t.Errorf("infoset %q belongs to player %d, got %d", infoSet, player, got)
		}
	}
}

func TestVisit_DoesNotMutateRoot(t *testing.T) {
	root := newRoot(t)
	CountNodes(root)

	if got := len(root.LegalActions()); got != 3 {
		t.Errorf("root was mutated by the walk: %d legal actions, want 3", got)
	}
}
