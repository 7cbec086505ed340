// Package kuhn implements the extensive-form game state machine for
// N-player Kuhn poker, following the OpenSpiel formulation: a deck of
// N+1 cards, one card dealt to each player, and a single round of betting
// with one fixed bet size.
package kuhn

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
)

// Player identifiers returned by State.CurrentPlayer for non-decision nodes.
const (
	ChancePlayer   = -1
	TerminalPlayer = -2

	invalidPlayer = -1
)

// Action is one entry in a State's history. During the deal the action is
// the identifier of the card being dealt; afterwards it is Pass or Bet.
type Action int

const (
	Pass Action = 0
	Bet  Action = 1
)

func (a Action) String() string {
	switch a {
	case Pass:
		return "p"
	case Bet:
		return "b"
	}

	return strconv.Itoa(int(a))
}

// Config are the game parameters. The deck always holds NumPlayers+1 cards,
// so exactly one card is never dealt in any playout.
type Config struct {
	NumPlayers int
	Ante       float64
	BetSize    float64
}

// DefaultConfig is the classic 2-player game with cards {0, 1, 2}.
func DefaultConfig() Config {
	return Config{NumPlayers: 2, Ante: 1.0, BetSize: 1.0}
}

func (c Config) Validate() error {
	if c.NumPlayers < 2 {
		return errors.Errorf("kuhn: num players must be >= 2, got %d", c.NumPlayers)
	}

	if c.Ante <= 0 {
		return errors.Errorf("kuhn: ante must be positive, got %v", c.Ante)
	}

	if c.BetSize <= 0 {
		return errors.Errorf("kuhn: bet size must be positive, got %v", c.BetSize)
	}

	return nil
}

func (c Config) deckSize() int {
	return c.NumPlayers + 1
}

// Game is a validated game definition. It is immutable and may be shared;
// each traversal gets its own State via NewInitialState.
type Game struct {
	config Config
}

func NewGame(config Config) (*Game, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Game{config: config}, nil
}

func (g *Game) Config() Config {
	return g.config
}

func (g *Game) NumPlayers() int {
	return g.config.NumPlayers
}

// NewInitialState returns the root of the game tree: an undealt deck and
// a pot holding every player's ante.
func (g *Game) NewInitialState() *State {
	cardDealt := make([]int, g.config.deckSize())
	for i := range cardDealt {
		cardDealt[i] = invalidPlayer
	}

	contrib := make([]float64, g.config.NumPlayers)
	for i := range contrib {
		contrib[i] = g.config.Ante
	}

	return &State{
		config:      g.config,
		cardDealt:   cardDealt,
		firstBettor: invalidPlayer,
		winner:      invalidPlayer,
		pot:         g.config.Ante * float64(g.config.NumPlayers),
		contrib:     contrib,
	}
}

// State is a single node of the game tree. It is mutated in place by
// ApplyAction; callers exploring more than one branch from the same point
// must Clone first.
type State struct {
	config Config

	// The first NumPlayers entries are chance actions (cards dealt),
	// everything after is Pass/Bet decisions.
	history []Action

	// cardDealt[card] is the player holding that card, or invalidPlayer.
	cardDealt []int

	firstBettor int
	winner      int
	pot         float64
	contrib     []float64
}

// String implements fmt.Stringer.
func (s *State) String() string {
	return fmt.Sprintf("player %v's turn, history %v, pot %v", s.CurrentPlayer(), s.history, s.pot)
}

// CurrentPlayer returns ChancePlayer during the deal, TerminalPlayer once a
// winner has been decided, and the acting player's index otherwise. It is
// derived entirely from the history length and the winner marker.
func (s *State) CurrentPlayer() int {
	if s.IsTerminal() {
		return TerminalPlayer
	}

	if len(s.history) < s.config.NumPlayers {
		return ChancePlayer
	}

	return len(s.history) % s.config.NumPlayers
}

func (s *State) IsChanceNode() bool {
	return s.CurrentPlayer() == ChancePlayer
}

func (s *State) IsTerminal() bool {
	return s.winner != invalidPlayer
}

// LegalActions returns the undealt cards at a chance node, {Pass, Bet} at a
// decision node, and nothing at a terminal node.
func (s *State) LegalActions() []Action {
	if s.IsTerminal() {
		return nil
	}

	if s.IsChanceNode() {
		var actions []Action
		for card, owner := range s.cardDealt {
			if owner == invalidPlayer {
				actions = append(actions, Action(card))
			}
		}
		return actions
	}

	return []Action{Pass, Bet}
}

// ChanceOutcome is one branch of a chance node with its probability.
type ChanceOutcome struct {
	Action Action
	Prob   float64
}

// ChanceOutcomes returns the uniform distribution over the remaining cards.
// It is an error to call it off a chance node.
func (s *State) ChanceOutcomes() ([]ChanceOutcome, error) {
	if !s.IsChanceNode() {
		return nil, errors.Errorf("kuhn: chance outcomes requested at a non-chance node: %v", s)
	}

	actions := s.LegalActions()
	p := 1.0 / float64(len(actions))
	outcomes := make([]ChanceOutcome, len(actions))
	for i, a := range actions {
		outcomes[i] = ChanceOutcome{Action: a, Prob: p}
	}

	return outcomes, nil
}

// ApplyAction advances the state by one action, appending it to the history
// and re-evaluating termination. Illegal actions are returned as errors and
// leave the state unchanged.
func (s *State) ApplyAction(action Action) error {
	if s.IsTerminal() {
		return errors.Errorf("kuhn: cannot apply action %v to a terminal state", action)
	}

	if len(s.history) < s.config.NumPlayers {
		// Dealing. The player receiving this card is the one whose deal
		// count equals the current history length.
		card := int(action)
		if card < 0 || card >= len(s.cardDealt) {
			return errors.Errorf("kuhn: card %d out of range [0, %d)", card, len(s.cardDealt))
		}

		if s.cardDealt[card] != invalidPlayer {
			return errors.Errorf("kuhn: card %d already dealt to player %d", card, s.cardDealt[card])
		}

		s.cardDealt[card] = len(s.history)
	} else {
		if action != Pass && action != Bet {
			return errors.Errorf("kuhn: invalid decision action %d, want Pass or Bet", action)
		}

		if action == Bet {
			player := s.CurrentPlayer()
			if s.firstBettor == invalidPlayer {
				s.firstBettor = player
			}

			s.pot += s.config.BetSize
			s.contrib[player] += s.config.BetSize
		}
	}

	s.history = append(s.history, action)
	s.maybeDeclareWinner()
	return nil
}

// maybeDeclareWinner checks the two termination conditions after every
// action. A showdown that cannot locate a winner is an implementation bug,
// not a caller error, and panics.
func (s *State) maybeDeclareWinner() {
	n := s.config.NumPlayers
	numActions := len(s.history) - n

	if s.firstBettor == invalidPlayer && numActions == n {
		// Everyone passed. The winner holds the single highest dealt card:
		// the top card N if it was dealt, otherwise card N-1.
		switch {
		case s.cardDealt[n] != invalidPlayer:
			s.winner = s.cardDealt[n]
		case s.cardDealt[n-1] != invalidPlayer:
			s.winner = s.cardDealt[n-1]
		default:
			panic(fmt.Errorf("kuhn: all-pass showdown but neither card %d nor %d was dealt: %v", n, n-1, s))
		}
	} else if s.firstBettor != invalidPlayer && numActions == n+s.firstBettor {
		// Everyone has responded to the first bet. The winner is the
		// highest-card player who called; folders are skipped.
		for card := n; card >= 0; card-- {
			player := s.cardDealt[card]
			if player != invalidPlayer && s.DidBet(player) {
				s.winner = player
				return
			}
		}

		panic(fmt.Errorf("kuhn: betting showdown with no calling card holder: %v", s))
	}
}

// DidBet reports whether player bet or called, as opposed to folding or
// never facing a bet. Players acting after the first bettor respond in the
// first round of decisions (history offset NumPlayers+player); players who
// acted before it respond in the second (offset 2*NumPlayers+player). This
// positional scheme assumes at most one round of responses to a single bet
// and is only validated for 2-3 players.
func (s *State) DidBet(player int) bool {
	if s.firstBettor == invalidPlayer {
		return false
	}

	if player == s.firstBettor {
		return true
	}

	idx := 2*s.config.NumPlayers + player
	if player > s.firstBettor {
		idx = s.config.NumPlayers + player
	}

	if idx >= len(s.history) {
		return false
	}

	return s.history[idx] == Bet
}

// Returns gives each player's net payoff: the winner takes the pot minus
// their own contribution, everyone else loses what they paid in. The sum is
// always zero. Non-terminal states return all zeros.
func (s *State) Returns() []float64 {
	outcomes := make([]float64, s.config.NumPlayers)
	if !s.IsTerminal() {
		return outcomes
	}

	for p := range outcomes {
		if p == s.winner {
			outcomes[p] = s.pot - s.contrib[p]
		} else {
			outcomes[p] = -s.contrib[p]
		}
	}

	return outcomes
}

// InformationStateString returns the infoset key for the given player: their
// private card (once dealt) followed by one character per public decision.
// States indistinguishable to the player share a key by construction.
func (s *State) InformationStateString(player int) string {
	if player < 0 {
		return "Chance"
	}

	var result []byte
	if len(s.history) > player {
		// The player-th chance action is the card dealt to this player.
		result = strconv.AppendInt(result, int64(s.history[player]), 10)
	}

	for i := s.config.NumPlayers; i < len(s.history); i++ {
		if s.history[i] == Bet {
			result = append(result, 'b')
		} else {
			result = append(result, 'p')
		}
	}

	return string(result)
}

// Clone returns a fully independent copy. Mutating the clone never affects
// the original.
func (s *State) Clone() *State {
	clone := *s
	clone.history = append([]Action(nil), s.history...)
	clone.cardDealt = append([]int(nil), s.cardDealt...)
	clone.contrib = append([]float64(nil), s.contrib...)
	return &clone
}
