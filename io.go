package cfr

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/golang/glog"

	"kuhn-cfr/kuhn"
)

// Save writes the solver's table to w so that training can be resumed
// later with Load.
func (s *Solver) Save(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(s.iter); err != nil {
		return err
	}

	if err := enc.Encode(len(s.nodes)); err != nil {
		return err
	}

	for infoSet, node := range s.nodes {
		if err := enc.Encode(infoSet); err != nil {
			return err
		}

		if err := enc.Encode(node); err != nil {
			return err
		}
	}

	return nil
}

// Load reconstructs a Solver previously written with Save. The game must
// match the one the table was trained on.
func Load(r io.Reader, game *kuhn.Game) (*Solver, error) {
	s, err := New(game)
	if err != nil {
		return nil, err
	}

	dec := gob.NewDecoder(r)
	if err := dec.Decode(&s.iter); err != nil {
		return nil, err
	}

	var nNodes int
	if err := dec.Decode(&nNodes); err != nil {
		return nil, err
	}

	for i := 0; i < nNodes; i++ {
		var infoSet string
		if err := dec.Decode(&infoSet); err != nil {
			return nil, err
		}

		var node Node
		if err := dec.Decode(&node); err != nil {
			return nil, err
		}

		s.nodes[infoSet] = &node
	}

	glog.V(1).Infof("Loaded %d infosets at iter %d", len(s.nodes), s.iter)
	return s, nil
}

// GobEncode implements gob.GobEncoder. Only the accumulated sums are
// persisted; the instantaneous strategy is re-derived on load.
func (n *Node) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(n.numActions()); err != nil {
		return nil, err
	}

	if err := enc.Encode(n.regretSum); err != nil {
		return nil, err
	}

	if err := enc.Encode(n.strategySum); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (n *Node) GobDecode(buf []byte) error {
	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	var nActions int
	if err := dec.Decode(&nActions); err != nil {
		return err
	}

	regretSum := make([]float64, 0, nActions)
	if err := dec.Decode(&regretSum); err != nil {
		return err
	}

	strategySum := make([]float64, 0, nActions)
	if err := dec.Decode(&strategySum); err != nil {
		return err
	}

	n.regretSum = regretSum
	n.strategySum = strategySum
	n.strategy = make([]float64, nActions)
	n.regretMatching()
	return nil
}
