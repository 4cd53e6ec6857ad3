// Package circuit implements the per-multi-frame arithmetic relation and
// public-input schema (spec §4.D).
package circuit

import (
	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/frame"
	"github.com/probeum/lurk-snark/store"
)

// PublicInputSize is 3 IO triples of (tag, digest) pairs plus the step
// index: 3*6 + 1 (spec §4.D).
const PublicInputSize = 19

// PublicInputs renders a multi-frame's public-input vector in the exact
// order spec §4.D fixes: initial, input, output, then index_i.
func PublicInputs(m frame.MultiFrame, index uint64) []field.Element {
	out := make([]field.Element, 0, PublicInputSize)
	out = append(out, m.Initial.PublicInputs(m.Store)...)
	out = append(out, m.Input.PublicInputs(m.Store)...)
	out = append(out, m.Output.PublicInputs(m.Store)...)
	out = append(out, field.FromUint64(index))
	return out
}

// StutterAdmissible checks the admissibility rule named in spec §4.D: "a
// stutter frame is admitted iff input == output and input.cont.tag in
// {Terminal, Error}."
func StutterAdmissible(s *store.Store, f eval.Frame) bool {
	if !f.Input.Equal(f.Output) {
		return false
	}
	k := s.ContKind(f.Input.Cont)
	return k == field.ContTerminal || k == field.ContError
}
