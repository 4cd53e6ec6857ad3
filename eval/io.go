// Package eval implements the deterministic small-step evaluator (spec
// §4.B): a CEK-style machine over IO triples that emits one Frame per
// transition, including the Tail-continuation collapse rule that pins
// down the golden frame counts in spec §8.
package eval

import (
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/store"
)

// IO is the observable machine state between steps (spec §3 "IO triple").
type IO struct {
	Expr store.ExprID
	Env  store.ExprID
	Cont store.ContID
}

// Equal compares two IO triples by their interned ids, which is sound
// because the store hash-conses: identical structure always yields
// identical ids (spec §3 invariant 5, restricted to the off-circuit id
// space rather than digests).
func (io IO) Equal(o IO) bool {
	return io.Expr == o.Expr && io.Env == o.Env && io.Cont == o.Cont
}

// PublicInputs returns the 6-element (tag, digest) sextuple for this IO
// triple's expr, env and cont, in the order spec §4.D's public-input
// schema requires for each of initial/input/output.
func (io IO) PublicInputs(s *store.Store) []field.Element {
	e := s.HashExpr(io.Expr)
	v := s.HashExpr(io.Env)
	c := s.HashCont(io.Cont)
	return []field.Element{e.Tag, e.Value, v.Tag, v.Value, c.Tag, c.Value}
}

// Terminal reports whether io's continuation is an absorbing state (spec
// §4.B "Termination").
func (io IO) Terminal(s *store.Store) bool {
	return s.ContKind(io.Cont).Terminal()
}
