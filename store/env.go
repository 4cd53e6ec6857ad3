package store

import "github.com/probeum/lurk-snark/field"

// Environments are right-nested Cons lists of (symbol . value) pairs,
// terminated by Nil; lookup is left-to-right linear (spec §3
// "Environment"). These helpers are the only place env structure is
// assumed outside of the evaluator's transition table.

// EmptyEnv returns the empty environment.
func (s *Store) EmptyEnv() ExprID { return s.InternNil() }

// ExtendEnv prepends a new (sym . val) binding, shadowing any prior
// binding of the same name without removing it.
func (s *Store) ExtendEnv(env, sym, val ExprID) ExprID {
	pair := s.InternCons(sym, val)
	return s.InternCons(pair, env)
}

// LookupEnv scans env left-to-right for a binding of sym (compared by
// symbol name, since letrec indirection slots are deliberately not
// hash-consed against plain symbols of the same name). If the bound
// value is a letrec slot, it is resolved to its current patched value.
func (s *Store) LookupEnv(env, sym ExprID) (val ExprID, found bool) {
	name := s.Sym(sym)
	cur := env
	for s.Kind(cur) == field.TagCons {
		pair := s.Car(cur)
		k, v := s.Car(pair), s.Cdr(pair)
		if s.Sym(k) == name {
			if resolved, ok := s.ResolveSlot(v); ok {
				return resolved, true
			}
			return v, true
		}
		cur = s.Cdr(cur)
	}
	return ExprID(0), false
}
