package store

import "github.com/probeum/lurk-snark/field"

// NewLetrecSlot allocates an indirection slot bound to sym, per spec §9's
// "arena+index scheme": the returned ExprID is a Sym-tagged placeholder
// that is deliberately *not* hash-consed (each letrec binding occurrence
// gets its own slot, even for the same symbol name), so patching one
// binding's value can never retroactively change an unrelated binding.
// Before PatchSlot is called, the slot resolves to Nil.
func (s *Store) NewLetrecSlot(sym string) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()

	idx := len(s.slots)
	s.slots = append(s.slots, s.nilID)

	id := ExprID(len(s.exprs))
	s.exprs = append(s.exprs, exprData{tag: field.TagSym, sym: sym, slot: idx})
	// Deliberately not inserted into exprKeys: slots must never be deduped
	// against each other or against a plain (non-letrec) Sym of the same
	// name.
	return id
}

// PatchSlot resolves a previously allocated slot to value, letting a
// letrec-bound closure observe itself through its own captured
// environment (spec §4.B "LetRec"). It is the only mutation the store
// permits after an expression has been interned.
func (s *Store) PatchSlot(slotExpr ExprID, value ExprID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()

	d := s.exprs[slotExpr]
	if d.slot < 0 {
		panic("store: PatchSlot called on a non-slot expression")
	}
	s.slots[d.slot] = value
}

// ResolveSlot dereferences a slot expression to its current bound value.
// ok is false for any non-slot expression, in which case e is returned
// unchanged. Evaluation always calls this when reading an environment
// binding; hashing never does, so the cycle is never traversed by the
// digest computation (spec §9).
func (s *Store) ResolveSlot(e ExprID) (resolved ExprID, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.exprs[e]
	if d.slot < 0 {
		return e, false
	}
	return s.slots[d.slot], true
}
