package store

import (
	"math/big"

	"github.com/probeum/lurk-snark/field"
)

// digestKey distinguishes expression ids from continuation ids in the
// shared ARC cache; ExprID and ContID are both small integers and would
// otherwise collide as cache keys.
type digestKey struct {
	isCont bool
	id     uint32
}

func elementFromString(s string) field.Element {
	return field.FromBigInt(new(big.Int).SetBytes([]byte(s)))
}

// HashExpr computes {tag, digest} for e, memoizing in the store's ARC
// cache so repeat lookups (spec §4.A) are O(1) once hydrated.
func (s *Store) HashExpr(e ExprID) field.Digest {
	if v, ok := s.digests.Get(digestKey{id: uint32(e)}); ok {
		return v.(field.Digest)
	}

	d := s.expr(e)
	tag := field.FromTag(d.tag)

	var value field.Element
	switch d.tag {
	case field.TagNil:
		value = field.Zero()
	case field.TagSym:
		name := elementFromString(d.sym)
		if d.slot >= 0 {
			// Opaque slot id, never the cycle: spec §9 "hash the symbol
			// name and an opaque slot id".
			value = field.HashFields(name, field.FromUint64(uint64(d.slot+1)))
		} else {
			value = field.HashFields(name, field.Zero())
		}
	case field.TagNum:
		value = field.HashLeaf(field.TagNum, d.num)
	case field.TagStr:
		value = field.HashLeaf(field.TagStr, elementFromString(d.str))
	case field.TagCons:
		value = field.HashCons(s.HashExpr(d.car), s.HashExpr(d.cdr))
	case field.TagFun:
		value = field.HashFields(tag, s.HashExpr(d.arg).Value, s.HashExpr(d.body).Value, s.HashExpr(d.env).Value)
	case field.TagThunk:
		cd := s.HashCont(d.cont)
		value = field.HashFields(tag, s.HashExpr(d.val).Value, cd.Tag, cd.Value)
	default:
		panic("store: HashExpr on unknown tag")
	}

	digest := field.Digest{Tag: tag, Value: value}
	s.digests.Add(digestKey{id: uint32(e)}, digest)
	return digest
}

// HashCont computes {tag, digest} for c.
func (s *Store) HashCont(c ContID) field.Digest {
	if v, ok := s.digests.Get(digestKey{isCont: true, id: uint32(c)}); ok {
		return v.(field.Digest)
	}

	d := s.cont(c)
	tag := field.FromContTag(d.tag)

	var parts []field.Digest
	opDigest := field.Digest{Tag: field.FromUint64(uint64(d.op)), Value: field.FromUint64(uint64(d.op))}
	switch d.tag {
	case field.ContOutermost, field.ContDummy, field.ContTerminal, field.ContError:
		// no subcomponents
	case field.ContTail:
		parts = []field.Digest{s.HashCont(d.sub)}
	case field.ContCall:
		parts = []field.Digest{s.HashExpr(d.x), s.HashExpr(d.env), s.HashCont(d.sub)}
	case field.ContCall2:
		parts = []field.Digest{s.HashExpr(d.x), s.HashExpr(d.y), s.HashExpr(d.env), s.HashCont(d.sub)}
	case field.ContIf, field.ContLet, field.ContLetRec:
		parts = []field.Digest{s.HashExpr(d.x), s.HashExpr(d.y), s.HashExpr(d.env), s.HashCont(d.sub)}
	case field.ContBinop, field.ContRelop:
		parts = []field.Digest{opDigest, s.HashExpr(d.x), s.HashExpr(d.env), s.HashCont(d.sub)}
	case field.ContBinop2, field.ContRelop2:
		parts = []field.Digest{opDigest, s.HashExpr(d.x), s.HashCont(d.sub)}
	default:
		panic("store: HashCont on unknown tag")
	}

	value := field.HashCont(d.tag, parts...)
	digest := field.Digest{Tag: tag, Value: value}
	s.digests.Add(digestKey{isCont: true, id: uint32(c)}, digest)
	return digest
}

// HydrateScalarCache forces computation of every outstanding digest so the
// proving phase can assume O(1) lookups (spec §4.A). Idempotent: calling
// it twice has the same observable effect as calling it once, since
// HashExpr/HashCont are memoized and pure.
func (s *Store) HydrateScalarCache() {
	// Snapshot lengths: hashing a Fun/Thunk/Cons can reach only already
	// interned subexpressions (interning is strictly append-only and
	// acyclic outside of slot indirections, which hashing never
	// traverses), so a single forward pass suffices.
	s.mu.Lock()
	nExprs := len(s.exprs)
	nConts := len(s.conts)
	s.mu.Unlock()

	for i := 0; i < nExprs; i++ {
		s.HashExpr(ExprID(i))
	}
	for i := 0; i < nConts; i++ {
		s.HashCont(ContID(i))
	}
}
