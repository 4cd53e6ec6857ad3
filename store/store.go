package store

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/probeum/lurk-snark/field"
)

// digestCacheSize bounds the ARC cache used to memoize digests. Sized
// generously for a single proving session's worth of interned terms
// (65,536 recent entries).
const digestCacheSize = 1 << 16

// Store is the concrete hash-consing term store implementing the
// interface spec §4.A assumes. It is single-writer during evaluation
// (Intern*) and single-reader during synthesis, exactly as the contract
// requires; Close() enforces the write-closed boundary before parallel
// proving begins (spec §5 "Shared resources").
type Store struct {
	mu sync.Mutex

	exprs []exprData
	conts []contData

	exprKeys map[exprKey]ExprID
	contKeys map[contKey]ContID

	slots []ExprID // letrec indirection arena; see NewLetrecSlot in letrec.go

	digests *lru.ARCCache // ExprID|ContID (tagged) -> field.Digest

	nilID       ExprID
	outermostID ContID

	closed bool
}

// New constructs an empty store with Nil and Outermost pre-interned.
func New() *Store {
	cache, err := lru.NewARC(digestCacheSize)
	if err != nil {
		// lru.NewARC only errors on a non-positive size, which is a
		// programmer error, not a runtime condition callers can recover
		// from.
		panic(fmt.Sprintf("store: %v", err))
	}
	s := &Store{
		exprKeys: make(map[exprKey]ExprID),
		contKeys: make(map[contKey]ContID),
		digests:  cache,
	}
	s.nilID = s.internExpr(exprData{tag: field.TagNil})
	s.outermostID = s.internCont(contData{tag: field.ContOutermost})
	return s
}

// exprKey is the structural dedup key for hash-consing expressions. It is
// comparable (no slices/maps) so it can key a plain Go map; this is the
// dedup step that happens before any digest is computed, keeping
// hash_expr lazy and cacheable as spec §4.A requires.
type exprKey struct {
	tag  field.Tag
	sym  string
	num  field.Element
	str  string
	car  ExprID
	cdr  ExprID
	arg  ExprID
	body ExprID
	env  ExprID
	val  ExprID
	cont ContID
	slot int
}

func keyOf(d exprData) exprKey {
	return exprKey{
		tag: d.tag, sym: d.sym, num: d.num, str: d.str,
		car: d.car, cdr: d.cdr, arg: d.arg, body: d.body, env: d.env,
		val: d.val, cont: d.cont, slot: d.slot,
	}
}

type contKey struct {
	tag field.ContTag
	x, y ExprID
	env  ExprID
	op   Opcode
	sub  ContID
}

func contKeyOf(d contData) contKey {
	return contKey{tag: d.tag, x: d.x, y: d.y, env: d.env, op: d.op, sub: d.sub}
}

func (s *Store) internExpr(d exprData) ExprID {
	k := keyOf(d)
	if id, ok := s.exprKeys[k]; ok {
		return id
	}
	id := ExprID(len(s.exprs))
	s.exprs = append(s.exprs, d)
	s.exprKeys[k] = id
	return id
}

func (s *Store) internCont(d contData) ContID {
	k := contKeyOf(d)
	if id, ok := s.contKeys[k]; ok {
		return id
	}
	id := ContID(len(s.conts))
	s.conts = append(s.conts, d)
	s.contKeys[k] = id
	return id
}

func (s *Store) mustWritable() {
	if s.closed {
		panic("store: intern called after Close; store is write-closed for proving")
	}
}

// --- spec §4.A operations ---

func (s *Store) InternNil() ExprID { return s.nilID }

func (s *Store) InternSym(name string) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagSym, sym: name, slot: -1})
}

func (s *Store) InternNum(v field.Element) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagNum, num: v, slot: -1})
}

func (s *Store) InternStr(v string) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagStr, str: v, slot: -1})
}

func (s *Store) InternCons(a, b ExprID) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagCons, car: a, cdr: b, slot: -1})
}

func (s *Store) InternFun(arg, body, env ExprID) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagFun, arg: arg, body: body, env: env, slot: -1})
}

func (s *Store) InternThunk(val ExprID, cont ContID) ExprID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internExpr(exprData{tag: field.TagThunk, val: val, cont: cont, slot: -1})
}

// Car returns the head of a Cons cell. For any other expression it
// returns ExprID(0), i.e. Nil, so Car and Cdr of Nil are Nil; it panics
// only for an id that was never interned.
func (s *Store) Car(e ExprID) ExprID { return s.expr(e).car }

func (s *Store) Cdr(e ExprID) ExprID { return s.expr(e).cdr }

func (s *Store) Kind(e ExprID) field.Tag { return s.expr(e).tag }

// DestructureFun returns a Fun's (arg, body, closed env).
func (s *Store) DestructureFun(e ExprID) (arg, body, env ExprID) {
	d := s.expr(e)
	return d.arg, d.body, d.env
}

// DestructureThunk returns a Thunk's (value, continuation).
func (s *Store) DestructureThunk(e ExprID) (val ExprID, cont ContID) {
	d := s.expr(e)
	return d.val, d.cont
}

func (s *Store) Sym(e ExprID) string          { return s.expr(e).sym }
func (s *Store) Num(e ExprID) field.Element   { return s.expr(e).num }
func (s *Store) Str(e ExprID) string          { return s.expr(e).str }

func (s *Store) expr(e ExprID) exprData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.exprs[e]
}

func (s *Store) cont(c ContID) contData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conts[c]
}

// ContKind returns a continuation's tag.
func (s *Store) ContKind(c ContID) field.ContTag { return s.cont(c).tag }

// Close write-closes the store: no further Intern* calls are permitted,
// satisfying the "store is write-closed before parallel proving begins"
// contract (spec §5). Intended to be called immediately after
// HydrateScalarCache.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
