// Package store implements the hash-consing term store assumed by the rest
// of the core (spec §4.A). It interns expressions and continuations,
// computes and memoizes their field-element digests, and resolves the
// letrec self-reference cycle via an arena + indirection slot instead of a
// traversable pointer cycle (spec §9).
package store

import "github.com/probeum/lurk-snark/field"

// ExprID addresses an interned expression. The zero value (ExprID(0)) is
// reserved for Nil, which every store pre-interns.
type ExprID uint32

// ContID addresses an interned continuation. The zero value is reserved for
// the Outermost continuation, which every store pre-interns.
type ContID uint32

// Opcode distinguishes the binary/relational operator carried by Binop,
// Binop2, Relop and Relop2 continuations.
type Opcode uint8

const (
	OpAdd Opcode = iota
	OpSub
	OpMul
	OpDiv
	OpCons
	OpEq
	OpNumEqual
	OpLess
	OpGreater
	OpLessEq
	OpGreaterEq
)

// exprData is the backing representation for one interned expression. Only
// the fields relevant to the expression's tag are meaningful; a flat
// struct rather than a Go sum type because expressions here have a
// small, closed set of shapes (spec §3 "Expression").
type exprData struct {
	tag field.Tag

	sym string        // Sym
	num field.Element // Num
	str string        // Str

	car, cdr ExprID // Cons

	arg  ExprID // Fun: bound argument symbol
	body ExprID // Fun: body expression
	env  ExprID // Fun: closed-over environment

	val  ExprID // Thunk: suspended value
	cont ContID // Thunk: suspended continuation

	slot int // >=0 iff this expression is a letrec indirection slot reference
}

// contData is the backing representation for one interned continuation.
// Up to two expression slots (x, y), one environment slot, one sub-
// continuation and one Opcode cover every continuation shape in spec §4.B:
// If(t, e, env, cont) -> x=t, y=e; Let/LetRec(sym, body, env, cont) ->
// x=sym, y=body; Binop(op, arg2, env, cont) -> x=arg2, op=op;
// Binop2(op, left, cont) -> x=left, op=op; Call(arg, env, cont) -> x=arg;
// Call2(arg_sym, body, closed_env, cont) -> x=arg_sym, y=body; Tail(cont)
// uses only sub.
type contData struct {
	tag field.ContTag

	x, y ExprID
	env  ExprID
	op   Opcode

	sub ContID
}

// Digest is an exported alias kept distinct from field.Digest so callers in
// other packages never need to import field just to hold a store digest.
type Digest = field.Digest
