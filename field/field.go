// Package field wraps the scalar field used throughout the evaluator,
// circuit relation and prover so that every other package works with a
// single concrete element type instead of reaching into gnark-crypto
// directly.
package field

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
)

// Element is a scalar-field element. The zero value is the field's zero.
type Element struct {
	v fr.Element
}

// Tag enumerates the small set of kinds embedded in every digest so that
// two different-kind values can never collide (spec §3 "Tag").
type Tag uint8

const (
	TagNil Tag = iota
	TagCons
	TagSym
	TagFun
	TagNum
	TagThunk
	TagStr
)

func (t Tag) String() string {
	switch t {
	case TagNil:
		return "Nil"
	case TagCons:
		return "Cons"
	case TagSym:
		return "Sym"
	case TagFun:
		return "Fun"
	case TagNum:
		return "Num"
	case TagThunk:
		return "Thunk"
	case TagStr:
		return "Str"
	default:
		return fmt.Sprintf("Tag(%d)", uint8(t))
	}
}

// ContTag enumerates continuation kinds (spec §3 "Continuation tag").
type ContTag uint8

const (
	ContOutermost ContTag = iota
	ContCall
	ContCall2
	ContTail
	ContBinop
	ContBinop2
	ContRelop
	ContRelop2
	ContIf
	ContLet
	ContLetRec
	ContDummy
	ContTerminal
	ContError
)

func (t ContTag) String() string {
	names := [...]string{
		"Outermost", "Call", "Call2", "Tail", "Binop", "Binop2",
		"Relop", "Relop2", "If", "Let", "LetRec", "Dummy", "Terminal", "Error",
	}
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("ContTag(%d)", uint8(t))
}

// Terminal reports whether the continuation tag is an absorbing state:
// once reached, only stutter frames follow (spec §3 invariant 3).
func (t ContTag) Terminal() bool {
	return t == ContTerminal || t == ContError
}

// FromTag lifts a Tag into its field representation.
func FromTag(t Tag) Element {
	return FromUint64(uint64(t))
}

// FromContTag lifts a ContTag into its field representation.
func FromContTag(t ContTag) Element {
	return FromUint64(uint64(t))
}

// FromUint64 builds an Element from a small integer.
func FromUint64(v uint64) Element {
	var e Element
	e.v.SetUint64(v)
	return e
}

// FromBigInt reduces an arbitrary-precision integer into the field. Used
// only for decimal numeral literals from the reader (spec §6 "num").
func FromBigInt(v *big.Int) Element {
	var e Element
	e.v.SetBigInt(v)
	return e
}

// FromInt64 builds an Element from a signed integer; negative values map
// to their additive inverse in the field (e.g. -2 becomes p-2).
func FromInt64(v int64) Element {
	var e Element
	if v >= 0 {
		e.v.SetUint64(uint64(v))
		return e
	}
	e.v.SetUint64(uint64(-v))
	e.v.Neg(&e.v)
	return e
}

// Zero returns the additive identity.
func Zero() Element { return Element{} }

// One returns the multiplicative identity.
func One() Element { return FromUint64(1) }

func (e Element) Add(o Element) Element {
	var r Element
	r.v.Add(&e.v, &o.v)
	return r
}

func (e Element) Sub(o Element) Element {
	var r Element
	r.v.Sub(&e.v, &o.v)
	return r
}

func (e Element) Mul(o Element) Element {
	var r Element
	r.v.Mul(&e.v, &o.v)
	return r
}

// Inverse returns the multiplicative inverse of e. ok is false iff e is
// zero, which callers must treat as division-by-zero (spec §4.B Binop2).
func (e Element) Inverse() (inv Element, ok bool) {
	if e.IsZero() {
		return Element{}, false
	}
	var r Element
	r.v.Inverse(&e.v)
	return r, true
}

func (e Element) Neg() Element {
	var r Element
	r.v.Neg(&e.v)
	return r
}

func (e Element) IsZero() bool { return e.v.IsZero() }

// Equal is field-element equality — the only notion of equality the
// circuit relation may use for tags and digests (spec §4.D).
func (e Element) Equal(o Element) bool { return e.v.Equal(&o.v) }

// Cmp orders elements by their canonical big-endian representative.
// Used only off-circuit (e.g. relop witnesses, golden-output comparisons).
func (e Element) Cmp(o Element) int {
	ab := e.v.Bytes()
	bb := o.v.Bytes()
	for i := range ab {
		if ab[i] != bb[i] {
			if ab[i] < bb[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// Bytes returns the big-endian canonical encoding.
func (e Element) Bytes() [32]byte { return e.v.Bytes() }

// LittleEndianBytes returns the canonical little-endian encoding used by
// the public-input wire format (spec §6).
func (e Element) LittleEndianBytes() [32]byte {
	b := e.v.Bytes()
	var out [32]byte
	for i := 0; i < 32; i++ {
		out[i] = b[31-i]
	}
	return out
}

// SetBytes interprets big-endian bytes as a field element, reducing mod p.
func SetBytes(b []byte) Element {
	var e Element
	e.v.SetBytes(b)
	return e
}

// SetLittleEndianBytes is the inverse of LittleEndianBytes.
func SetLittleEndianBytes(b [32]byte) Element {
	var rev [32]byte
	for i := 0; i < 32; i++ {
		rev[i] = b[31-i]
	}
	return SetBytes(rev[:])
}

func (e Element) String() string { return e.v.String() }

// Inner exposes the underlying gnark-crypto element for circuit/witness
// code that must call into field arithmetic primitives directly.
func (e Element) Inner() fr.Element { return e.v }
