package field

import (
	gnarkhash "github.com/consensys/gnark-crypto/hash"
)

// domainSeparator is mixed into every sponge absorption so digests of this
// system's terms can never collide with digests produced by an unrelated
// MiMC-based protocol sharing the same curve.
const domainSeparator = "LURK-CIRCUIT"

// Digest pairs a Tag field element with a collision-resistant hash of a
// term's structure (spec §4.A "hash_expr"/"hash_cont").
type Digest struct {
	Tag   Element
	Value Element
}

// HashFields absorbs a sequence of field elements through a MiMC sponge and
// squeezes one field element out. This is the sponge-style algebraic hash
// required by spec §6: "the hash of Cons(a,b) is H(tag_cons, a.tag,
// a.digest, b.tag, b.digest)", generalized here to any arity so it also
// serves continuation hashing (tag + ordered subcomponent pairs).
func HashFields(elems ...Element) Element {
	h := gnarkhash.MIMC_BN254.New(domainSeparator)
	for _, e := range elems {
		b := e.Bytes()
		h.Write(b[:])
	}
	sum := h.Sum(nil)
	return SetBytes(sum)
}

// HashCons computes the digest of a Cons(a, b) cell per spec §6.
func HashCons(a, b Digest) Element {
	return HashFields(a.Tag, a.Value, b.Tag, b.Value)
}

// HashLeaf computes the digest of a leaf carrying a single scalar payload
// by absorbing the tag and the payload. The store uses it for Num and Str;
// Nil's digest is zero and Sym hashes its name with a slot id.
func HashLeaf(tag Tag, payload Element) Element {
	return HashFields(FromTag(tag), payload)
}

// HashCont hashes a continuation's tag together with its ordered
// (tag, digest) subcomponent pairs, per spec §6.
func HashCont(tag ContTag, parts ...Digest) Element {
	elems := make([]Element, 0, 1+2*len(parts))
	elems = append(elems, FromContTag(tag))
	for _, p := range parts {
		elems = append(elems, p.Tag, p.Value)
	}
	return HashFields(elems...)
}
