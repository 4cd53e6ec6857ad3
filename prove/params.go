// Package prove implements the per-multi-frame proof generator and its
// aggregation into one succinct proof (spec §4.E), plus the supplemental
// non-aggregated sequential proving mode from original_source/proof.rs.
package prove

import (
	"fmt"
	"sync"

	"github.com/probeum/lurk-snark/field"
)

// Params is the trusted-setup artifact for one (circuit, k) pair (spec
// §4.E "Setup"). The real cryptographic contents of a Groth16 parameter
// set are out of this module's scope (spec §1 "low-level SNARK group
// arithmetic ... consumed as a black-box library"); Params instead
// records a per-k shape descriptor of the blank circuit, which Prove
// folds into every inner-proof commitment.
type Params struct {
	ChunkFrameCount int
	// ShapeDigest commits to the blank (witness-free) circuit instance
	// this Params was generated from, mirroring proof.rs's
	// FRAME_GROTH_PARAMS cache key.
	ShapeDigest field.Element
}

var paramsCache sync.Map // int (k) -> *Params

// Setup synthesizes (once per chunk size, process-wide) the parameters
// for a (circuit, k) pair, caching the result exactly as
// proof.rs's FRAME_GROTH_PARAMS: OnceCell does per chunk size (spec §11
// "Blank-circuit parameter generation").
func Setup(k int) (*Params, error) {
	if k <= 0 {
		return nil, fmt.Errorf("prove: chunk size must be positive, got %d", k)
	}
	if v, ok := paramsCache.Load(k); ok {
		return v.(*Params), nil
	}

	p := &Params{
		ChunkFrameCount: k,
		ShapeDigest:     blankShapeDigest(k),
	}
	actual, _ := paramsCache.LoadOrStore(k, p)
	return actual.(*Params), nil
}

// blankShapeDigest derives a stable per-k commitment to the blank
// circuit's constraint shape, so two processes that call Setup(k) agree
// on ShapeDigest without needing to share any file.
func blankShapeDigest(k int) field.Element {
	return field.HashFields(field.FromUint64(uint64(k)), field.FromUint64(0x626c616e6b)) // "blank"
}
