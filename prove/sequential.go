package prove

import (
	"fmt"

	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/frame"
	"github.com/probeum/lurk-snark/store"
)

// SequentialProof is the supplemental, non-aggregated proving mode
// ported from original_source/src/proof.rs's outer_prove (spec §11): one
// inner proof per multi-frame, kept as an ordered vector rather than
// folded into a single aggregated proof. Useful for tests and for exercising
// the Witness∘Circuit round-trip property (spec.md §8) independent of
// the aggregation machinery.
type SequentialProof struct {
	Proofs          []Proof
	ChunkFrameCount int
}

// Precedes is named identically to spec §5's chaining check:
// precedes(prev, next) := prev.output == next.input.
func Precedes(s *store.Store, prev, next frame.MultiFrame) bool {
	return prev.Output.Equal(next.Input)
}

// ProveSequential produces one inner proof per multi-frame without
// aggregating them, checking precedes(prev, next) between consecutive
// multi-frames as it goes (spec §11).
func ProveSequential(s *store.Store, initial eval.IO, frames []eval.Frame, k int) (SequentialProof, error) {
	params, err := Setup(k)
	if err != nil {
		return SequentialProof{}, err
	}

	multis := frame.Chunk(s, initial, frames, k)
	rng, err := baseRand()
	if err != nil {
		return SequentialProof{}, err
	}

	proofs := make([]Proof, len(multis))
	for i, m := range multis {
		if i > 0 && !Precedes(s, multis[i-1], m) {
			return SequentialProof{}, fmt.Errorf("prove: multi-frame chaining broken before index %d", i)
		}
		p, err := Prove(s, m, params, newRand(rng), uint64(i))
		if err != nil {
			return SequentialProof{}, err
		}
		proofs[i] = p
	}
	return SequentialProof{Proofs: proofs, ChunkFrameCount: k}, nil
}
