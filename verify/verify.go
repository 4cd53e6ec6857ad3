// Package verify checks an aggregated proof against claimed public
// inputs and outputs (spec §4.F).
package verify

import (
	"errors"
	"fmt"

	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/prove"
	"github.com/probeum/lurk-snark/store"
)

// ErrVerificationFailed is the fatal error kind named in spec §7
// ("VerificationFailure"); it is returned, never logged-and-swallowed.
var ErrVerificationFailed = errors.New("verify: verification failed")

// Verify compares the claimed public-input and public-output vectors
// element by element with the ones recorded in agg, specializes the SRS
// verifying key for the claimed proof count, and recomputes the
// aggregation commitment under the fixed transcript domain separator
// (spec §4.F). It takes already-hashed vectors, not IO triples, so it
// does not rehash any expression or continuation, and it does not check
// the inner proofs' commitments individually.
func Verify(srsVk *prove.SRS, params *prove.Params, publicInputs, publicOutputs []field.Element, agg prove.AggregatedProof) (bool, error) {
	if len(publicInputs) != len(agg.PublicInputs) || len(publicOutputs) != len(agg.PublicOutputs) {
		return false, fmt.Errorf("%w: public input/output length mismatch", ErrVerificationFailed)
	}
	for i := range publicInputs {
		if !publicInputs[i].Equal(agg.PublicInputs[i]) {
			return false, fmt.Errorf("%w: public input %d mismatch", ErrVerificationFailed, i)
		}
	}
	for i := range publicOutputs {
		if !publicOutputs[i].Equal(agg.PublicOutputs[i]) {
			return false, fmt.Errorf("%w: public output %d mismatch", ErrVerificationFailed, i)
		}
	}
	if agg.ChunkFrameCount != params.ChunkFrameCount {
		return false, fmt.Errorf("%w: chunk_frame_count mismatch", ErrVerificationFailed)
	}

	// Specialize srs_vk for proof_count (spec §4.F) and fold the result
	// into the recomputed aggregation commitment exactly as the prover
	// did (prove.Aggregate), so a wrong, corrupted, or fake-vs-real SRS
	// mismatch actually fails the check below rather than being
	// discarded.
	specialized := srsVk.Specialize(agg.ProofCount)

	want := prove.AggregateCommitments(agg.Proofs, agg.ProofCount, specialized)
	if !want.Equal(agg.Aggregated) {
		return false, fmt.Errorf("%w: aggregation check failed", ErrVerificationFailed)
	}
	return true, nil
}

// VerifySequential is the supplemental per-multi-frame verification path
// matching prove.ProveSequential (spec §11
// verify_sequential_groth16_proofs). It checks only the chaining
// invariant: each proof's recorded output slots must equal the next
// proof's input slots. It does not recompute the public-input vectors or
// the commitments, and s and params are not used.
func VerifySequential(s *store.Store, params *prove.Params, seq prove.SequentialProof) (bool, error) {
	for i := 1; i < len(seq.Proofs); i++ {
		prevOut := seq.Proofs[i-1].PublicIn[12:18] // output.{expr,env,cont}.{tag,digest}
		nextIn := seq.Proofs[i].PublicIn[6:12]     // input.{expr,env,cont}.{tag,digest}
		for j := range prevOut {
			if !prevOut[j].Equal(nextIn[j]) {
				return false, fmt.Errorf("%w: sequential chaining broken at index %d", ErrVerificationFailed, i)
			}
		}
	}
	return true, nil
}
