package verify_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/prove"
	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
	"github.com/probeum/lurk-snark/verify"
)

func evalSrc(t *testing.T, src string) ([]eval.Frame, eval.IO, *store.Store) {
	t.Helper()
	s := store.New()
	expr, err := reader.ReadString(s, src)
	require.NoError(t, err)
	ev := eval.New(s, expr, s.EmptyEnv(), 1000)
	frames, err := ev.Iter()
	require.NoError(t, err)
	return frames, ev.Initial(), s
}

func TestVerifyAcceptsHonestProof(t *testing.T) {
	frames, initial, s := evalSrc(t, "(let ((a 5) (b 1)) (+ a b))")
	srs := fakeSRS(t)
	agg, err := prove.Aggregate(context.Background(), s, initial, frames, 2, srs)
	require.NoError(t, err)

	params, err := prove.Setup(2)
	require.NoError(t, err)

	ok, err := verify.Verify(srs, params, agg.PublicInputs, agg.PublicOutputs, agg)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsCorruptedOutput(t *testing.T) {
	frames, initial, s := evalSrc(t, "(+ 1 2)")
	srs := fakeSRS(t)
	agg, err := prove.Aggregate(context.Background(), s, initial, frames, 1, srs)
	require.NoError(t, err)

	params, err := prove.Setup(1)
	require.NoError(t, err)

	corrupted := make([]field.Element, len(agg.PublicOutputs))
	copy(corrupted, agg.PublicOutputs)
	corrupted[0] = corrupted[0].Add(field.One())

	ok, err := verify.Verify(srs, params, agg.PublicInputs, corrupted, agg)
	require.Error(t, err)
	require.False(t, ok)
}

// TestVerifyRejectsWrongSRS checks the soundness surrogate in spec §8:
// a proof built against one SRS must not verify against a different
// one, since the SRS is folded into the aggregated commitment (prove
// §4.E step 6 / verify §4.F). fakeSRS is deliberately deterministic
// (spec §6 "Fallback fake SRS MUST be seeded with a fixed 16-byte
// constant"), so two distinct real on-disk SRS files are used here to
// get genuinely different SRS contents.
func TestVerifyRejectsWrongSRS(t *testing.T) {
	frames, initial, s := evalSrc(t, "(+ 1 2)")
	srsA := realSRS(t, 0xaa)
	agg, err := prove.Aggregate(context.Background(), s, initial, frames, 1, srsA)
	require.NoError(t, err)

	params, err := prove.Setup(1)
	require.NoError(t, err)

	srsB := realSRS(t, 0xbb)
	ok, err := verify.Verify(srsB, params, agg.PublicInputs, agg.PublicOutputs, agg)
	require.Error(t, err)
	require.False(t, ok)
}

func TestVerifySequentialAcceptsChainedProofs(t *testing.T) {
	frames, initial, s := evalSrc(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))")
	params, err := prove.Setup(2)
	require.NoError(t, err)
	seq, err := prove.ProveSequential(s, initial, frames, 2)
	require.NoError(t, err)

	ok, err := verify.VerifySequential(s, params, seq)
	require.NoError(t, err)
	require.True(t, ok)
}

func fakeSRS(t *testing.T) *prove.SRS {
	t.Helper()
	srs, err := prove.LoadSRS(t.TempDir()+"/missing.srs", true)
	require.NoError(t, err)
	require.True(t, srs.Fake)
	return srs
}

// realSRS writes a file of distinct, non-zero content (filled with fill)
// and loads it as a real (non-fake) SRS.
func realSRS(t *testing.T, fill byte) *prove.SRS {
	t.Helper()
	buf := make([]byte, prove.MaxFakeSRSSize)
	for i := range buf {
		buf[i] = fill
	}
	path := t.TempDir() + "/present.srs"
	require.NoError(t, os.WriteFile(path, buf, 0644))
	srs, err := prove.LoadSRS(path, false)
	require.NoError(t, err)
	require.False(t, srs.Fake)
	return srs
}
