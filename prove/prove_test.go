package prove_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/prove"
	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
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

func TestSetupCachesPerChunkSize(t *testing.T) {
	p1, err := prove.Setup(4)
	require.NoError(t, err)
	p2, err := prove.Setup(4)
	require.NoError(t, err)
	require.Same(t, p1, p2)

	p3, err := prove.Setup(8)
	require.NoError(t, err)
	require.NotEqual(t, p1.ShapeDigest, p3.ShapeDigest)
}

func TestAggregateEndToEnd(t *testing.T) {
	frames, initial, s := evalSrc(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))")
	srs := fakeSRS(t)
	agg, err := prove.Aggregate(context.Background(), s, initial, frames, 4, srs)
	require.NoError(t, err)
	require.True(t, agg.ProofCount >= 2)
	require.Zero(t, agg.ProofCount&(agg.ProofCount-1), "proof count must be a power of two")
	require.Len(t, agg.PublicInputs, 6)
	require.Len(t, agg.PublicOutputs, 6)
}

func TestProveSequentialChecksPrecedes(t *testing.T) {
	frames, initial, s := evalSrc(t, "(+ 1 2)")
	seq, err := prove.ProveSequential(s, initial, frames, 1)
	require.NoError(t, err)
	require.NotEmpty(t, seq.Proofs)
}

func TestAggregateDiffersUnderDifferentSRS(t *testing.T) {
	frames, initial, s1 := evalSrc(t, "(+ 1 2)")
	aggFake, err := prove.Aggregate(context.Background(), s1, initial, frames, 1, fakeSRS(t))
	require.NoError(t, err)

	frames2, initial2, s2 := evalSrc(t, "(+ 1 2)")
	aggReal, err := prove.Aggregate(context.Background(), s2, initial2, frames2, 1, realSRS(t))
	require.NoError(t, err)

	require.False(t, aggFake.Aggregated.Equal(aggReal.Aggregated), "aggregated commitment must depend on which SRS specialized it")
}

func fakeSRS(t *testing.T) *prove.SRS {
	t.Helper()
	srs, err := prove.LoadSRS(t.TempDir()+"/missing.srs", true)
	require.NoError(t, err)
	require.True(t, srs.Fake)
	return srs
}

func realSRS(t *testing.T) *prove.SRS {
	t.Helper()
	path := t.TempDir() + "/present.srs"
	require.NoError(t, os.WriteFile(path, make([]byte, prove.MaxFakeSRSSize), 0644))
	srs, err := prove.LoadSRS(path, false)
	require.NoError(t, err)
	require.False(t, srs.Fake)
	return srs
}
