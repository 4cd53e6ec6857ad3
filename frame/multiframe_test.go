package frame_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/frame"
	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
)

func run(t *testing.T, src string, k int) ([]frame.MultiFrame, *store.Store) {
	t.Helper()
	s := store.New()
	expr, err := reader.ReadString(s, src)
	require.NoError(t, err)
	ev := eval.New(s, expr, s.EmptyEnv(), 1000)
	frames, err := ev.Iter()
	require.NoError(t, err)
	return frame.Chunk(s, ev.Initial(), frames, k), s
}

func TestChunkProducesPowerOfTwoCount(t *testing.T) {
	for _, k := range []int{1, 2, 4, 8} {
		multis, _ := run(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))", k)
		n := len(multis)
		require.True(t, n >= 2, "multi-frame count must be >= 2, got %d", n)
		require.Zero(t, n&(n-1), "multi-frame count %d must be a power of two", n)
	}
}

func TestChunkInitialSharedAcrossMultiFrames(t *testing.T) {
	multis, _ := run(t, "(+ 1 2)", 1)
	require.NotEmpty(t, multis)
	for _, m := range multis {
		require.True(t, m.Initial.Equal(multis[0].Initial))
	}
}

func TestChunkChaining(t *testing.T) {
	multis, _ := run(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))", 2)
	for i := 0; i+1 < len(multis); i++ {
		require.True(t, multis[i].Precedes(multis[i+1]), "multi-frame %d must precede %d", i, i+1)
	}
}

func TestDummyMultiFramesAreTerminalStutters(t *testing.T) {
	multis, _ := run(t, "(+ 1 2)", 8)
	var sawDummy bool
	for _, m := range multis {
		if m.Dummy {
			sawDummy = true
			require.True(t, m.Input.Equal(m.Output), "dummy multi-frame must have input == output")
		}
	}
	_ = sawDummy
}

func TestNeedsFramePadding(t *testing.T) {
	require.Equal(t, 0, frame.NeedsFramePadding(8, 4))
	require.Equal(t, 3, frame.NeedsFramePadding(9, 4))
	require.Equal(t, 1, frame.NeedsFramePadding(7, 4))
}
