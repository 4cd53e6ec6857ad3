package circuit_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/circuit"
	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/frame"
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

func TestCheckMultiFrameAcceptsRealRun(t *testing.T) {
	frames, initial, s := evalSrc(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))")
	multis := frame.Chunk(s, initial, frames, 4)
	require.NotEmpty(t, multis)
	for _, m := range multis {
		require.NoError(t, circuit.CheckMultiFrame(s, m))
	}
}

func TestPublicInputsSizeAndOrder(t *testing.T) {
	frames, initial, s := evalSrc(t, "(+ 1 2)")
	multis := frame.Chunk(s, initial, frames, 4)
	require.NotEmpty(t, multis)
	in := circuit.PublicInputs(multis[0], 0)
	require.Len(t, in, circuit.PublicInputSize)

	initialPI := multis[0].Initial.PublicInputs(s)
	for i, v := range initialPI {
		require.True(t, v.Equal(in[i]))
	}
	require.True(t, in[18].Equal(field.FromUint64(0)), "index_i (19th element) must equal the chunk index passed to PublicInputs")
}

func TestCheckStutterAdmissibleRejectsNonTerminalStutter(t *testing.T) {
	frames, _, s := evalSrc(t, "(+ 1 2)")
	// Setting an internal frame's output equal to its input makes it a
	// stutter over a non-terminal continuation, which must be rejected.
	bogus := frames[0]
	bogus.Output = bogus.Input
	require.False(t, circuit.StutterAdmissible(s, bogus))
}

func TestCheckChainingDetectsBreak(t *testing.T) {
	frames, _, _ := evalSrc(t, "(+ 1 2)")
	require.True(t, len(frames) >= 2)
	broken := make([]eval.Frame, len(frames))
	copy(broken, frames)
	broken[1].Input.Expr = broken[0].Input.Expr // break the chain
	require.Error(t, circuit.CheckChaining(broken))
}

// TestConstraintShapeStable ports original_source/src/proof.rs's
// check_cs_deltas: the per-step relation's pass/fail shape must depend
// only on which opcode fired, never on the operand values, so two
// distinct runs through the same opcode must both satisfy (or both
// violate) the relation identically.
func TestConstraintShapeStable(t *testing.T) {
	framesA, _, _ := evalSrc(t, "(+ 1 2)")
	framesB, _, _ := evalSrc(t, "(+ 100 237)")
	errA := circuit.CheckStepRelation(binopStep(t, framesA))
	errB := circuit.CheckStepRelation(binopStep(t, framesB))
	require.Equal(t, errA == nil, errB == nil)
}

func binopStep(t *testing.T, frames []eval.Frame) eval.Frame {
	t.Helper()
	for _, f := range frames {
		if f.Witness.HasBinop {
			return f
		}
	}
	t.Fatal("no binop witness found")
	return eval.Frame{}
}
