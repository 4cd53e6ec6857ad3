package eval_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/eval"
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
)

func run(t *testing.T, src string, limit uint64) ([]eval.Frame, *store.Store) {
	t.Helper()
	s := store.New()
	expr, err := reader.ReadString(s, src)
	require.NoError(t, err)
	ev := eval.New(s, expr, s.EmptyEnv(), limit)
	frames, err := ev.Iter()
	require.NoError(t, err)
	return frames, s
}

func outputExpr(t *testing.T, s *store.Store, frames []eval.Frame) store.ExprID {
	t.Helper()
	require.NotEmpty(t, frames)
	return frames[len(frames)-1].Output.Expr
}

// TestGoldenScenarios reproduces the concrete end-to-end table in spec §8.
func TestGoldenScenarios(t *testing.T) {
	cases := []struct {
		name   string
		src    string
		frames int
		check  func(t *testing.T, s *store.Store, out store.ExprID)
	}{
		{"add", "(+ 1 2)", 3, func(t *testing.T, s *store.Store, out store.ExprID) {
			require.Equal(t, field.TagNum, s.Kind(out))
			require.Equal(t, "3", s.Num(out).String())
		}},
		{"num-eq-true", "(= 5 5)", 3, func(t *testing.T, s *store.Store, out store.ExprID) {
			require.Equal(t, "T", s.Sym(out))
		}},
		{"num-eq-false", "(= 5 6)", 3, func(t *testing.T, s *store.Store, out store.ExprID) {
			require.Equal(t, field.TagNil, s.Kind(out))
		}},
		{"if-true", "(if t 5 6)", 3, func(t *testing.T, s *store.Store, out store.ExprID) {
			require.Equal(t, "5", s.Num(out).String())
		}},
		{"if-fully-evaluates", "(if t (+ 5 5) 6)", 5, func(t *testing.T, s *store.Store, out store.ExprID) {
			require.Equal(t, "10", s.Num(out).String())
		}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			frames, s := run(t, c.src, 1000)
			require.Equal(t, c.frames, len(frames), "frame count must match the golden table")
			c.check(t, s, outputExpr(t, s, frames))
		})
	}
}

func TestLetArithmetic(t *testing.T) {
	frames, s := run(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))", 1000)
	require.Equal(t, 18, len(frames))
	out := outputExpr(t, s, frames)
	require.Equal(t, "3", s.Num(out).String())
}

// TestChaining checks spec §3 invariant 1 across an entire run.
func TestChaining(t *testing.T) {
	frames, _ := run(t, "(let ((a 5) (b 1) (c 2)) (/ (+ a b) c))", 1000)
	for i := 0; i+1 < len(frames); i++ {
		require.True(t, frames[i].Precedes(frames[i+1]), "frame %d must precede frame %d", i, i+1)
	}
}

// TestDeterminism checks spec §8 "Determinism": two evaluations of the
// same source and env with the same limit yield identical frame
// sequences and identical digests.
func TestDeterminism(t *testing.T) {
	src := "(letrec ((f (lambda (n) (if (= 0 n) 1 (* n (f (- n 1))))))) (f 5))"
	f1, s1 := run(t, src, 1000)
	f2, s2 := run(t, src, 1000)
	require.Equal(t, len(f1), len(f2))
	for i := range f1 {
		d1 := s1.HashExpr(f1[i].Output.Expr)
		d2 := s2.HashExpr(f2[i].Output.Expr)
		require.True(t, d1.Value.Equal(d2.Value))
		require.True(t, d1.Tag.Equal(d2.Tag))
	}
}

func TestDivisionByZeroIsError(t *testing.T) {
	frames, s := run(t, "(/ 1 0)", 1000)
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	require.Equal(t, field.ContError, s.ContKind(last.Output.Cont))
}

func TestUnboundSymbolIsError(t *testing.T) {
	frames, s := run(t, "nosuchbinding", 1000)
	require.NotEmpty(t, frames)
	last := frames[len(frames)-1]
	require.Equal(t, field.ContError, s.ContKind(last.Output.Cont))
}

// TestRecursionScenarios exercises the first tail-recursive program from
// spec §8/§9 ("recursion1"); "recursion2" is in TestRecursion2Scenario.
// Its exact frame count is the golden, previously-disputed *measured*
// value (91, not the historical 117) produced by one specific
// Tail->Terminal collapse rule: spec §9 is explicit that these counts
// must be reproduced, not predicted, so it is asserted here alongside
// the output value.
func TestRecursionScenarios(t *testing.T) {
	frames, s := run(t, `(letrec ((exp (lambda (base)
	                       (lambda (exponent)
	                         (if (= 0 exponent)
	                             1
	                             (* base ((exp base) (- exponent 1))))))))
	  ((exp 5) 3))`, 300)
	require.Len(t, frames, 91, "recursion1 measured frame count (spec §9)")
	out := outputExpr(t, s, frames)
	require.Equal(t, field.TagNum, s.Kind(out))
	require.Equal(t, "125", s.Num(out).String())
}

// TestRecursion2Scenario is the second tail-recursion variant named in
// spec §9 ("recursion2"), an accumulator-passing exponentiation whose
// measured frame count (201, not the historical 248) is the other half
// of the disputed-count golden pair.
func TestRecursion2Scenario(t *testing.T) {
	frames, s := run(t, `(letrec ((exp (lambda (base)
	                       (lambda (exponent)
	                         (lambda (acc)
	                           (if (= 0 exponent)
	                               acc
	                               (((exp base) (- exponent 1)) (* acc base))))))))
	  (((exp 5) 5) 1))`, 300)
	require.Len(t, frames, 201, "recursion2 measured frame count (spec §9)")
	out := outputExpr(t, s, frames)
	require.Equal(t, field.TagNum, s.Kind(out))
	require.Equal(t, "3125", s.Num(out).String())
}

func TestLimitExceededForcesError(t *testing.T) {
	frames, s := run(t, "(letrec ((loop (lambda (n) (loop n)))) (loop 0))", 5)
	require.Len(t, frames, 5)
	last := frames[len(frames)-1]
	require.Equal(t, field.ContError, s.ContKind(last.Output.Cont))
}
