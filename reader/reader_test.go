package reader_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/probeum/lurk-snark/reader"
	"github.com/probeum/lurk-snark/store"
)

// TestParsePrintRoundTrip checks the round-trip law named in spec §8:
// parse(print(T)) == T for well-formed terms, compared by digest since
// printed output need not be byte-identical to the original source
// (e.g. quote sugar expands, whitespace is not preserved).
func TestParsePrintRoundTrip(t *testing.T) {
	cases := []string{
		"(+ 1 2)",
		"(QUOTE (1 2 3))",
		"'(1 2 3)",
		"(LAMBDA (X) (+ X 1))",
		"(LET ((A 5) (B 1)) (+ A B))",
		`"hello world"`,
		"NIL",
		"T",
		"(1 . 2)",
		"(CONS 1 (CONS 2 NIL))",
	}
	for _, src := range cases {
		t.Run(src, func(t *testing.T) {
			s := store.New()
			e1, err := reader.ReadString(s, src)
			require.NoError(t, err)

			printed := reader.WriteString(s, e1)
			e2, err := reader.ReadString(s, printed)
			require.NoError(t, err, "re-parsing printed form %q", printed)

			d1, d2 := s.HashExpr(e1), s.HashExpr(e2)
			require.True(t, d1.Tag.Equal(d2.Tag))
			require.True(t, d1.Value.Equal(d2.Value))
		})
	}
}

func TestCaseFolding(t *testing.T) {
	s := store.New()
	e, err := reader.ReadString(s, "(let ((a 1)) a)")
	require.NoError(t, err)
	require.Equal(t, "LET", s.Sym(s.Car(e)))
}

func TestQuoteSugarDesugarsToQuoteForm(t *testing.T) {
	s := store.New()
	sugared, err := reader.ReadString(s, "'x")
	require.NoError(t, err)
	explicit, err := reader.ReadString(s, "(QUOTE X)")
	require.NoError(t, err)

	d1, d2 := s.HashExpr(sugared), s.HashExpr(explicit)
	require.True(t, d1.Tag.Equal(d2.Tag))
	require.True(t, d1.Value.Equal(d2.Value))
}

func TestMetaMarker(t *testing.T) {
	s := store.New()
	rd := reader.New(s, strings.NewReader("!(+ 1 2)"))
	_, isMeta, err := rd.Read()
	require.NoError(t, err)
	require.True(t, isMeta)
}

func TestCommentsAreSkipped(t *testing.T) {
	s := store.New()
	e, err := reader.ReadString(s, "; a comment\n(+ 1 2) ; trailing")
	require.NoError(t, err)
	require.Equal(t, "+", s.Sym(s.Car(e)))
}

func TestUnboundDottedList(t *testing.T) {
	s := store.New()
	e, err := reader.ReadString(s, "(1 2 . 3)")
	require.NoError(t, err)
	require.Equal(t, "1", s.Num(s.Car(e)).String())
	rest := s.Cdr(e)
	require.Equal(t, "2", s.Num(s.Car(rest)).String())
	require.Equal(t, "3", s.Num(s.Cdr(rest)).String())
}
