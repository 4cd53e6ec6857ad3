package reader

import (
	"fmt"
	"strings"

	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/store"
)

// WriteString prints e back to source syntax, satisfying the round-trip
// law in spec §8 ("parse(print(T)) == T" for well-formed terms).
func WriteString(s *store.Store, e store.ExprID) string {
	var sb strings.Builder
	write(s, e, &sb)
	return sb.String()
}

func write(s *store.Store, e store.ExprID, sb *strings.Builder) {
	switch s.Kind(e) {
	case field.TagNil:
		sb.WriteString("NIL")
	case field.TagSym:
		sb.WriteString(s.Sym(e))
	case field.TagNum:
		sb.WriteString(decimalString(s.Num(e)))
	case field.TagStr:
		sb.WriteByte('"')
		sb.WriteString(s.Str(e))
		sb.WriteByte('"')
	case field.TagCons:
		writeList(s, e, sb)
	case field.TagFun:
		sb.WriteString("<FUNCTION>")
	case field.TagThunk:
		sb.WriteString("<THUNK>")
	}
}

func writeList(s *store.Store, e store.ExprID, sb *strings.Builder) {
	sb.WriteByte('(')
	cur := e
	first := true
	for s.Kind(cur) == field.TagCons {
		if !first {
			sb.WriteByte(' ')
		}
		first = false
		write(s, s.Car(cur), sb)
		cur = s.Cdr(cur)
	}
	if s.Kind(cur) != field.TagNil {
		sb.WriteString(" . ")
		write(s, cur, sb)
	}
	sb.WriteByte(')')
}

// decimalString renders a Num's field element as the unsigned decimal
// numeral the reader would have produced for it (spec §6 "num"), using
// the field's own canonical decimal form for every value.
func decimalString(v field.Element) string {
	return fmt.Sprintf("%s", v.String())
}
