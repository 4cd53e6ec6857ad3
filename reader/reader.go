// Package reader implements the tokenizer and recursive-descent parser
// named as an external collaborator by spec §1 and specified concretely
// by spec §6's grammar. It is the only part of this module that turns
// source bytes into interned store terms, and the only part whose exact
// behavior (quote sugar, case-folding, the `!` meta marker) is pinned
// down by original_source/src/parser.rs rather than by spec.md alone.
package reader

import (
	"bufio"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/store"
)

// Reader parses one S-expression at a time from an underlying byte
// stream (spec §6 grammar).
type Reader struct {
	s   *store.Store
	r   *bufio.Reader
}

// New wraps r for reading terms into store s.
func New(s *store.Store, r io.Reader) *Reader {
	return &Reader{s: s, r: bufio.NewReader(r)}
}

// ReadString is a convenience wrapper for parsing a single expression
// from a string, as every end-to-end scenario in spec §8 does.
func ReadString(s *store.Store, src string) (store.ExprID, error) {
	rd := New(s, strings.NewReader(src))
	e, _, err := rd.Read()
	return e, err
}

// Read parses exactly one top-level form. isMeta reports whether the form
// was prefixed with `!` (spec §6 "meta"); the CLI/REPL (out of this
// core's scope) decides what a meta form means, so Read only strips the
// sigil and hands back the wrapped expression.
func (rd *Reader) Read() (expr store.ExprID, isMeta bool, err error) {
	if err := rd.skipSpaceAndComments(); err != nil {
		return 0, false, err
	}
	r, err := rd.peek()
	if err != nil {
		return 0, false, err
	}
	if r == '!' {
		rd.next()
		e, err := rd.readExpr()
		return e, true, err
	}
	e, err := rd.readExpr()
	return e, false, err
}

func (rd *Reader) readExpr() (store.ExprID, error) {
	if err := rd.skipSpaceAndComments(); err != nil {
		return 0, err
	}
	r, err := rd.peek()
	if err != nil {
		return 0, err
	}
	switch {
	case r == '(':
		return rd.readList()
	case r == '\'':
		rd.next()
		inner, err := rd.readExpr()
		if err != nil {
			return 0, err
		}
		quote := rd.s.InternSym("QUOTE")
		return rd.s.InternCons(quote, rd.s.InternCons(inner, rd.s.InternNil())), nil
	case r == '"':
		return rd.readString()
	case isDigit(r):
		return rd.readNumber()
	default:
		return rd.readSymbol()
	}
}

func (rd *Reader) readList() (store.ExprID, error) {
	rd.next() // consume '('
	var elems []store.ExprID
	var tail store.ExprID
	haveTail := false

	for {
		if err := rd.skipSpaceAndComments(); err != nil {
			return 0, err
		}
		r, err := rd.peek()
		if err != nil {
			return 0, fmt.Errorf("reader: unterminated list: %w", err)
		}
		if r == ')' {
			rd.next()
			break
		}
		if r == '.' && rd.dotIsPairMarker() {
			rd.next()
			t, err := rd.readExpr()
			if err != nil {
				return 0, err
			}
			tail = t
			haveTail = true
			if err := rd.skipSpaceAndComments(); err != nil {
				return 0, err
			}
			closeParen, err := rd.next()
			if err != nil || closeParen != ')' {
				return 0, fmt.Errorf("reader: expected ')' after dotted tail")
			}
			break
		}
		e, err := rd.readExpr()
		if err != nil {
			return 0, err
		}
		elems = append(elems, e)
	}

	result := rd.s.InternNil()
	if haveTail {
		result = tail
	}
	for i := len(elems) - 1; i >= 0; i-- {
		result = rd.s.InternCons(elems[i], result)
	}
	return result, nil
}

// dotIsPairMarker peeks past the '.' to confirm it is a standalone dotted-
// pair separator (followed by whitespace, a parenthesis, or the end of
// input), not the leading character of a
// malformed token. The grammar only allows '.' in this one position.
func (rd *Reader) dotIsPairMarker() bool {
	b, err := rd.r.Peek(2)
	if err != nil || len(b) < 2 {
		return true
	}
	return isSpace(rune(b[1])) || b[1] == '(' || b[1] == ')'
}

func (rd *Reader) readString() (store.ExprID, error) {
	rd.next() // opening quote
	var sb strings.Builder
	for {
		r, err := rd.next()
		if err != nil {
			return 0, fmt.Errorf("reader: unterminated string: %w", err)
		}
		if r == '"' {
			break
		}
		sb.WriteRune(r)
	}
	return rd.s.InternStr(sb.String()), nil
}

func (rd *Reader) readNumber() (store.ExprID, error) {
	var sb strings.Builder
	for {
		r, err := rd.peek()
		if err != nil || !isDigit(r) {
			break
		}
		rd.next()
		sb.WriteRune(r)
	}
	n := new(big.Int)
	if _, ok := n.SetString(sb.String(), 10); !ok {
		return 0, fmt.Errorf("reader: invalid numeral %q", sb.String())
	}
	return rd.s.InternNum(field.FromBigInt(n)), nil
}

func (rd *Reader) readSymbol() (store.ExprID, error) {
	r, err := rd.peek()
	if err != nil || !isSymStart(r) {
		return 0, fmt.Errorf("reader: unexpected character %q", r)
	}
	var sb strings.Builder
	for {
		r, err := rd.peek()
		if err != nil || !isSymCont(r) {
			break
		}
		rd.next()
		sb.WriteRune(r)
	}
	name := strings.ToUpper(sb.String())
	if name == "NIL" {
		return rd.s.InternNil(), nil
	}
	return rd.s.InternSym(name), nil
}

func (rd *Reader) skipSpaceAndComments() error {
	for {
		r, err := rd.peek()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		switch {
		case isSpace(r):
			rd.next()
		case r == ';':
			for {
				r, err := rd.next()
				if err != nil || r == '\n' {
					break
				}
			}
		default:
			return nil
		}
	}
}

func (rd *Reader) peek() (rune, error) {
	r, _, err := rd.r.ReadRune()
	if err != nil {
		return 0, err
	}
	return r, rd.r.UnreadRune()
}

func (rd *Reader) next() (rune, error) {
	r, _, err := rd.r.ReadRune()
	return r, err
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' || r == '\n' || r == '\r' }
func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isSymStart(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		return true
	case r == '+' || r == '-' || r == '*' || r == '/' || r == '=' || r == ':' || r == '<' || r == '>':
		return true
	}
	return false
}

func isSymCont(r rune) bool {
	return isSymStart(r) || isDigit(r)
}
