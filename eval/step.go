package eval

import (
	"github.com/probeum/lurk-snark/field"
	"github.com/probeum/lurk-snark/store"
)

// Reserved head symbols (spec §6); the reader case-folds every symbol to
// upper case, so dispatch compares against upper-case literals only.
const (
	symQuote   = "QUOTE"
	symLambda  = "LAMBDA"
	symLet     = "LET"
	symLetRec  = "LETREC"
	symIf      = "IF"
	symCons    = "CONS"
	symCar     = "CAR"
	symCdr     = "CDR"
	symAtom    = "ATOM"
	symEmit    = "EMIT"
	symEq      = "EQ"
	symNumEq   = "="
	symLess    = "<"
	symGreater = ">"
	symLessEq  = "<="
	symGtEq    = ">="
	symAdd     = "+"
	symSub     = "-"
	symMul     = "*"
	symDiv     = "/"
	symNil     = "NIL"
	symT       = "T"
)

var binopTable = map[string]store.Opcode{
	symAdd:  store.OpAdd,
	symSub:  store.OpSub,
	symMul:  store.OpMul,
	symDiv:  store.OpDiv,
	symCons: store.OpCons,
	symEq:   store.OpEq,
}

var relopTable = map[string]store.Opcode{
	symNumEq:   store.OpNumEqual,
	symLess:    store.OpLess,
	symGreater: store.OpGreater,
	symLessEq:  store.OpLessEq,
	symGtEq:    store.OpGreaterEq,
}

// unary ops are desugared onto Binop/Binop2 with an ignored right operand
// (spec §4.B: "car/cdr/atom/emit: unary forms handled through a unop
// continuation" — the continuation tag set is fixed, so unary forms reuse
// Binop/Binop2 rather than introduce a new tag).
var unopTable = map[string]store.Opcode{
	symCar:  100,
	symCdr:  101,
	symAtom: 102,
	symEmit: 103,
}

// cadr/caddr helpers over the right-nested cons-list representation.
func second(s *store.Store, list store.ExprID) store.ExprID {
	return s.Car(s.Cdr(list))
}
func third(s *store.Store, list store.ExprID) store.ExprID {
	return s.Car(s.Cdr(s.Cdr(list)))
}

func truthy(s *store.Store, v store.ExprID) bool {
	return s.Kind(v) != field.TagNil
}

func boolExpr(s *store.Store, v bool) store.ExprID {
	if v {
		return s.InternSym(symT)
	}
	return s.InternNil()
}

func errorState(s *store.Store, io IO) IO {
	return IO{Expr: io.Expr, Env: io.Env, Cont: s.InternErrorCont()}
}

func tailWrap(s *store.Store, c store.ContID) store.ContID {
	if s.ContKind(c) == field.ContTail {
		return c
	}
	return s.InternTail(c)
}

// Step advances one small-step transition (spec §4.B). If io is already
// terminal, Step returns the identity stutter transition per spec §3
// invariant 3.
func Step(s *store.Store, io IO) (IO, Witness, error) {
	if io.Terminal(s) {
		return io, Witness{}, nil
	}

	kind := s.Kind(io.Expr)

	// Self-evaluating leaves and bound symbols resolve to a value and
	// immediately invoke the pending continuation.
	switch kind {
	case field.TagNum, field.TagFun, field.TagThunk:
		out, w := invokeCont(s, io.Expr, io.Env, io.Cont)
		return out, w, nil
	case field.TagNil:
		out, w := invokeCont(s, io.Expr, io.Env, io.Cont)
		return out, w, nil
	case field.TagSym:
		name := s.Sym(io.Expr)
		if name == symNil {
			out, w := invokeCont(s, s.InternNil(), io.Env, io.Cont)
			return out, w, nil
		}
		if name == symT {
			out, w := invokeCont(s, io.Expr, io.Env, io.Cont)
			return out, w, nil
		}
		val, found, depth := lookup(s, io.Env, name)
		if !found {
			return errorState(s, io), Witness{LookupDepth: depth}, nil
		}
		out, w := invokeCont(s, val, io.Env, io.Cont)
		w.LookupDepth = depth
		return out, w, nil
	case field.TagStr:
		out, w := invokeCont(s, io.Expr, io.Env, io.Cont)
		return out, w, nil
	case field.TagCons:
		return stepRedex(s, io)
	default:
		return errorState(s, io), Witness{}, nil
	}
}

func lookup(s *store.Store, env store.ExprID, name string) (store.ExprID, bool, int) {
	depth := 0
	cur := env
	for s.Kind(cur) == field.TagCons {
		pair := s.Car(cur)
		k := s.Car(pair)
		if s.Sym(k) == name {
			v := s.Cdr(pair)
			if resolved, ok := s.ResolveSlot(v); ok {
				return resolved, true, depth
			}
			return v, true, depth
		}
		cur = s.Cdr(cur)
		depth++
	}
	return store.ExprID(0), false, depth
}

// stepRedex evaluates one step of a Cons-headed expression by dispatching
// on the car symbol (spec §4.B "Cons head-dispatch").
func stepRedex(s *store.Store, io IO) (IO, Witness, error) {
	head := s.Car(io.Expr)
	if s.Kind(head) != field.TagSym {
		// Function application where the operator position is itself a
		// compound expression, e.g. ((exp base) arg).
		return pushCall(s, io), Witness{}, nil
	}
	name := s.Sym(head)

	switch name {
	case symQuote:
		out, w := invokeCont(s, second(s, io.Expr), io.Env, io.Cont)
		return out, w, nil
	case symLambda:
		arg := s.Car(second(s, io.Expr))
		body := third(s, io.Expr)
		fn := s.InternFun(arg, body, io.Env)
		out, w := invokeCont(s, fn, io.Env, io.Cont)
		return out, w, nil
	case symIf:
		cond := second(s, io.Expr)
		thenExpr := third(s, io.Expr)
		elseExpr := s.Car(s.Cdr(s.Cdr(s.Cdr(io.Expr))))
		cont := s.InternIf(thenExpr, elseExpr, io.Env, io.Cont)
		return IO{Expr: cond, Env: io.Env, Cont: cont}, Witness{}, nil
	case symLet:
		return pushLet(s, io, false), Witness{}, nil
	case symLetRec:
		return pushLet(s, io, true), Witness{}, nil
	default:
		if op, ok := binopTable[name]; ok {
			arg1 := second(s, io.Expr)
			arg2 := third(s, io.Expr)
			cont := s.InternBinop(op, arg2, io.Env, io.Cont)
			return IO{Expr: arg1, Env: io.Env, Cont: cont}, Witness{}, nil
		}
		if op, ok := relopTable[name]; ok {
			arg1 := second(s, io.Expr)
			arg2 := third(s, io.Expr)
			cont := s.InternRelop(op, arg2, io.Env, io.Cont)
			return IO{Expr: arg1, Env: io.Env, Cont: cont}, Witness{}, nil
		}
		if op, ok := unopTable[name]; ok {
			arg1 := second(s, io.Expr)
			cont := s.InternBinop(op, s.InternNil(), io.Env, io.Cont)
			return IO{Expr: arg1, Env: io.Env, Cont: cont}, Witness{}, nil
		}
		return pushCall(s, io), Witness{}, nil
	}
}

func pushCall(s *store.Store, io IO) IO {
	head := s.Car(io.Expr)
	argExpr := second(s, io.Expr)
	cont := s.InternCall(argExpr, io.Env, io.Cont)
	return IO{Expr: head, Env: io.Env, Cont: cont}
}

// pushLet handles both LET and LETREC with one sequential-binding
// desugaring. Bindings are processed one at a time via chained Let/LetRec
// continuations whose Y field packages (remaining-bindings . body).
func pushLet(s *store.Store, io IO, recursive bool) IO {
	bindings := second(s, io.Expr)
	body := third(s, io.Expr)
	if s.Kind(bindings) == field.TagNil {
		return IO{Expr: body, Env: io.Env, Cont: tailWrap(s, io.Cont)}
	}
	first := s.Car(bindings)
	sym := s.Car(first)
	valExpr := second(s, first)
	rest := s.Cdr(bindings)
	yPair := s.InternCons(rest, body)

	if !recursive {
		cont := s.InternLet(sym, yPair, io.Env, io.Cont)
		return IO{Expr: valExpr, Env: io.Env, Cont: cont}
	}

	slot := s.NewLetrecSlot(s.Sym(sym))
	env2 := s.ExtendEnv(io.Env, sym, slot)
	cont := s.InternLetRec(slot, yPair, env2, io.Cont)
	return IO{Expr: valExpr, Env: env2, Cont: cont}
}

// invokeCont applies a computed value to the continuation at the top of
// the stack (spec §4.B "Continuation invocation semantics").
func invokeCont(s *store.Store, value, env store.ExprID, cont store.ContID) (IO, Witness) {
	f := s.DestructureCont(cont)
	switch f.Tag {
	case field.ContOutermost:
		return IO{Expr: value, Env: env, Cont: s.InternTerminal()}, Witness{}

	case field.ContTail:
		subFields := s.DestructureCont(f.Sub)
		if subFields.Tag == field.ContOutermost {
			return IO{Expr: value, Env: env, Cont: s.InternTerminal()}, Witness{}
		}
		return invokeCont(s, value, env, f.Sub)

	case field.ContIf:
		if truthy(s, value) {
			return IO{Expr: f.X, Env: f.Env, Cont: f.Sub}, Witness{}
		}
		return IO{Expr: f.Y, Env: f.Env, Cont: f.Sub}, Witness{}

	case field.ContLet:
		newEnv := s.ExtendEnv(f.Env, f.X, value)
		rest := s.Car(f.Y)
		body := s.Cdr(f.Y)
		if s.Kind(rest) == field.TagNil {
			return IO{Expr: body, Env: newEnv, Cont: tailWrap(s, f.Sub)}, Witness{}
		}
		first := s.Car(rest)
		sym2 := s.Car(first)
		valExpr2 := second(s, first)
		rest2 := s.Cdr(rest)
		yPair2 := s.InternCons(rest2, body)
		cont2 := s.InternLet(sym2, yPair2, newEnv, f.Sub)
		return IO{Expr: valExpr2, Env: newEnv, Cont: cont2}, Witness{}

	case field.ContLetRec:
		s.PatchSlot(f.X, value)
		rest := s.Car(f.Y)
		body := s.Cdr(f.Y)
		if s.Kind(rest) == field.TagNil {
			return IO{Expr: body, Env: f.Env, Cont: tailWrap(s, f.Sub)}, Witness{}
		}
		first := s.Car(rest)
		sym2 := s.Car(first)
		valExpr2 := second(s, first)
		rest2 := s.Cdr(rest)
		slot2 := s.NewLetrecSlot(s.Sym(sym2))
		env2 := s.ExtendEnv(f.Env, sym2, slot2)
		yPair2 := s.InternCons(rest2, body)
		cont2 := s.InternLetRec(slot2, yPair2, env2, f.Sub)
		return IO{Expr: valExpr2, Env: env2, Cont: cont2}, Witness{}

	case field.ContCall:
		if s.Kind(value) != field.TagFun {
			return IO{Expr: value, Env: env, Cont: s.InternErrorCont()}, Witness{}
		}
		arg, body, closedEnv := s.DestructureFun(value)
		cont2 := s.InternCall2(arg, body, closedEnv, f.Sub)
		return IO{Expr: f.X, Env: f.Env, Cont: cont2}, Witness{}

	case field.ContCall2:
		newEnv := s.ExtendEnv(f.Env, f.X, value)
		return IO{Expr: f.Y, Env: newEnv, Cont: tailWrap(s, f.Sub)}, Witness{}

	case field.ContBinop:
		cont2 := s.InternBinop2(f.Op, value, f.Sub)
		return IO{Expr: f.X, Env: f.Env, Cont: cont2}, Witness{}

	case field.ContBinop2:
		// A result returned straight to Outermost terminates in this step.
		out, w := applyBinop(s, f.Op, f.X, value, env, f.Sub)
		if out.Cont == s.InternOutermost() {
			out.Cont = s.InternTerminal()
		}
		return out, w

	case field.ContRelop:
		cont2 := s.InternRelop2(f.Op, value, f.Sub)
		return IO{Expr: f.X, Env: f.Env, Cont: cont2}, Witness{}

	case field.ContRelop2:
		out, w := applyRelop(s, f.Op, f.X, value, env, f.Sub)
		if out.Cont == s.InternOutermost() {
			out.Cont = s.InternTerminal()
		}
		return out, w

	case field.ContDummy:
		return IO{Expr: value, Env: env, Cont: f.Sub}, Witness{}

	default:
		return IO{Expr: value, Env: env, Cont: s.InternErrorCont()}, Witness{}
	}
}

func applyBinop(s *store.Store, op store.Opcode, leftExpr, rightExpr, env store.ExprID, sub store.ContID) (IO, Witness) {
	// Unary forms (car/cdr/atom/emit) were desugared onto Binop/Binop2
	// with a Nil right operand; leftExpr here holds the single operand.
	switch op {
	case 100: // car
		if s.Kind(leftExpr) != field.TagCons {
			return IO{Expr: leftExpr, Env: env, Cont: s.InternErrorCont()}, Witness{}
		}
		return IO{Expr: s.Car(leftExpr), Env: env, Cont: sub}, Witness{}
	case 101: // cdr
		if s.Kind(leftExpr) != field.TagCons {
			return IO{Expr: leftExpr, Env: env, Cont: s.InternErrorCont()}, Witness{}
		}
		return IO{Expr: s.Cdr(leftExpr), Env: env, Cont: sub}, Witness{}
	case 102: // atom
		return IO{Expr: boolExpr(s, s.Kind(leftExpr) != field.TagCons), Env: env, Cont: sub}, Witness{}
	case 103: // emit: identity, value passes through unchanged (side
		// channel logging is an ambient concern, not a circuit input).
		return IO{Expr: leftExpr, Env: env, Cont: sub}, Witness{}
	}

	left := leftExpr
	right := rightExpr

	switch op {
	case store.OpCons:
		return IO{Expr: s.InternCons(left, right), Env: env, Cont: sub}, Witness{}
	case store.OpEq:
		eq := s.HashExpr(left).Value.Equal(s.HashExpr(right).Value) &&
			s.HashExpr(left).Tag.Equal(s.HashExpr(right).Tag)
		return IO{Expr: boolExpr(s, eq), Env: env, Cont: sub}, Witness{}
	}

	if s.Kind(left) != field.TagNum || s.Kind(right) != field.TagNum {
		return IO{Expr: left, Env: env, Cont: s.InternErrorCont()}, Witness{}
	}
	lv, rv := s.Num(left), s.Num(right)
	var result field.Element
	switch op {
	case store.OpAdd:
		result = lv.Add(rv)
	case store.OpSub:
		result = lv.Sub(rv)
	case store.OpMul:
		result = lv.Mul(rv)
	case store.OpDiv:
		inv, ok := rv.Inverse()
		if !ok {
			return IO{Expr: left, Env: env, Cont: s.InternErrorCont()}, Witness{}
		}
		result = lv.Mul(inv)
	default:
		return IO{Expr: left, Env: env, Cont: s.InternErrorCont()}, Witness{}
	}
	w := Witness{HasBinop: true, Op: uint8(op), Left: lv, Right: rv, Result: result}
	return IO{Expr: s.InternNum(result), Env: env, Cont: sub}, w
}

func applyRelop(s *store.Store, op store.Opcode, leftExpr, rightExpr, env store.ExprID, sub store.ContID) (IO, Witness) {
	if s.Kind(leftExpr) != field.TagNum || s.Kind(rightExpr) != field.TagNum {
		return IO{Expr: leftExpr, Env: env, Cont: s.InternErrorCont()}, Witness{}
	}
	lv, rv := s.Num(leftExpr), s.Num(rightExpr)
	cmp := lv.Cmp(rv)
	var b bool
	switch op {
	case store.OpNumEqual:
		b = cmp == 0
	case store.OpLess:
		b = cmp < 0
	case store.OpGreater:
		b = cmp > 0
	case store.OpLessEq:
		b = cmp <= 0
	case store.OpGreaterEq:
		b = cmp >= 0
	}
	w := Witness{HasBinop: true, Op: uint8(op), Left: lv, Right: rv}
	return IO{Expr: boolExpr(s, b), Env: env, Cont: sub}, w
}
