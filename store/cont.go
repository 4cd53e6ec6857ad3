package store

import "github.com/probeum/lurk-snark/field"

// InternCont is the generic entry point named by spec §4.A
// ("intern_cont(kind, args…) -> Cont"); the typed InternXxx constructors
// below are the ergonomic surface the evaluator actually calls, all
// routed through this one.
func (s *Store) InternCont(d contData) ContID {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mustWritable()
	return s.internCont(d)
}

func (s *Store) InternOutermost() ContID { return s.outermostID }

func (s *Store) InternDummy() ContID {
	return s.InternCont(contData{tag: field.ContDummy})
}

func (s *Store) InternTerminal() ContID {
	return s.InternCont(contData{tag: field.ContTerminal})
}

func (s *Store) InternErrorCont() ContID {
	return s.InternCont(contData{tag: field.ContError})
}

func (s *Store) InternCall(arg, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContCall, x: arg, env: env, sub: cont})
}

func (s *Store) InternCall2(argSym, body, closedEnv ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContCall2, x: argSym, y: body, env: closedEnv, sub: cont})
}

func (s *Store) InternTail(cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContTail, sub: cont})
}

func (s *Store) InternBinop(op Opcode, arg2, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContBinop, x: arg2, env: env, op: op, sub: cont})
}

func (s *Store) InternBinop2(op Opcode, left ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContBinop2, x: left, op: op, sub: cont})
}

func (s *Store) InternRelop(op Opcode, arg2, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContRelop, x: arg2, env: env, op: op, sub: cont})
}

func (s *Store) InternRelop2(op Opcode, left ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContRelop2, x: left, op: op, sub: cont})
}

func (s *Store) InternIf(then, els, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContIf, x: then, y: els, env: env, sub: cont})
}

func (s *Store) InternLet(sym, body, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContLet, x: sym, y: body, env: env, sub: cont})
}

func (s *Store) InternLetRec(sym, body, env ExprID, cont ContID) ContID {
	return s.InternCont(contData{tag: field.ContLetRec, x: sym, y: body, env: env, sub: cont})
}

// DestructureCont exposes every field of a continuation; callers switch on
// Tag and read only the slots meaningful for that tag (see contData's doc
// comment for the mapping).
type ContFields struct {
	Tag      field.ContTag
	X, Y     ExprID
	Env      ExprID
	Op       Opcode
	Sub      ContID
}

func (s *Store) DestructureCont(c ContID) ContFields {
	d := s.cont(c)
	return ContFields{Tag: d.tag, X: d.x, Y: d.y, Env: d.env, Op: d.op, Sub: d.sub}
}
