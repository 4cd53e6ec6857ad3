package eval

import "github.com/probeum/lurk-snark/store"

// Frame is one fully witnessed small-step transition (spec §3 "Frame").
type Frame struct {
	Input   IO
	Output  IO
	I       uint64
	Witness Witness
}

// Precedes checks the frame-chaining invariant between two consecutive
// frames (spec §3 invariant 1).
func (f Frame) Precedes(g Frame) bool {
	return f.Output.Equal(g.Input) && g.I == f.I+1
}

// Evaluator is the deterministic small-step machine (spec §4.B). It is
// single-threaded over a single Store instance (spec §5).
type Evaluator struct {
	store *store.Store
	limit uint64
	input IO
}

// New constructs an Evaluator for the initial state {expr: source, env:
// userEnv, cont: Outermost} (spec §4.B "Initial state").
func New(s *store.Store, source, userEnv store.ExprID, limit uint64) *Evaluator {
	return &Evaluator{
		store: s,
		limit: limit,
		input: IO{Expr: source, Env: userEnv, Cont: s.InternOutermost()},
	}
}

// Initial returns the evaluator's starting IO triple.
func (e *Evaluator) Initial() IO { return e.input }

// Iter runs the machine to completion (or to the step limit) and returns
// the full frame sequence. It is finite iff the program halts within
// limit; if the limit is reached, the last non-stutter frame's
// output.cont is forced to Error (spec §4.B "Iteration contract").
func (e *Evaluator) Iter() ([]Frame, error) {
	frames := make([]Frame, 0, 64)
	cur := e.input
	var i uint64
	for {
		if cur.Terminal(e.store) {
			break
		}
		if e.limit != 0 && i >= e.limit {
			if len(frames) > 0 {
				last := &frames[len(frames)-1]
				last.Output.Cont = e.store.InternErrorCont()
			}
			break
		}
		out, w, err := Step(e.store, cur)
		if err != nil {
			return frames, err
		}
		frames = append(frames, Frame{Input: cur, Output: out, I: i, Witness: w})
		cur = out
		i++
	}
	return frames, nil
}

// WithPadding appends stutter frames (spec §3 invariant 3 / §4.B
// "Iteration contract") after the last frame. padTo receives the current
// frame count and returns how many stutter frames to append (the chunker
// passes frame.NeedsFramePadding); a result <= 0 appends none.
func WithPadding(s *store.Store, frames []Frame, padTo func(total int) int) []Frame {
	if len(frames) == 0 {
		return frames
	}
	extra := padTo(len(frames))
	if extra <= 0 {
		return frames
	}
	terminal := frames[len(frames)-1].Output
	i := frames[len(frames)-1].I + 1
	for n := 0; n < extra; n++ {
		frames = append(frames, Frame{Input: terminal, Output: terminal, I: i, Witness: Witness{}})
		i++
	}
	return frames
}
