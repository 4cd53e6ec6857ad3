package eval

import "github.com/probeum/lurk-snark/field"

// Witness records the intermediate field values a single step needed to
// satisfy the circuit relation for that step (spec §3 "Frame"). Only the
// fields relevant to the step actually taken are populated; the rest are
// the field zero value, the same sparse-struct layout used for
// per-variant payloads in store.exprData/contData.
type Witness struct {
	// HasBinop is true for successful arithmetic (+ - * /) Binop2 steps
	// and for Relop2 steps; cons, eq, the unary forms and error
	// transitions leave it false.
	HasBinop bool
	Op       uint8
	Left     field.Element
	Right    field.Element
	Result   field.Element

	// LookupDepth counts the number of environment frames scanned to
	// resolve a symbol (0 when the step wasn't a symbol lookup). The
	// circuit package's step relation does not read it.
	LookupDepth int
}
