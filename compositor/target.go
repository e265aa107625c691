package compositor

// InputMode selects what a target pass receives as implicit input.
type InputMode uint8

const (
	// InputNone gives the target pass no implicit input.
	InputNone InputMode = iota

	// InputPrevious forwards the previous compositor's output as the
	// implicit "previous" input of quad passes in this target.
	InputPrevious
)

// TargetPass is one render target within a technique: either a named
// intermediate texture or the technique's final output. Its passes
// execute in list order; the target pass is supported iff every
// contained pass is supported.
type TargetPass struct {
	// OutputName names the intermediate texture rendered into, or is
	// empty for the final output.
	OutputName string

	// Input controls implicit input forwarding.
	Input InputMode

	// OnlyInitial runs this target only on the chain's first
	// evaluation after compile, for effects that accumulate.
	OnlyInitial bool

	// DisableShadows turns shadows off for every render-scene pass in
	// this target, regardless of the pass-level flag.
	DisableShadows bool

	// Passes execute in order.
	Passes []*Pass
}

// NewTargetPass creates a target pass rendering into the named
// intermediate texture.
func NewTargetPass(outputName string, passes ...*Pass) *TargetPass {
	return &TargetPass{OutputName: outputName, Passes: passes}
}

// NewOutputPass creates the technique's final output target pass.
func NewOutputPass(passes ...*Pass) *TargetPass {
	return &TargetPass{Passes: passes}
}

// AddPass appends p and returns the target pass for chaining.
func (tp *TargetPass) AddPass(p *Pass) *TargetPass {
	tp.Passes = append(tp.Passes, p)
	return tp
}
