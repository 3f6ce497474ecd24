package lexer

// Label biases the classification of the next name a lexer sees, e.g. the
// identifier following "class" is a class name.
type Label int

const (
	LabelNone Label = iota
	LabelClass
	LabelFunction
	LabelNamespace
)

// Data is the per-instance state of a lexer: its current condition, the
// stack of enclosing conditions and a hint for the next token. It is
// distinct from the delegation stack, which holds whole lexers.
type Data struct {
	State     int
	NextLabel Label
	Flags     uint16
	// Local holds implementation specific state set up by Init.
	Local any

	stack []int
}

// NewData returns Data in its initial condition.
func NewData() *Data {
	return &Data{}
}

// Begin switches to condition s without saving the current one.
func (d *Data) Begin(s int) {
	d.State = s
}

// PushState saves the current condition and switches to s.
func (d *Data) PushState(s int) {
	d.stack = append(d.stack, d.State)
	d.State = s
}

// PopState restores the condition saved by the matching PushState. It
// reports false, leaving the state unchanged, when nothing was pushed.
func (d *Data) PopState() bool {
	n := len(d.stack)
	if n == 0 {
		return false
	}
	d.State = d.stack[n-1]
	d.stack = d.stack[:n-1]
	return true
}

// Depth returns the number of saved conditions.
func (d *Data) Depth() int {
	return len(d.stack)
}

// Reset returns to the initial condition. Local is kept.
func (d *Data) Reset() {
	d.State = 0
	d.NextLabel = LabelNone
	d.Flags = 0
	d.stack = d.stack[:0]
}
