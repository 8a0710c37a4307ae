package candidate

// Label is either a fixed string or a function evaluated every time the label
// is read. Dynamic labels are never cached.
type Label struct {
	static  string
	dynamic func() string
}

// Static returns a fixed label.
func Static(s string) Label { return Label{static: s} }

// Dynamic returns a label computed by fn at read time.
func Dynamic(fn func() string) Label { return Label{dynamic: fn} }

// IsDynamic reports whether the label is computed lazily.
func (l Label) IsDynamic() bool { return l.dynamic != nil }

func (l Label) String() string {
	if l.dynamic != nil {
		return l.dynamic()
	}
	return l.static
}

// Action is an opaque capability attached to a command or suggestion.
type Action interface {
	Execute()
}

// ActionFunc adapts a plain function to Action.
type ActionFunc func()

func (f ActionFunc) Execute() {
	if f != nil {
		f()
	}
}

// Run executes a if it is set.
func Run(a Action) {
	if a != nil {
		a.Execute()
	}
}
