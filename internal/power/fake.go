package power

// FakeSource is a test double that returns scripted power states.
type FakeSource struct {
	// States contains scripted values. Each call to Powered() consumes the
	// next one; the last value repeats once exhausted.
	States []bool

	// index tracks current position in States
	index int

	// Err, if set, will be returned by Powered()
	Err error
}

// NewFakeSource creates a FakeSource with the given states.
func NewFakeSource(states ...bool) *FakeSource {
	return &FakeSource{States: states}
}

// Powered returns the next scripted state.
func (f *FakeSource) Powered() (bool, error) {
	if f.Err != nil {
		return false, f.Err
	}
	if len(f.States) == 0 {
		return true, nil
	}

	state := f.States[f.index]
	if f.index < len(f.States)-1 {
		f.index++
	}
	return state, nil
}
