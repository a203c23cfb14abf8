package playback

// Frame is a full snapshot of an engine's observable state.
type Frame struct {
	// Run is the most recently started run, zero before the first Start.
	Run uint64
	// Seq increases with every published frame of an engine.
	Seq      uint64
	Phase    Phase
	Counters map[string]int
	Texts    map[string]string
	Flags    map[string]bool
	// Complete is set once the terminal phase of Run was reached.
	Complete bool
}

// Counter returns the value of counter key.
func (f Frame) Counter(key string) int {
	return f.Counters[key]
}

// Text returns the value of text key.
func (f Frame) Text(key string) string {
	return f.Texts[key]
}

// Flag reports whether flag name holds.
func (f Frame) Flag(name string) bool {
	return f.Flags[name]
}

// Clone returns a deep copy of the frame.
func (f Frame) Clone() Frame {
	f.Counters = cloneInts(f.Counters)
	f.Texts = cloneStrings(f.Texts)
	flags := make(map[string]bool, len(f.Flags))
	for k, v := range f.Flags {
		flags[k] = v
	}
	f.Flags = flags
	return f
}
