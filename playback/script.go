package playback

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

// ErrInvalidScript is returned when a script fails validation.
var ErrInvalidScript = errors.New("invalid script")

// Phase names a stage of a script.
type Phase string

// Idle is the phase of a run before its first step.
const Idle Phase = "idle"

// Unit is the granularity of an incremental text reveal.
type Unit int

const (
	// UnitRune reveals one character per tick.
	UnitRune Unit = iota
	// UnitWord reveals one word, with its leading whitespace, per tick.
	UnitWord
	// UnitLine reveals one line per tick.
	UnitLine
)

func (u Unit) String() string {
	switch u {
	case UnitRune:
		return "rune"
	case UnitWord:
		return "word"
	case UnitLine:
		return "line"
	default:
		return fmt.Sprintf("unit(%d)", int(u))
	}
}

// ActionKind selects what an Action does.
type ActionKind int

const (
	// ActionSet assigns a counter.
	ActionSet ActionKind = iota
	// ActionCount advances a counter by one per tick.
	ActionCount
	// ActionShow replaces a text.
	ActionShow
	// ActionReveal extends a text one unit per tick.
	ActionReveal
	// ActionWait suspends before the next action.
	ActionWait
)

// Action is one state change inside a step.
type Action struct {
	Kind  ActionKind
	Key   string
	Value int
	Text  string
	Unit  Unit
	Every time.Duration
}

// Set assigns counter key to v.
func Set(key string, v int) Action {
	return Action{Kind: ActionSet, Key: key, Value: v}
}

// Count advances counter key to target, one increment every interval.
func Count(key string, target int, every time.Duration) Action {
	return Action{Kind: ActionCount, Key: key, Value: target, Every: every}
}

// Show replaces text key with text.
func Show(key, text string) Action {
	return Action{Kind: ActionShow, Key: key, Text: text}
}

// Reveal extends text key toward text, one unit every interval.
func Reveal(key, text string, unit Unit, every time.Duration) Action {
	return Action{Kind: ActionReveal, Key: key, Text: text, Unit: unit, Every: every}
}

// Wait suspends the step for d before its next action.
func Wait(d time.Duration) Action {
	return Action{Kind: ActionWait, Every: d}
}

// Step is one phase of a script.
type Step struct {
	Phase Phase
	// Delay elapses before the phase is entered.
	Delay   time.Duration
	Actions []Action
	// Hold elapses after the actions, before the next step. On the last
	// step it is the final hold before the run stops or loops.
	Hold time.Duration
}

// Flag is a presentation flag derived from the current phase. It holds
// from phase From (inclusive) until phase Until (exclusive). An empty
// Until holds through the end of the run.
type Flag struct {
	Name  string
	From  Phase
	Until Phase
}

// Script is the immutable description of a demo sequence.
type Script struct {
	Steps []Step
	// Counters holds initial counter values. Counters used by actions
	// default to zero.
	Counters map[string]int
	// Texts holds initial text values.
	Texts map[string]string
	Flags []Flag
}

// Phases returns the declared phases in order, without Idle.
func (s Script) Phases() []Phase {
	out := make([]Phase, 0, len(s.Steps))
	for _, st := range s.Steps {
		out = append(out, st.Phase)
	}
	return out
}

// Validate reports whether the script can be compiled.
func (s Script) Validate() error {
	_, err := compile(s)
	return err
}

// op is one timed state change of a compiled script.
type op struct {
	wait     time.Duration
	enter    bool
	phase    Phase
	counters map[string]int
	texts    map[string]string
	complete bool
	end      bool
}

type program struct {
	ops      []op
	counters map[string]int
	texts    map[string]string
	phases   []Phase
	flags    []flagRange
}

type flagRange struct {
	name      string
	from, end int
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidScript, fmt.Sprintf(format, args...))
}

func compile(s Script) (program, error) {
	if len(s.Steps) == 0 {
		return program{}, invalid("no steps")
	}
	prog := program{
		counters: make(map[string]int, len(s.Counters)),
		texts:    make(map[string]string, len(s.Texts)),
	}
	for k, v := range s.Counters {
		if k == "" {
			return program{}, invalid("empty counter name")
		}
		prog.counters[k] = v
	}
	for k, v := range s.Texts {
		if k == "" {
			return program{}, invalid("empty text name")
		}
		prog.texts[k] = v
	}
	index := make(map[Phase]int, len(s.Steps))
	counters := cloneInts(prog.counters)
	texts := cloneStrings(prog.texts)
	var pending time.Duration
	last := len(s.Steps) - 1

	emit := func(o op) {
		o.wait += pending
		pending = 0
		prog.ops = append(prog.ops, o)
	}
	// merge folds an immediate change into the previous op when no wait
	// separates them.
	merge := func(key string, value int, text *string) {
		if pending > 0 || len(prog.ops) == 0 {
			o := op{}
			if text != nil {
				o.texts = map[string]string{key: *text}
			} else {
				o.counters = map[string]int{key: value}
			}
			emit(o)
			return
		}
		prev := &prog.ops[len(prog.ops)-1]
		if text != nil {
			if prev.texts == nil {
				prev.texts = map[string]string{}
			}
			prev.texts[key] = *text
			return
		}
		if prev.counters == nil {
			prev.counters = map[string]int{}
		}
		prev.counters[key] = value
	}

	for i, st := range s.Steps {
		switch {
		case st.Phase == "":
			return program{}, invalid("step %d has no phase", i)
		case st.Phase == Idle:
			return program{}, invalid("step %d uses reserved phase %q", i, Idle)
		}
		if _, dup := index[st.Phase]; dup {
			return program{}, invalid("phase %q declared twice", st.Phase)
		}
		if st.Delay < 0 || st.Hold < 0 {
			return program{}, invalid("phase %q has a negative duration", st.Phase)
		}
		index[st.Phase] = i
		prog.phases = append(prog.phases, st.Phase)
		pending += st.Delay
		emit(op{enter: true, phase: st.Phase})

		for j, a := range st.Actions {
			if a.Every < 0 {
				return program{}, invalid("phase %q action %d has a negative interval", st.Phase, j)
			}
			if a.Kind != ActionWait && a.Key == "" {
				return program{}, invalid("phase %q action %d has no key", st.Phase, j)
			}
			switch a.Kind {
			case ActionSet:
				if a.Value < counters[a.Key] {
					return program{}, invalid("phase %q lowers counter %q", st.Phase, a.Key)
				}
				counters[a.Key] = a.Value
				merge(a.Key, a.Value, nil)
			case ActionCount:
				if a.Value < counters[a.Key] {
					return program{}, invalid("phase %q counts %q backwards", st.Phase, a.Key)
				}
				for v := counters[a.Key] + 1; v <= a.Value; v++ {
					emit(op{wait: a.Every, counters: map[string]int{a.Key: v}})
				}
				counters[a.Key] = a.Value
			case ActionShow:
				text := a.Text
				texts[a.Key] = text
				merge(a.Key, 0, &text)
			case ActionReveal:
				current := texts[a.Key]
				if !strings.HasPrefix(a.Text, current) {
					return program{}, invalid("phase %q reveals %q from a non-prefix", st.Phase, a.Key)
				}
				for _, prefix := range prefixes(a.Text, len(current), a.Unit) {
					emit(op{wait: a.Every, texts: map[string]string{a.Key: prefix}})
				}
				texts[a.Key] = a.Text
			case ActionWait:
				pending += a.Every
			default:
				return program{}, invalid("phase %q action %d has unknown kind %d", st.Phase, j, a.Kind)
			}
		}

		if i == last {
			if pending > 0 {
				emit(op{complete: true})
			} else {
				prog.ops[len(prog.ops)-1].complete = true
			}
			pending += st.Hold
			emit(op{end: true})
			break
		}
		pending += st.Hold
	}

	for _, f := range s.Flags {
		if f.Name == "" {
			return program{}, invalid("flag with no name")
		}
		from, ok := index[f.From]
		if !ok {
			return program{}, invalid("flag %q starts at unknown phase %q", f.Name, f.From)
		}
		end := len(s.Steps)
		if f.Until != "" {
			until, ok := index[f.Until]
			if !ok {
				return program{}, invalid("flag %q ends at unknown phase %q", f.Name, f.Until)
			}
			if until <= from {
				return program{}, invalid("flag %q ends before it starts", f.Name)
			}
			end = until
		}
		prog.flags = append(prog.flags, flagRange{name: f.Name, from: from, end: end})
	}
	for k := range counters {
		if _, ok := prog.counters[k]; !ok {
			prog.counters[k] = 0
		}
	}
	for k := range texts {
		if _, ok := prog.texts[k]; !ok {
			prog.texts[k] = ""
		}
	}
	return prog, nil
}

// prefixes returns the successive prefixes of text longer than start bytes,
// one per unit, ending with text itself.
func prefixes(text string, start int, unit Unit) []string {
	var out []string
	rest := text[start:]
	pos := start
	for rest != "" {
		n := unitLen(rest, unit)
		pos += n
		rest = rest[n:]
		out = append(out, text[:pos])
	}
	return out
}

func unitLen(s string, unit Unit) int {
	switch unit {
	case UnitWord:
		n := 0
		for n < len(s) {
			r, size := utf8.DecodeRuneInString(s[n:])
			if !unicode.IsSpace(r) {
				break
			}
			n += size
		}
		for n < len(s) {
			r, size := utf8.DecodeRuneInString(s[n:])
			if unicode.IsSpace(r) {
				break
			}
			n += size
		}
		return n
	case UnitLine:
		if i := strings.IndexByte(s, '\n'); i >= 0 {
			return i + 1
		}
		return len(s)
	default:
		_, size := utf8.DecodeRuneInString(s)
		return size
	}
}

func cloneInts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
