package lang

import (
	"maps"
	"slices"
)

// Environment holds the variable bindings of a session: one global map plus
// a stack of call frames.
//
// Scoping is flat. Lookup and assignment see the top frame, if any, and then
// the globals; frames below the top are never visible. Function literals do
// not capture the frame active where they are defined.
type Environment struct {
	globals map[string]Value
	frames  []map[string]Value
}

// NewEnvironment returns an Environment with the predefined globals null,
// true, and false bound. They are ordinary bindings and may be reassigned.
func NewEnvironment() *Environment {
	e := new(Environment)
	e.Reset()

	return e
}

// Reset discards every frame and restores the predefined globals.
func (e *Environment) Reset() {
	e.frames = nil
	e.globals = map[string]Value{
		"null":  Null{},
		"true":  Bool(true),
		"false": Bool(false),
	}
}

// Lookup returns the value bound to name in the top frame, or else in the
// globals.
func (e *Environment) Lookup(name string) (Value, bool) {
	if top := e.top(); top != nil {
		if v, ok := top[name]; ok {
			return v, true
		}
	}

	v, ok := e.globals[name]

	return v, ok
}

// Assign binds name to v in the top frame if one exists, else in the globals.
func (e *Environment) Assign(name string, v Value) {
	if top := e.top(); top != nil {
		top[name] = v

		return
	}

	e.globals[name] = v
}

// Push enters a new empty frame.
func (e *Environment) Push() {
	e.frames = append(e.frames, make(map[string]Value))
}

// Pop discards the top frame. It reports false if no frame was active.
func (e *Environment) Pop() bool {
	if len(e.frames) == 0 {
		return false
	}

	e.frames[len(e.frames)-1] = nil
	e.frames = e.frames[:len(e.frames)-1]

	return true
}

// Depth returns the number of active frames.
func (e *Environment) Depth() int { return len(e.frames) }

// Names returns the sorted names visible to [Environment.Lookup].
func (e *Environment) Names() []string {
	names := slices.Collect(maps.Keys(e.globals))

	if top := e.top(); top != nil {
		names = slices.AppendSeq(names, maps.Keys(top))
	}

	slices.Sort(names)

	return slices.Compact(names)
}

func (e *Environment) top() map[string]Value {
	if len(e.frames) == 0 {
		return nil
	}

	return e.frames[len(e.frames)-1]
}
