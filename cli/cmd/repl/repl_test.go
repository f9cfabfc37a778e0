package repl

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/hostscript/lang"
)

func newTestModel(t *testing.T, reset func(context.Context) error) (model, *lang.Interpreter) {
	t.Helper()

	in, reg, out := newSession(t)

	cfg := config{
		registry: reg,
		output:   out,
		logger:   in.Logger(),
		reset:    reset,
	}

	return newModel(t.Context(), in, NewHistory(""), cfg), in
}

// enter submits line as if typed at the prompt.
func enter(m model, line string) model {
	m.input.SetValue(line)
	m.input.CursorEnd()
	m, _ = m.executeInput()

	return m
}

func lookup(t *testing.T, in *lang.Interpreter, name string) string {
	t.Helper()

	v, ok := in.Environment().Lookup(name)
	if !ok {
		return "<unbound>"
	}

	s, _ := lang.Display(v)

	return s
}

func TestModel_Statements(t *testing.T) {
	m, in := newTestModel(t, nil)

	m = enter(m, "f = (a) {")
	if m.pending.empty() {
		t.Fatal("incomplete statement was not buffered")
	}

	if got := lookup(t, in, "f"); got != "<unbound>" {
		t.Fatalf("f bound before statement completed: %s", got)
	}

	m = enter(m, "  a;")
	m = enter(m, "};")

	if !m.pending.empty() {
		t.Fatalf("pending = %q after complete statement", m.pending.String())
	}

	m = enter(m, "x = f(7);")
	_ = m

	if got := lookup(t, in, "x"); got != "7" {
		t.Errorf("x = %s, want 7", got)
	}
}

func TestModel_ErrorsContinue(t *testing.T) {
	m, in := newTestModel(t, nil)

	m = enter(m, "missing.field = 1;")
	m = enter(m, "ok = 1;")
	_ = m

	if got := lookup(t, in, "ok"); got != "1" {
		t.Errorf("ok = %s, want 1", got)
	}
}

func TestModel_DrainsOutput(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = enter(m, `.host.System.println("hi");`)

	if m.config.output.Len() != 0 {
		t.Errorf("output not drained: %q", m.config.output.String())
	}
}

func TestModel_History(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m = enter(m, "a = 1;")
	m = enter(m, ":vars")
	m = enter(m, "b = (x) {")
	m = enter(m, "x; };")

	want := []HistoryEntry{
		{"a = 1;", modeEval},
		{"vars", modeCtrl},
		{"b = (x) { x; };", modeEval},
	}

	got := m.history.Entries()
	if len(got) != len(want) {
		t.Fatalf("history = %v, want %v", got, want)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("history[%d] = %v, want %v", i, got[i], want[i])
		}
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "b = (x) { x; };" || m.mode != modeEval {
		t.Errorf("history up = %q (mode %d)", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, false)
	if m.input.Value() != "vars" || m.mode != modeCtrl {
		t.Errorf("history up = %q (mode %d)", m.input.Value(), m.mode)
	}

	m = m.historyStep(-1, true)
	if m.input.Value() != "vars" {
		t.Errorf("in-mode history up = %q, want no move", m.input.Value())
	}

	m = m.historyStep(1, false)
	m = m.historyStep(1, false)

	if m.input.Value() != "" || m.historyIdx != m.history.Len() {
		t.Errorf("history down past end = %q at %d", m.input.Value(), m.historyIdx)
	}
}

func TestModel_Commands(t *testing.T) {
	m, _ := newTestModel(t, nil)

	tests := []struct {
		name  string
		input string
		quit  bool
	}{
		{"help", ":help", false},
		{"vars", ":vars", false},
		{"types", ":types", false},
		{"unknown", ":bogus", false},
		{"quit", ":quit", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := enter(m, tt.input)
			if got.quitting != tt.quit {
				t.Errorf("%s: quitting = %v, want %v", tt.input, got.quitting, tt.quit)
			}
		})
	}
}

func TestModel_Reset(t *testing.T) {
	var resets int

	hookErr := errors.New("prelude failed")

	m, in := newTestModel(t, func(context.Context) error {
		resets++

		if resets > 1 {
			return hookErr
		}

		return nil
	})

	m = enter(m, "x = 1;")
	m = enter(m, "y = (a) {")
	m = enter(m, ":reset")

	if got := lookup(t, in, "x"); got != "<unbound>" {
		t.Errorf("x = %s after reset", got)
	}

	if resets != 1 {
		t.Errorf("reset hook ran %d times, want 1", resets)
	}

	if !m.pending.empty() {
		t.Error("pending statement survived reset")
	}

	m.mode = modeCtrl
	m = enter(m, "reset")

	if resets != 2 {
		t.Errorf("reset hook ran %d times, want 2", resets)
	}
}

func TestModel_TabCompletion(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.input.SetValue(".host.PathL")
	m.input.CursorEnd()
	refreshMatches(&m, false)

	if len(m.matches) != 1 {
		t.Fatalf("matches = %v, want one", m.matches)
	}

	m = m.cycle(1)

	if got := m.input.Value(); got != ".host.PathList" {
		t.Errorf("completed input = %q", got)
	}
}

func TestModel_ToggleMode(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m.input.SetValue("x = ")
	m = m.toggleMode()

	if m.mode != modeCtrl || m.input.Value() != "" {
		t.Fatalf("ctrl mode input = %q", m.input.Value())
	}

	m.input.SetValue("vars")
	m = m.toggleMode()

	if m.mode != modeEval || m.input.Value() != "x = " {
		t.Errorf("eval mode input = %q, want restored", m.input.Value())
	}
}

func TestModel_RunEachStatement(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []string
	}{
		{"two results", "x = 1; y = 2;", []string{"1", "2"}},
		{"output then result", `.host.System.println("hi"); z = 3;`, []string{"hi", "3"}},
		{"no value skipped", `f = (a) { return; }; f(1); 4;`, []string{"<closure(a)>", "4"}},
		{"stops at error", "a = 1; missing.field = 2; b = 3;", []string{"1", "error: "}},
		{"syntax error runs nothing", "c = 1; d = ;", []string{"error: "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, in := newTestModel(t, nil)

			got := m.run(t.Context(), tt.src)
			if len(got) != len(tt.want) {
				t.Fatalf("run(%q) = %+v, want %d lines", tt.src, got, len(tt.want))
			}

			for i, want := range tt.want {
				if want == "error: " {
					if !strings.HasPrefix(got[i].text, want) {
						t.Errorf("line %d = %q, want error", i, got[i].text)
					}

					continue
				}

				if got[i].text != want {
					t.Errorf("line %d = %q, want %q", i, got[i].text, want)
				}
			}

			if tt.name == "stops at error" && lookup(t, in, "b") != "<unbound>" {
				t.Error("statement after error was executed")
			}

			if tt.name == "syntax error runs nothing" && lookup(t, in, "c") != "<unbound>" {
				t.Error("statement before syntax error was executed")
			}
		})
	}
}
