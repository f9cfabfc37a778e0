package repl

import "testing"

func TestStatementComplete(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"simple", "x = 1;", true},
		{"trailing space", "x = 1;  \n", true},
		{"no semicolon", "x = 1", false},
		{"empty", "", false},
		{"open brace", "f = (a) {", false},
		{"open brace with statement", "f = (a) { a;", false},
		{"closed brace", "f = (a) { a; };", true},
		{"closed brace no semicolon", "f = (a) { a; }", false},
		{"open paren", "f(1,", false},
		{"semicolon in string", `s = "a;`, false},
		{"closed string", `s = "a;";`, true},
		{"backslash ends string", `p = "C:\";`, true},
		{"backslash then quote", `s = "a\"`, false},
		{"backslash char", `c = '\';`, true},
		{"comment after statement", "x = 1; // done", true},
		{"apostrophe in comment", "x = 1; // it's done", true},
		{"apostrophe in comment then statement", "x = 1; // it's\ny = 2;", true},
		{"semicolon in comment", "x = 1 // ;", false},
		{"brace in comment", "f = (a) { // }\n", false},
		{"comment marker in string", `s = "//";`, true},
		{"single slash", "x = a/b;", true},
		{"semicolon char", `c = ';'`, false},
		{"semicolon char closed", `c = ';';`, true},
		{"brace in string", `s = "{";`, true},
		{"unbalanced close", "};", true},
		{"two statements", "a = 1; b = 2;", true},
		{"second incomplete", "a = 1; b = 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statementComplete(tt.input); got != tt.want {
				t.Errorf("statementComplete(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPending_Add(t *testing.T) {
	var p pending

	steps := []struct {
		line string
		want string
		done bool
	}{
		{line: "f = (a) {"},
		{line: "  a;"},
		{line: "};", want: "f = (a) {\n  a;\n};", done: true},
		{line: "f(1);", want: "f(1);", done: true},
	}

	for _, step := range steps {
		src, done := p.add(step.line)
		if done != step.done || src != step.want {
			t.Fatalf("add(%q) = (%q, %v), want (%q, %v)", step.line, src, done, step.want, step.done)
		}
	}

	if !p.empty() {
		t.Errorf("pending not empty: %q", p.String())
	}
}
